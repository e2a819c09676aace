package domain

import "errors"

// Sentinel errors returned by services and repositories. Handlers map these
// to HTTP statuses; background jobs log and continue.
var (
	// ErrNotFound indicates the referenced record does not exist or does not
	// belong to the requesting user.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState indicates the operation is not legal for the session's
	// current lifecycle state (e.g. resuming a completed session).
	ErrInvalidState = errors.New("invalid session state")
)
