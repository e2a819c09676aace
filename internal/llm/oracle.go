package llm

import "context"

// Oracle is the completion oracle the classifier talks to. Output is
// free-form text that usually resembles JSON but is not guaranteed to be;
// call sites strip formatting and catch parse errors.
type Oracle interface {
	// Name returns the provider identifier
	Name() string

	// IsConfigured checks if the provider has valid credentials
	IsConfigured() bool

	// Complete sends a prompt and returns the raw model text
	Complete(ctx context.Context, prompt string) (string, error)
}
