package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session represents one user's learning interaction window
type Session struct {
	ID                    uuid.UUID   `json:"id"`
	UserID                uuid.UUID   `json:"user_id"`
	Transcript            *Transcript `json:"transcript,omitempty"`
	Completed             bool        `json:"completed"`
	LastPoint             *string     `json:"last_point,omitempty"`
	Subject               *string     `json:"subject,omitempty"`
	Topic                 *string     `json:"topic,omitempty"`
	DurationSeconds       int         `json:"duration_seconds"`
	QuestionsAnswered     int         `json:"questions_answered"`
	CorrectAnswers        int         `json:"correct_answers"`
	PhotoUploads          int         `json:"photo_uploads_count"`
	WhiteboardSubmissions int         `json:"whiteboard_submissions"`
	AIInteractions        int         `json:"ai_interactions"`
	SpreadingJoyActions   int         `json:"spreading_joy_actions"`
	AudioModeEnabled      bool        `json:"audio_mode_enabled"`
	TextModeEnabled       bool        `json:"text_mode_enabled"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// IsActive reports whether this is the user's "true active" session:
// not completed and no saved resume marker.
func (s *Session) IsActive() bool {
	return !s.Completed && (s.LastPoint == nil || *s.LastPoint == "")
}

// SessionPatch carries a partial update. Nil fields are left untouched.
type SessionPatch struct {
	Transcript            *Transcript `json:"transcript,omitempty"`
	Completed             *bool       `json:"completed,omitempty"`
	LastPoint             *string     `json:"last_point,omitempty"`
	Subject               *string     `json:"subject,omitempty"`
	Topic                 *string     `json:"topic,omitempty"`
	DurationSeconds       *int        `json:"duration_seconds,omitempty"`
	QuestionsAnswered     *int        `json:"questions_answered,omitempty"`
	CorrectAnswers        *int        `json:"correct_answers,omitempty"`
	PhotoUploads          *int        `json:"photo_uploads_count,omitempty"`
	WhiteboardSubmissions *int        `json:"whiteboard_submissions,omitempty"`
	AIInteractions        *int        `json:"ai_interactions,omitempty"`
	SpreadingJoyActions   *int        `json:"spreading_joy_actions,omitempty"`
	AudioModeEnabled      *bool       `json:"audio_mode_enabled,omitempty"`
	TextModeEnabled       *bool       `json:"text_mode_enabled,omitempty"`
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]Session, error)
	// ListActiveByUser returns every row with completed=false and an empty
	// last_point, most recently updated first.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	Update(ctx context.Context, session *Session) error
	// Delete removes a session and reports whether a row existed
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// ListCompletedBefore returns completed sessions whose updated_at is
	// older than the cutoff
	ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]Session, error)
	// DeleteUpdatedBefore bulk-deletes sessions older than the cutoff
	// regardless of completion state, returning the count
	DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// DeleteAll removes every session, returning the count
	DeleteAll(ctx context.Context) (int64, error)
	// DeleteEmptyIncompleteBefore removes incomplete sessions without a
	// transcript older than the cutoff, returning the count
	DeleteEmptyIncompleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// ListAll returns every session (cleanup-scope scans)
	ListAll(ctx context.Context) ([]Session, error)
}
