package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Progress is an immutable derived record created once per subject per
// completed session. A session discussing N subjects yields N rows, with
// counters split proportionally by each subject's share of the detected
// questions.
type Progress struct {
	ID                 uuid.UUID `json:"id"`
	SessionID          uuid.UUID `json:"session_id"`
	UserID             uuid.UUID `json:"user_id"`
	Subject            string    `json:"subject"`
	Topic              *string   `json:"topic,omitempty"`
	QuestionsAttempted int       `json:"questions_attempted"`
	QuestionsCorrect   int       `json:"questions_correct"`
	DurationSeconds    int       `json:"duration_seconds"`
	CreatedAt          time.Time `json:"created_at"`
}

// ProgressRepository defines the interface for progress storage
type ProgressRepository interface {
	Create(ctx context.Context, progress *Progress) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Progress, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
}
