package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserActivity is the per-(user, calendar day) rollup. Created lazily on
// the first read or write for "today".
type UserActivity struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Day               time.Time `json:"day"`
	StudyMinutes      int       `json:"study_minutes"`
	QuestionsAnswered int       `json:"questions_answered"`
	PhotoQuestions    int       `json:"photo_questions"`
	PositiveActions   int       `json:"positive_actions"`
	StarProgress      int       `json:"star_progress"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UserActivityRepository defines the interface for daily-activity storage
type UserActivityRepository interface {
	// GetOrCreate returns the row for (userID, day), inserting a zeroed row
	// if none exists. Day is truncated to midnight by the caller.
	GetOrCreate(ctx context.Context, userID uuid.UUID, day time.Time) (*UserActivity, error)
	Update(ctx context.Context, activity *UserActivity) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]UserActivity, error)
}
