package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lumilearn/lumilearn-api/internal/domain"
)

// UserActivityRepository implements domain.UserActivityRepository
type UserActivityRepository struct {
	pool *pgxpool.Pool
}

// NewUserActivityRepository creates a new daily-activity repository
func NewUserActivityRepository(pool *pgxpool.Pool) *UserActivityRepository {
	return &UserActivityRepository{pool: pool}
}

// GetOrCreate returns the rollup row for (userID, day), inserting a zeroed
// row when none exists. The no-op conflict update makes RETURNING yield the
// existing row.
func (r *UserActivityRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.UserActivity, error) {
	query := `
		INSERT INTO user_activity (id, user_id, day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, day) DO UPDATE SET user_id = user_activity.user_id
		RETURNING id, user_id, day, study_minutes, questions_answered,
			photo_questions, positive_actions, star_progress, created_at, updated_at
	`
	var a domain.UserActivity
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID, day, time.Now()).Scan(
		&a.ID,
		&a.UserID,
		&a.Day,
		&a.StudyMinutes,
		&a.QuestionsAnswered,
		&a.PhotoQuestions,
		&a.PositiveActions,
		&a.StarProgress,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create activity row: %w", err)
	}
	return &a, nil
}

func (r *UserActivityRepository) Update(ctx context.Context, activity *domain.UserActivity) error {
	query := `
		UPDATE user_activity
		SET study_minutes = $1, questions_answered = $2, photo_questions = $3,
			positive_actions = $4, star_progress = $5, updated_at = $6
		WHERE id = $7
	`
	ct, err := r.pool.Exec(ctx, query,
		activity.StudyMinutes,
		activity.QuestionsAnswered,
		activity.PhotoQuestions,
		activity.PositiveActions,
		activity.StarProgress,
		activity.UpdatedAt,
		activity.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity row: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser returns activity rows newest day first. A non-positive limit
// returns the full history.
func (r *UserActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.UserActivity, error) {
	query := `
		SELECT id, user_id, day, study_minutes, questions_answered,
			photo_questions, positive_actions, star_progress, created_at, updated_at
		FROM user_activity
		WHERE user_id = $1
		ORDER BY day DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity rows: %w", err)
	}
	defer rows.Close()

	var activities []domain.UserActivity
	for rows.Next() {
		var a domain.UserActivity
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Day,
			&a.StudyMinutes,
			&a.QuestionsAnswered,
			&a.PhotoQuestions,
			&a.PositiveActions,
			&a.StarProgress,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity rows: %w", err)
	}
	return activities, nil
}
