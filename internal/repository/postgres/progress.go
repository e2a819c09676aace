package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lumilearn/lumilearn-api/internal/domain"
)

// ProgressRepository implements domain.ProgressRepository
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

func (r *ProgressRepository) Create(ctx context.Context, progress *domain.Progress) error {
	query := `
		INSERT INTO progress (id, session_id, user_id, subject, topic,
			questions_attempted, questions_correct, duration_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		progress.ID,
		progress.SessionID,
		progress.UserID,
		progress.Subject,
		progress.Topic,
		progress.QuestionsAttempted,
		progress.QuestionsCorrect,
		progress.DurationSeconds,
		progress.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create progress record: %w", err)
	}
	return nil
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Progress, error) {
	query := `
		SELECT id, session_id, user_id, subject, topic,
			questions_attempted, questions_correct, duration_seconds, created_at
		FROM progress
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress records: %w", err)
	}
	defer rows.Close()

	var records []domain.Progress
	for rows.Next() {
		var p domain.Progress
		if err := rows.Scan(
			&p.ID,
			&p.SessionID,
			&p.UserID,
			&p.Subject,
			&p.Topic,
			&p.QuestionsAttempted,
			&p.QuestionsCorrect,
			&p.DurationSeconds,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress record: %w", err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read progress rows: %w", err)
	}
	return records, nil
}

func (r *ProgressRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM progress WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete progress records: %w", err)
	}
	return nil
}
