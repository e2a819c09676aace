package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lumilearn/lumilearn-api/internal/domain"
)

const sessionColumns = `
	id, user_id, transcript, completed, last_point, subject, topic,
	duration_seconds, questions_answered, correct_answers, photo_uploads,
	whiteboard_submissions, ai_interactions, spreading_joy_actions,
	audio_mode_enabled, text_mode_enabled, created_at, updated_at`

// emptyTranscript matches rows with no transcript or no messages in it
const emptyTranscript = `
	(transcript IS NULL
		OR transcript->'messages' IS NULL
		OR jsonb_array_length(transcript->'messages') = 0)`

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Transcript,
		session.Completed,
		session.LastPoint,
		session.Subject,
		session.Topic,
		session.DurationSeconds,
		session.QuestionsAnswered,
		session.CorrectAnswers,
		session.PhotoUploads,
		session.WhiteboardSubmissions,
		session.AIInteractions,
		session.SpreadingJoyActions,
		session.AudioModeEnabled,
		session.TextModeEnabled,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// ListByUser returns the user's sessions, most recently updated first. A
// non-positive limit returns the full history.
func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *SessionRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1
			AND completed = false
			AND (last_point IS NULL OR last_point = '')
		ORDER BY updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	query := `
		UPDATE sessions
		SET transcript = $1, completed = $2, last_point = $3, subject = $4,
			topic = $5, duration_seconds = $6, questions_answered = $7,
			correct_answers = $8, photo_uploads = $9, whiteboard_submissions = $10,
			ai_interactions = $11, spreading_joy_actions = $12,
			audio_mode_enabled = $13, text_mode_enabled = $14, updated_at = $15
		WHERE id = $16
	`
	ct, err := r.pool.Exec(ctx, query,
		session.Transcript,
		session.Completed,
		session.LastPoint,
		session.Subject,
		session.Topic,
		session.DurationSeconds,
		session.QuestionsAnswered,
		session.CorrectAnswers,
		session.PhotoUploads,
		session.WhiteboardSubmissions,
		session.AIInteractions,
		session.SpreadingJoyActions,
		session.AudioModeEnabled,
		session.TextModeEnabled,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *SessionRepository) ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE completed = true AND updated_at < $1
		ORDER BY updated_at ASC
	`
	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *SessionRepository) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale sessions: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *SessionRepository) DeleteAll(ctx context.Context) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *SessionRepository) DeleteEmptyIncompleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE completed = false AND updated_at < $1 AND ` + emptyTranscript
	ct, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete abandoned sessions: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *SessionRepository) ListAll(ctx context.Context) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Transcript,
		&s.Completed,
		&s.LastPoint,
		&s.Subject,
		&s.Topic,
		&s.DurationSeconds,
		&s.QuestionsAnswered,
		&s.CorrectAnswers,
		&s.PhotoUploads,
		&s.WhiteboardSubmissions,
		&s.AIInteractions,
		&s.SpreadingJoyActions,
		&s.AudioModeEnabled,
		&s.TextModeEnabled,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSessions(rows pgx.Rows) ([]domain.Session, error) {
	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session rows: %w", err)
	}
	return sessions, nil
}
