package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lumilearn/lumilearn-api/internal/domain"
)

// SettingsRepository implements domain.SettingsRepository
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// GetRetention reads the retention settings row. The table holds at most a
// handful of rows written by the admin surface; the newest one wins.
func (r *SettingsRepository) GetRetention(ctx context.Context) (*domain.RetentionSettings, error) {
	query := `
		SELECT data_retention, retention_duration
		FROM admin_settings
		ORDER BY updated_at DESC
		LIMIT 1
	`
	var s domain.RetentionSettings
	err := r.pool.QueryRow(ctx, query).Scan(&s.Enabled, &s.Duration)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get retention settings: %w", err)
	}
	return &s, nil
}
