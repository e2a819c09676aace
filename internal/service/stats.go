package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/lumilearn/lumilearn-api/internal/metrics"
	"github.com/rs/zerolog/log"
)

// StatsCache caches computed personal stats per user. A nil cache is valid;
// every method call then goes to the repositories.
type StatsCache interface {
	// GetStats returns the cached view, or nil on a miss
	GetStats(ctx context.Context, userID uuid.UUID) (*metrics.PersonalStats, error)
	SetStats(ctx context.Context, userID uuid.UUID, stats *metrics.PersonalStats) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// StatsService serves the derived dashboard views: streaks, medals, star
// progress and personal statistics.
type StatsService struct {
	sessions domain.SessionRepository
	progress domain.ProgressRepository
	activity domain.UserActivityRepository
	cache    StatsCache
	now      func() time.Time
}

func NewStatsService(
	sessions domain.SessionRepository,
	progress domain.ProgressRepository,
	activity domain.UserActivityRepository,
	cache StatsCache,
) *StatsService {
	return &StatsService{
		sessions: sessions,
		progress: progress,
		activity: activity,
		cache:    cache,
		now:      time.Now,
	}
}

// Streak computes the user's current and longest study-day streaks
func (s *StatsService) Streak(ctx context.Context, userID uuid.UUID) (metrics.Streak, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return metrics.Streak{}, fmt.Errorf("failed to load session history: %w", err)
	}
	return metrics.ComputeStreak(sessions, s.now()), nil
}

// Medals computes medal progress from the full session history
func (s *StatsService) Medals(ctx context.Context, userID uuid.UUID) (metrics.Medals, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return metrics.Medals{}, fmt.Errorf("failed to load session history: %w", err)
	}
	return metrics.ComputeMedals(sessions, s.now()), nil
}

// StarProgress computes today's 0..100 score and persists it back onto
// today's activity row.
func (s *StatsService) StarProgress(ctx context.Context, userID uuid.UUID) (int, error) {
	today, err := s.activity.GetOrCreate(ctx, userID, midnight(s.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to load today's activity: %w", err)
	}

	progress := metrics.ComputeStarProgress(today)
	if progress != today.StarProgress {
		today.StarProgress = progress
		today.UpdatedAt = s.now()
		if err := s.activity.Update(ctx, today); err != nil {
			log.Warn().Err(err).Msg("failed to persist star progress")
		}
	}
	return progress, nil
}

// PersonalStats serves the aggregate dashboard view, from cache when warm
func (s *StatsService) PersonalStats(ctx context.Context, userID uuid.UUID) (metrics.PersonalStats, error) {
	if s.cache != nil {
		cached, err := s.cache.GetStats(ctx, userID)
		if err == nil && cached != nil {
			return *cached, nil
		}
	}

	sessions, err := s.sessions.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return metrics.PersonalStats{}, fmt.Errorf("failed to load session history: %w", err)
	}
	progress, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return metrics.PersonalStats{}, fmt.Errorf("failed to load progress history: %w", err)
	}

	stats := metrics.ComputePersonalStats(sessions, progress, s.now())

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, userID, &stats); err != nil {
			log.Warn().Err(err).Msg("failed to cache personal stats")
		}
	}
	return stats, nil
}
