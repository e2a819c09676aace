package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/lumilearn/lumilearn-api/internal/config"
	"github.com/lumilearn/lumilearn-api/internal/retention"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the recurring cleanup jobs on cron schedules (UTC)
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	engine *retention.Engine
	cfg    config.CleanupConfig
}

// New creates a scheduler around the cleanup engine
func New(engine *retention.Engine, cfg config.CleanupConfig) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		engine: engine,
		cfg:    cfg,
	}
}

// Start registers the daily retention sweep and the weekly orphaned-file
// scan, then starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.DailySchedule, func() {
		log.Info().Msg("starting scheduled session cleanup")
		s.engine.RunFullCleanup(s.ctx, s.cfg.IncompleteAfterDays)
	})
	if err != nil {
		return fmt.Errorf("failed to register daily cleanup: %w", err)
	}

	_, err = s.cron.AddFunc(s.cfg.WeeklySchedule, func() {
		log.Info().Msg("starting scheduled orphaned-file sweep")
		report := s.engine.CleanupOrphanedFiles(s.ctx)
		log.Info().
			Int("checked", report.FilesChecked).
			Int("deleted", report.FilesDeleted).
			Int("errors", report.Errors).
			Msg("orphaned-file sweep finished")
	})
	if err != nil {
		return fmt.Errorf("failed to register weekly sweep: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("daily", s.cfg.DailySchedule).
		Str("weekly", s.cfg.WeeklySchedule).
		Msg("cleanup scheduler started")
	return nil
}

// Stop halts the cron loop and waits for any running job to finish
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Info().Msg("cleanup scheduler stopped")
}
