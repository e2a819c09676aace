package retention

import (
	"context"
	"time"

	"github.com/lumilearn/lumilearn-api/internal/blob"
	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// CleanupReport summarizes one cleanup pass
type CleanupReport struct {
	Deleted int64 `json:"deleted"`
	Errors  int   `json:"errors"`
}

// OrphanReport summarizes an orphaned-file sweep
type OrphanReport struct {
	FilesChecked int `json:"files_checked"`
	FilesDeleted int `json:"files_deleted"`
	Errors       int `json:"errors"`
}

// Engine deletes sessions past the retention cutoff and reaps abandoned
// empty sessions. Two expiry paths exist with deliberately different scope:
// CleanupExpiredSessions restricts itself to completed sessions and also
// removes their referenced blob files, while CleanupStaleSessions (the
// daily scheduled path) deletes any session past the cutoff with no file
// cleanup. Both are valid, independently invoked policies.
type Engine struct {
	sessions domain.SessionRepository
	resolver *Resolver
	blobs    blob.Store
	now      func() time.Time
}

func NewEngine(sessions domain.SessionRepository, resolver *Resolver, blobs blob.Store) *Engine {
	return &Engine{
		sessions: sessions,
		resolver: resolver,
		blobs:    blobs,
		now:      time.Now,
	}
}

// CleanupExpiredSessions deletes completed sessions older than the
// retention cutoff, removing their transcript blob files first. Retention
// disabled or "never" means no history is kept at all: every session is
// deleted unconditionally, however fresh. File-deletion failures are
// counted but never block the session deletion.
func (e *Engine) CleanupExpiredSessions(ctx context.Context) CleanupReport {
	policy := e.resolver.Resolve(ctx)

	if !policy.Enabled || policy.Never {
		n, err := e.sessions.DeleteAll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to delete all sessions under no-retention policy")
			return CleanupReport{Deleted: n, Errors: 1}
		}
		log.Info().Int64("deleted", n).Msg("retention disabled, deleted all sessions")
		return CleanupReport{Deleted: n}
	}

	expired, err := e.sessions.ListCompletedBefore(ctx, *policy.Cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to list expired sessions")
		return CleanupReport{Errors: 1}
	}

	var report CleanupReport
	for _, s := range expired {
		report.Errors += e.deleteSessionFiles(ctx, &s)

		gone, err := e.sessions.Delete(ctx, s.ID)
		if err != nil {
			log.Error().Err(err).Str("session_id", s.ID.String()).Msg("failed to delete expired session")
			report.Errors++
			continue
		}
		if gone {
			report.Deleted++
		}
	}

	log.Info().
		Int64("deleted", report.Deleted).
		Int("errors", report.Errors).
		Time("cutoff", *policy.Cutoff).
		Msg("expired session cleanup finished")
	return report
}

// deleteSessionFiles issues best-effort deletion for every blob-storage URL
// referenced in the session transcript, returning the failure count. Skips
// silently when the blob store is unavailable.
func (e *Engine) deleteSessionFiles(ctx context.Context, s *domain.Session) int {
	if e.blobs == nil || !e.blobs.IsAvailable() {
		return 0
	}

	errs := 0
	for _, rawURL := range s.Transcript.AttachmentURLs() {
		if _, err := e.blobs.DeleteByURL(ctx, rawURL); err != nil {
			log.Warn().Err(err).Str("url", rawURL).Msg("failed to delete session file")
			errs++
		}
	}
	return errs
}

// CleanupStaleSessions is the scheduler-scope variant: any session past the
// cutoff is deleted regardless of completion state, with no blob cleanup.
func (e *Engine) CleanupStaleSessions(ctx context.Context) CleanupReport {
	policy := e.resolver.Resolve(ctx)

	if !policy.Enabled || policy.Never {
		n, err := e.sessions.DeleteAll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to delete all sessions under no-retention policy")
			return CleanupReport{Deleted: n, Errors: 1}
		}
		return CleanupReport{Deleted: n}
	}

	n, err := e.sessions.DeleteUpdatedBefore(ctx, *policy.Cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete stale sessions")
		return CleanupReport{Deleted: n, Errors: 1}
	}

	log.Info().Int64("deleted", n).Time("cutoff", *policy.Cutoff).Msg("stale session cleanup finished")
	return CleanupReport{Deleted: n}
}

// CleanupIncompleteSessions reaps abandoned sessions: incomplete, no
// transcript, older than the threshold.
func (e *Engine) CleanupIncompleteSessions(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := e.now().AddDate(0, 0, -olderThanDays)

	n, err := e.sessions.DeleteEmptyIncompleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		log.Info().Int64("deleted", n).Int("older_than_days", olderThanDays).Msg("reaped abandoned empty sessions")
	}
	return n, nil
}

// CleanupOrphanedFiles computes the set of blob URLs still referenced by
// existing sessions. Diffing that set against the full bucket listing is a
// future extension; until then the sweep deletes nothing and reports a
// deterministic zero result.
func (e *Engine) CleanupOrphanedFiles(ctx context.Context) OrphanReport {
	sessions, err := e.sessions.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list sessions for orphaned-file sweep")
		return OrphanReport{}
	}

	referenced := make(map[string]struct{})
	for _, s := range sessions {
		for _, u := range s.Transcript.AttachmentURLs() {
			referenced[u] = struct{}{}
		}
	}

	log.Info().Int("referenced_files", len(referenced)).Msg("orphaned-file sweep finished")
	return OrphanReport{FilesChecked: 0, FilesDeleted: 0, Errors: 0}
}

// RunFullCleanup is the unit the scheduler invokes daily. A failure inside
// one sub-task never prevents the others from running.
func (e *Engine) RunFullCleanup(ctx context.Context, incompleteAfterDays int) {
	stale := e.CleanupStaleSessions(ctx)

	reaped, err := e.CleanupIncompleteSessions(ctx, incompleteAfterDays)
	if err != nil {
		log.Error().Err(err).Msg("incomplete-session cleanup failed")
	}

	orphans := e.CleanupOrphanedFiles(ctx)

	log.Info().
		Int64("stale_deleted", stale.Deleted).
		Int("stale_errors", stale.Errors).
		Int64("incomplete_deleted", reaped).
		Int("orphans_checked", orphans.FilesChecked).
		Msg("full cleanup pass finished")
}
