package retention

import (
	"context"
	"errors"
	"time"

	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// Policy is the resolved retention decision. Cutoff is nil when the admin
// disabled retention or chose "never"; callers must branch on Enabled/Never
// explicitly, never on the nil cutoff alone.
type Policy struct {
	Enabled bool
	Never   bool
	Cutoff  *time.Time
}

// Resolver turns the admin-configured retention settings into a cutoff
// date. Settings are read per call; nothing is cached at module level.
type Resolver struct {
	settings domain.SettingsRepository
	now      func() time.Time
}

func NewResolver(settings domain.SettingsRepository) *Resolver {
	return &Resolver{settings: settings, now: time.Now}
}

// Resolve reads the settings row and computes the cutoff. A missing row or
// a storage read failure both fail open to the safe default (enabled, 30
// days) so a broken settings table never silently skips cleanup. This runs
// on the background-job path; errors are logged, not propagated.
func (r *Resolver) Resolve(ctx context.Context) Policy {
	settings := domain.DefaultRetentionSettings()

	stored, err := r.settings.GetRetention(ctx)
	switch {
	case err == nil:
		settings = *stored
	case errors.Is(err, domain.ErrNotFound):
		// No settings row yet, safe default applies
	default:
		log.Error().Err(err).Msg("failed to read retention settings, applying safe default")
	}

	if settings.Duration == domain.RetentionNever {
		return Policy{Enabled: settings.Enabled, Never: true}
	}
	if !settings.Enabled {
		return Policy{Enabled: false}
	}

	days, ok := settings.Duration.Days()
	if !ok {
		days, _ = domain.RetentionDefault.Days()
	}

	cutoff := r.now().AddDate(0, 0, -days)
	return Policy{Enabled: true, Cutoff: &cutoff}
}
