package domain

import "context"

// RetentionDuration is the admin-configured retention window
type RetentionDuration string

const (
	RetentionDays7   RetentionDuration = "7"
	RetentionDays30  RetentionDuration = "30"
	RetentionDays90  RetentionDuration = "90"
	RetentionNever   RetentionDuration = "never"
	RetentionDefault RetentionDuration = RetentionDays30
)

// Days returns the window length in days and false for "never" or
// unrecognized values.
func (d RetentionDuration) Days() (int, bool) {
	switch d {
	case RetentionDays7:
		return 7, true
	case RetentionDays30:
		return 30, true
	case RetentionDays90:
		return 90, true
	default:
		return 0, false
	}
}

// RetentionSettings is the singleton-like admin configuration row. The core
// only reads it; an external admin surface mutates it.
type RetentionSettings struct {
	Enabled  bool              `json:"data_retention"`
	Duration RetentionDuration `json:"retention_duration"`
}

// DefaultRetentionSettings is the hardcoded fallback applied when no
// settings row exists or it cannot be read.
func DefaultRetentionSettings() RetentionSettings {
	return RetentionSettings{Enabled: true, Duration: RetentionDefault}
}

// SettingsRepository reads the single retention settings row
type SettingsRepository interface {
	// GetRetention returns the settings row, or ErrNotFound if absent
	GetRetention(ctx context.Context) (*RetentionSettings, error)
}
