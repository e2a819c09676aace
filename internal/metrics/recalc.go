package metrics

import (
	"context"

	"github.com/lumilearn/lumilearn-api/internal/domain"
)

// JoyCounter detects positive/appreciative user utterances. Implemented by
// the subject classifier; interface kept here so the recompute is testable
// without an oracle.
type JoyCounter interface {
	CountPositiveUtterances(ctx context.Context, t *domain.Transcript) int
}

// RecalculateCounters re-derives the transcript-dependent counters
// (spreading-joy actions and photo uploads) purely from the current
// transcript. A full recompute, not an increment: calling it repeatedly
// against the same transcript yields the same values. Returns true when
// either counter changed.
func RecalculateCounters(ctx context.Context, s *domain.Session, joy JoyCounter) bool {
	if s.Transcript.IsEmpty() {
		return false
	}

	joyCount := joy.CountPositiveUtterances(ctx, s.Transcript)
	photoCount := s.Transcript.PhotoUploadCount()

	changed := s.SpreadingJoyActions != joyCount || s.PhotoUploads != photoCount
	s.SpreadingJoyActions = joyCount
	s.PhotoUploads = photoCount
	return changed
}
