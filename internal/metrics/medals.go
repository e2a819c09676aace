package metrics

import (
	"time"

	"github.com/lumilearn/lumilearn-api/internal/domain"
)

// Medal thresholds. Configuration constants, not computed.
const (
	StreakerThreshold     = 200
	SpreadingJoyThreshold = 100
	SayCheeseThreshold    = 100
)

// MedalStatus is either completed or in_progress
type MedalStatus string

const (
	MedalCompleted  MedalStatus = "completed"
	MedalInProgress MedalStatus = "in_progress"
)

// Medal is one achievement with its raw progress count
type Medal struct {
	Status    MedalStatus `json:"status"`
	Progress  int         `json:"progress"`
	Threshold int         `json:"threshold"`
}

// Medals groups the three gamification achievements
type Medals struct {
	Streaker     Medal `json:"streaker"`
	SpreadingJoy Medal `json:"spreading_joy"`
	SayCheese    Medal `json:"say_cheese"`
}

func newMedal(progress, threshold int) Medal {
	status := MedalInProgress
	if progress >= threshold {
		status = MedalCompleted
	}
	return Medal{Status: status, Progress: progress, Threshold: threshold}
}

// ComputeMedals derives medal progress from session history. Streaker uses
// the longest continuous run so the medal stays completed once earned;
// the other two accumulate across all sessions.
func ComputeMedals(sessions []domain.Session, now time.Time) Medals {
	streak := ComputeStreak(sessions, now)

	joy, photos := 0, 0
	for _, s := range sessions {
		joy += s.SpreadingJoyActions
		photos += s.PhotoUploads
	}

	return Medals{
		Streaker:     newMedal(streak.Longest, StreakerThreshold),
		SpreadingJoy: newMedal(joy, SpreadingJoyThreshold),
		SayCheese:    newMedal(photos, SayCheeseThreshold),
	}
}
