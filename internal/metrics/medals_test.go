package metrics

import (
	"testing"
	"time"

	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeMedals(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("all in progress", func(t *testing.T) {
		medals := ComputeMedals([]domain.Session{
			{CreatedAt: now, SpreadingJoyActions: 5, PhotoUploads: 2},
		}, now)

		assert.Equal(t, MedalInProgress, medals.Streaker.Status)
		assert.Equal(t, 1, medals.Streaker.Progress)
		assert.Equal(t, MedalInProgress, medals.SpreadingJoy.Status)
		assert.Equal(t, 5, medals.SpreadingJoy.Progress)
		assert.Equal(t, MedalInProgress, medals.SayCheese.Status)
		assert.Equal(t, 2, medals.SayCheese.Progress)
	})

	t.Run("joy and photo accumulate across sessions", func(t *testing.T) {
		sessions := []domain.Session{
			{CreatedAt: now, SpreadingJoyActions: 60, PhotoUploads: 70},
			{CreatedAt: now.AddDate(0, 0, -1), SpreadingJoyActions: 45, PhotoUploads: 40},
		}
		medals := ComputeMedals(sessions, now)

		assert.Equal(t, MedalCompleted, medals.SpreadingJoy.Status)
		assert.Equal(t, 105, medals.SpreadingJoy.Progress)
		assert.Equal(t, MedalCompleted, medals.SayCheese.Status)
		assert.Equal(t, 110, medals.SayCheese.Progress)
	})

	t.Run("streaker completes at threshold", func(t *testing.T) {
		sessions := make([]domain.Session, 0, StreakerThreshold)
		for i := 0; i < StreakerThreshold; i++ {
			sessions = append(sessions, domain.Session{CreatedAt: now.AddDate(0, 0, -i)})
		}
		medals := ComputeMedals(sessions, now)

		assert.Equal(t, MedalCompleted, medals.Streaker.Status)
		assert.Equal(t, StreakerThreshold, medals.Streaker.Progress)
	})
}
