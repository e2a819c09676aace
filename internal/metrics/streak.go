package metrics

import (
	"sort"
	"time"

	"github.com/lumilearn/lumilearn-api/internal/domain"
)

// Streak holds the current and longest runs of consecutive study days
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// midnight truncates t to the start of its calendar day in t's location
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ComputeStreak derives streaks from the distinct calendar days (local to
// the server, midnight-aligned) on which the user has at least one session.
// Current counts strictly backward from today: a single missing day breaks
// it to zero even if older days are present. Longest is the maximum run of
// consecutive days anywhere in the history.
func ComputeStreak(sessions []domain.Session, now time.Time) Streak {
	days := make(map[time.Time]struct{}, len(sessions))
	for _, s := range sessions {
		days[midnight(s.CreatedAt.In(now.Location()))] = struct{}{}
	}
	if len(days) == 0 {
		return Streak{}
	}

	current := 0
	for day := midnight(now); ; day = day.AddDate(0, 0, -1) {
		if _, ok := days[day]; !ok {
			break
		}
		current++
	}

	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].AddDate(0, 0, 1).Equal(sorted[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return Streak{Current: current, Longest: longest}
}
