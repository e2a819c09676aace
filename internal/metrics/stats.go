package metrics

import (
	"time"

	"github.com/lumilearn/lumilearn-api/internal/domain"
)

// SubjectStats is the per-subject slice of the personal dashboard
type SubjectStats struct {
	Sessions int `json:"sessions"`
	// AverageAccuracy is a pairwise running average: each new value is
	// averaged against the previous average, not weighted by sample size.
	// Kept as-is for compatibility with historical dashboards.
	AverageAccuracy float64 `json:"average_accuracy"`
}

// PersonalStats is the aggregate dashboard view
type PersonalStats struct {
	TotalSessions          int                     `json:"total_sessions"`
	TotalDurationSeconds   int                     `json:"total_duration_seconds"`
	AverageDurationSeconds float64                 `json:"average_duration_seconds"`
	Accuracy               float64                 `json:"accuracy"`
	Subjects               map[string]SubjectStats `json:"subjects"`
	WeekStudySeconds       int                     `json:"week_study_seconds"`
}

// weekStart returns Monday 00:00 of now's week, in now's location
func weekStart(now time.Time) time.Time {
	day := midnight(now)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// ComputePersonalStats aggregates session history and per-subject progress
// records into the dashboard view. Accuracy is correct/answered with a zero
// denominator yielding zero.
func ComputePersonalStats(sessions []domain.Session, progress []domain.Progress, now time.Time) PersonalStats {
	stats := PersonalStats{Subjects: make(map[string]SubjectStats)}

	monday := weekStart(now)
	totalQuestions, totalCorrect := 0, 0
	for _, s := range sessions {
		stats.TotalSessions++
		stats.TotalDurationSeconds += s.DurationSeconds
		totalQuestions += s.QuestionsAnswered
		totalCorrect += s.CorrectAnswers

		if !s.CreatedAt.In(now.Location()).Before(monday) {
			stats.WeekStudySeconds += s.DurationSeconds
		}
	}

	if stats.TotalSessions > 0 {
		stats.AverageDurationSeconds = float64(stats.TotalDurationSeconds) / float64(stats.TotalSessions)
	}
	if totalQuestions > 0 {
		stats.Accuracy = float64(totalCorrect) / float64(totalQuestions)
	}

	for _, p := range progress {
		accuracy := 0.0
		if p.QuestionsAttempted > 0 {
			accuracy = float64(p.QuestionsCorrect) / float64(p.QuestionsAttempted)
		}

		entry, seen := stats.Subjects[p.Subject]
		if !seen {
			entry.AverageAccuracy = accuracy
		} else {
			entry.AverageAccuracy = (entry.AverageAccuracy + accuracy) / 2
		}
		entry.Sessions++
		stats.Subjects[p.Subject] = entry
	}

	return stats
}
