package classifier

import "math"

// Attribution is one subject's proportional share of a session's counters
type Attribution struct {
	Subject            string
	Topic              *string
	QuestionsAttempted int
	QuestionsCorrect   int
	DurationSeconds    int
}

// Attribute splits a session's totals across the raw subject buckets by each
// bucket's share of the detected questions. Correct answers and duration are
// rounded per subject independently with math.Round; per-subject sums may
// therefore differ from the session totals. That is intentional, documented
// behavior kept for compatibility with historical records.
func Attribute(buckets []SubjectBucket, correctAnswers, durationSeconds int) []Attribution {
	totalQuestions := 0
	for _, b := range buckets {
		totalQuestions += b.QuestionCount
	}

	out := make([]Attribution, 0, len(buckets))
	for _, b := range buckets {
		share := 1.0
		if totalQuestions > 0 {
			share = float64(b.QuestionCount) / float64(totalQuestions)
		} else if len(buckets) > 1 {
			share = 1.0 / float64(len(buckets))
		}

		out = append(out, Attribution{
			Subject:            b.Subject,
			Topic:              b.Topic,
			QuestionsAttempted: b.QuestionCount,
			QuestionsCorrect:   int(math.Round(float64(correctAnswers) * share)),
			DurationSeconds:    int(math.Round(float64(durationSeconds) * share)),
		})
	}
	return out
}
