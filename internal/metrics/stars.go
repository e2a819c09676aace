package metrics

import (
	"math"

	"github.com/lumilearn/lumilearn-api/internal/domain"
)

// Star-progress component targets
const (
	starStudyTargetMinutes = 120
	starQuestionTarget     = 20
	starStudyWeight        = 0.4
	starQuestionWeight     = 0.3
	starConsistencyWeight  = 0.3
)

// ComputeStarProgress blends study time, question volume and streak
// maintenance into a 0..100 daily score:
// 40% x min(studyMinutes/120, 1) + 30% x min(questions/20, 1) +
// 30% x (1 if any study happened today else 0), rounded and clamped.
func ComputeStarProgress(today *domain.UserActivity) int {
	if today == nil {
		return 0
	}

	study := math.Min(float64(today.StudyMinutes)/starStudyTargetMinutes, 1)
	questions := math.Min(float64(today.QuestionsAnswered)/starQuestionTarget, 1)
	consistency := 0.0
	if today.StudyMinutes > 0 {
		consistency = 1.0
	}

	score := starStudyWeight*study + starQuestionWeight*questions + starConsistencyWeight*consistency
	progress := int(math.Round(score * 100))

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return progress
}
