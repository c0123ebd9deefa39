package engine

import (
	"math"

	"github.com/verte-zerg/tuiassess/internal/model"
)

// Tier thresholds on the practice percentage.
const (
	HardThreshold   = 75.0
	MediumThreshold = 50.0
)

// IsCorrect reports whether answer earns credit for q. Only multiple-choice
// questions with a key are auto-scored, by exact string comparison.
func IsCorrect(q model.Question, answer string) bool {
	if q.Kind != model.KindMultipleChoice || q.CorrectAnswer == "" {
		return false
	}
	return answer == q.CorrectAnswer
}

// CountCorrect counts credited answers over a sequence. Missing answers are wrong.
func CountCorrect(questions []model.Question, answers model.AnswerSet) int {
	correct := 0
	for i, q := range questions {
		answer, ok := answers[i]
		if !ok {
			continue
		}
		if IsCorrect(q, answer) {
			correct++
		}
	}
	return correct
}

// PracticeScore returns the unrounded practice percentage in [0, 100].
func PracticeScore(questions []model.Question, answers model.AnswerSet) float64 {
	if len(questions) == 0 {
		return 0
	}
	return 100 * float64(CountCorrect(questions, answers)) / float64(len(questions))
}

// AssignTier maps a practice percentage to the main-phase tier.
func AssignTier(score float64) model.Tier {
	switch {
	case score >= HardThreshold:
		return model.TierHard
	case score >= MediumThreshold:
		return model.TierMedium
	default:
		return model.TierEasy
	}
}

// FinalScore returns the rounded main-phase percentage. An empty sequence
// scores 0.
func FinalScore(questions []model.Question, answers model.AnswerSet) int {
	if len(questions) == 0 {
		return 0
	}
	pct := 100 * float64(CountCorrect(questions, answers)) / float64(len(questions))
	return int(math.Round(pct))
}
