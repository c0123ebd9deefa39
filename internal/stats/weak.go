package stats

import (
	"sort"

	"github.com/verte-zerg/tuiassess/internal/bank"
	"github.com/verte-zerg/tuiassess/internal/engine"
	"github.com/verte-zerg/tuiassess/internal/model"
)

// QuestionStat is how often one main question was answered correctly.
type QuestionStat struct {
	ID       string
	Tier     model.Tier
	Prompt   string
	Attempts int
	Correct  int
}

// Accuracy returns the share of correct attempts in [0,1].
func (q QuestionStat) Accuracy() float64 {
	if q.Attempts == 0 {
		return 1.0
	}
	return float64(q.Correct) / float64(q.Attempts)
}

// HardestQuestions grades every result against the bank and returns the top
// gradable questions with the lowest accuracy. Unanswered questions count as
// attempted and wrong.
func HardestQuestions(results []model.Result, b bank.Bank, top int) []QuestionStat {
	byID := map[string]*QuestionStat{}
	for _, r := range results {
		for i, q := range b.MainFor(r.Tier) {
			if q.Kind != model.KindMultipleChoice || q.CorrectAnswer == "" {
				continue
			}
			qs, ok := byID[q.ID]
			if !ok {
				qs = &QuestionStat{ID: q.ID, Tier: q.Tier, Prompt: q.Prompt}
				byID[q.ID] = qs
			}
			qs.Attempts++
			if engine.IsCorrect(q, r.Answers[i]) {
				qs.Correct++
			}
		}
	}
	candidates := make([]QuestionStat, 0, len(byID))
	for _, qs := range byID {
		candidates = append(candidates, *qs)
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := candidates[i].Accuracy()
		aj := candidates[j].Accuracy()
		if ai == aj {
			return candidates[i].ID < candidates[j].ID
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	return candidates[:top]
}
