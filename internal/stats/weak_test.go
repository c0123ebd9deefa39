package stats

import (
	"testing"

	"github.com/verte-zerg/tuiassess/internal/bank"
	"github.com/verte-zerg/tuiassess/internal/model"
)

func TestHardestQuestions(t *testing.T) {
	b := bank.Default()
	easy := b.MainFor(model.TierEasy)
	hard := b.MainFor(model.TierHard)
	results := []model.Result{
		{Tier: model.TierEasy, Answers: model.AnswerSet{0: easy[0].CorrectAnswer}},
		{Tier: model.TierEasy, Answers: model.AnswerSet{0: easy[0].CorrectAnswer, 1: easy[1].CorrectAnswer}},
		{Tier: model.TierHard, Answers: model.AnswerSet{}},
	}
	got := HardestQuestions(results, b, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
	if got[0].ID != hard[0].ID || got[0].Attempts != 1 || got[0].Correct != 0 {
		t.Fatalf("expected unanswered hard question first, got %+v", got[0])
	}
	if got[1].ID != easy[1].ID || got[1].Accuracy() != 0.5 {
		t.Fatalf("expected half-correct easy question second, got %+v", got[1])
	}
}
