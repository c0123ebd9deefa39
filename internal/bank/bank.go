// Package bank holds the question bank served by the assessment engine.
package bank

import (
	"fmt"

	"github.com/verte-zerg/tuiassess/internal/model"
)

// Bank is a practice sequence plus one main sequence per tier.
type Bank struct {
	Practice []model.Question
	Main     map[model.Tier][]model.Question
}

// MainFor returns the main sequence for a tier.
func (b Bank) MainFor(tier model.Tier) []model.Question {
	return b.Main[tier]
}

// Validate rejects banks the engine cannot run. Every tier must have at least
// one main question so a score can always be computed.
func (b Bank) Validate() error {
	if len(b.Practice) == 0 {
		return fmt.Errorf("bank has no practice questions")
	}
	seen := map[string]struct{}{}
	check := func(q model.Question, practice bool) error {
		if err := q.Validate(); err != nil {
			return err
		}
		if q.Practice != practice {
			return fmt.Errorf("question %s: practice flag does not match its section", q.ID)
		}
		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
		return nil
	}
	for _, q := range b.Practice {
		if err := check(q, true); err != nil {
			return err
		}
	}
	for _, tier := range model.Tiers {
		questions := b.Main[tier]
		if len(questions) == 0 {
			return fmt.Errorf("bank has no %s questions", tier)
		}
		for _, q := range questions {
			if err := check(q, false); err != nil {
				return err
			}
			if q.Tier != tier {
				return fmt.Errorf("question %s: tier %s listed under %s", q.ID, q.Tier, tier)
			}
		}
	}
	return nil
}

// Counts reports the sequence sizes as practice, easy, medium, hard.
func (b Bank) Counts() (practice, easy, medium, hard int) {
	return len(b.Practice), len(b.Main[model.TierEasy]), len(b.Main[model.TierMedium]), len(b.Main[model.TierHard])
}
