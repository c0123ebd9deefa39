package codegen

import (
	"errors"
	"testing"

	"github.com/verte-zerg/tuiassess/internal/model"
)

func TestGenerateMatchesFormat(t *testing.T) {
	g := NewSeeded(42)
	for _, subject := range model.Subjects {
		for i := 0; i < 50; i++ {
			code := g.Generate(subject)
			if err := Validate(code); err != nil {
				t.Fatalf("generated invalid code %q: %v", code, err)
			}
			got, ok := SubjectOf(code)
			if !ok || got != subject {
				t.Fatalf("expected subject %s from %q, got %s", subject, code, got)
			}
		}
	}
}

func TestValidateRejects(t *testing.T) {
	for _, code := range []string{"", "E1234", "E123456", "X12345", "e12345", "E12-45"} {
		if err := Validate(code); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("expected %q to be rejected", code)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  s1a2b3 "); got != "S1A2B3" {
		t.Fatalf("unexpected normalized code %q", got)
	}
}
