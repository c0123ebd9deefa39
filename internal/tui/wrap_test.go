package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

var plain = lipgloss.NewStyle()

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("the quick brown fox", plain, 10)
	if got != "the quick\nbrown fox" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextKeepsParagraphs(t *testing.T) {
	got := wrapText("one two\n\nthree", plain, 20)
	if got != "one two\n\nthree" {
		t.Fatalf("unexpected paragraphs: %q", got)
	}
}

func TestWrapStyledRunesHardBreaksLongWords(t *testing.T) {
	got := wrapStyledRunes(buildStyledRunes("abcdefgh", plain), 3)
	if got != "abc\ndef\ngh" {
		t.Fatalf("unexpected hard wrap: %q", got)
	}
}

func TestBuildStyledRunesWideRunes(t *testing.T) {
	runes := buildStyledRunes("a李", plain)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].width != 1 || runes[1].width != 2 {
		t.Fatalf("unexpected widths: %d %d", runes[0].width, runes[1].width)
	}
	if lineWidthOf(runes) != 3 {
		t.Fatalf("unexpected line width %d", lineWidthOf(runes))
	}
}

func TestWrapStyledRunesZeroWidth(t *testing.T) {
	got := wrapStyledRunes(buildStyledRunes("a b", plain), 0)
	if got != "a b" {
		t.Fatalf("expected unwrapped text, got %q", got)
	}
}
