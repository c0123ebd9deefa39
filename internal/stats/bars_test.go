package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderBarsScales(t *testing.T) {
	var buf bytes.Buffer
	err := RenderBars(&buf, "Levels", CountBars([]Count{
		{Label: "easy", Value: 4},
		{Label: "hard", Value: 2},
		{Label: "medium", Value: 0},
	}), 0, 0)
	if err != nil {
		t.Fatalf("RenderBars failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 || lines[0] != "Levels" {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	if got := strings.Count(lines[1], barFull); got != barMinWidth {
		t.Fatalf("expected the largest bar to fill %d cells, got %d", barMinWidth, got)
	}
	if got := strings.Count(lines[2], barFull); got != barMinWidth/2 {
		t.Fatalf("expected half bar, got %d", got)
	}
	if !strings.HasPrefix(lines[3], "medium │  0") {
		t.Fatalf("unexpected empty bar line %q", lines[3])
	}
}

func TestRenderBarsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderBars(&buf, "", nil, 0, 80); err != nil {
		t.Fatalf("RenderBars failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No data yet." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
