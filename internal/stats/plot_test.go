package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Score Trend", []Series{
		{Name: "Score", Values: []float64{40, 60, 80, 70, 100}},
		{Name: "Average", Values: []float64{40, 50, 60, 62.5, 70}},
	}, ScoreRange, 12, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Score Trend") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Score: last=100.0 mean=70.0 points=5") {
		t.Fatalf("expected series summary in output:\n%s", out)
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
	if !strings.HasPrefix(lines[3], "100 │ ") {
		t.Fatalf("expected top axis label, got %q", lines[3])
	}
	if !strings.HasPrefix(lines[6], "  0 │ ") {
		t.Fatalf("expected bottom axis label, got %q", lines[6])
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", []Series{{Name: "Score"}}, ScoreRange, 10, 4); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}
