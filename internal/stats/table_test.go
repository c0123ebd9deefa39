package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Title", "Score", "Tier"}
	rows := [][]string{
		{"Midterm", "100", "hard"},
		{"Quiz 2", "8", "easy"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "Title    Score  Tier" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "───────  ─────  ────" {
		t.Fatalf("unexpected separator line: %q", lines[1])
	}
	if lines[2] != "Midterm    100  hard" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
	if lines[3] != "Quiz 2       8  easy" {
		t.Fatalf("unexpected row line: %q", lines[3])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "Score"}, [][]string{{"李雷", "90"}, {"Bo", "75"}}, map[int]bool{1: true})
	if lines[2] != "李雷     90" {
		t.Fatalf("unexpected wide row: %q", lines[2])
	}
	if lines[3] != "Bo       75" {
		t.Fatalf("unexpected narrow row: %q", lines[3])
	}
}
