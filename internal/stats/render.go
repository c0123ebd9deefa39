package stats

import (
	"fmt"
	"io"
	"strconv"
)

const (
	dateLayout      = "2006-01-02 15:04"
	trendAvgWindow  = 3
	trendPlotHeight = 8
)

// RenderStudentOverview prints the student's cards, score trend and
// distributions.
func RenderStudentOverview(w io.Writer, r StudentReport, width int, useColor bool) error {
	s := r.Summary
	if s.Taken == 0 {
		_, err := fmt.Fprintln(w, "No tests taken yet. Enter a test code to start.")
		return err
	}
	lines := formatTable(
		[]string{"Tests Taken", "Average Score", "Best Score", "Recent"},
		[][]string{{
			strconv.Itoa(s.Taken),
			fmt.Sprintf("%.1f%%", s.Average),
			fmt.Sprintf("%d%%", s.Best),
			Sparkline(s.Trend),
		}},
		map[int]bool{0: true, 1: true, 2: true},
	)
	if err := writeLines(w, lines); err != nil {
		return err
	}
	if err := renderTrend(w, "Score Trend (last 10)", s.Trend, width, useColor); err != nil {
		return err
	}
	if err := RenderBars(w, "Tests by Subject", CountBars(s.BySubject), 0, width); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return RenderBars(w, "Difficulty Levels", CountBars(s.ByTier), 0, width)
}

// RenderStudentHistory prints every completed test, newest first.
func RenderStudentHistory(w io.Writer, r StudentReport) error {
	history := r.Summary.History
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "No tests taken yet.")
		return err
	}
	rows := make([][]string, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		res := history[i]
		rows = append(rows, []string{
			res.TestTitle,
			res.TestCode,
			res.Subject.Label(),
			res.CompletedAt.Local().Format(dateLayout),
			string(res.Tier),
			fmt.Sprintf("%d%%", res.Score),
			formatMinutes(res.ElapsedSeconds),
		})
	}
	return writeLines(w, formatTable(
		[]string{"Title", "Code", "Subject", "Completed", "Level", "Score", "Time"},
		rows,
		map[int]bool{5: true, 6: true},
	))
}

// RenderStudentProfile prints the account details.
func RenderStudentProfile(w io.Writer, r StudentReport) error {
	st := r.Student
	rows := [][]string{
		{"Student ID", st.ID},
		{"Full Name", st.FullName},
		{"Grade", st.Grade},
		{"Class", st.Class},
		{"Gender", st.Gender},
		{"Age", strconv.Itoa(st.Age)},
	}
	return writeLines(w, formatTable(nil, rows, nil))
}

// RenderTeacherAnalytics prints the teacher's cards and charts.
func RenderTeacherAnalytics(w io.Writer, r TeacherReport, width int, useColor bool) error {
	s := r.Summary
	lines := formatTable(
		[]string{"Tests Created", "Students", "Tests Taken", "Average Score"},
		[][]string{{
			strconv.Itoa(s.TestsCreated),
			strconv.Itoa(s.Students),
			strconv.Itoa(s.Taken),
			fmt.Sprintf("%.1f%%", s.Average),
		}},
		map[int]bool{0: true, 1: true, 2: true, 3: true},
	)
	if err := writeLines(w, lines); err != nil {
		return err
	}
	if s.Taken == 0 {
		_, err := fmt.Fprintln(w, "No test data yet.")
		return err
	}
	sections := []struct {
		title string
		bars  []Bar
		scale float64
	}{
		{"Performance by Gender", AverageBars(s.ByGender), ScoreRange.Max},
		{"Performance by Class", AverageBars(s.ByClass), ScoreRange.Max},
		{"Difficulty Distribution", CountBars(s.ByTier), 0},
		{"Score Distribution", CountBars(s.ScoreBuckets), 0},
		{"Top Students", AverageBars(r.Top), ScoreRange.Max},
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	for _, sec := range sections {
		if err := RenderBars(w, sec.title, sec.bars, sec.scale, width); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	if err := renderTrend(w, "Performance Trend (last 10)", s.Trend, width, useColor); err != nil {
		return err
	}
	return renderHardest(w, r.Hardest)
}

func renderHardest(w io.Writer, hardest []QuestionStat) error {
	if len(hardest) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(hardest))
	for _, q := range hardest {
		rows = append(rows, []string{
			q.ID,
			string(q.Tier),
			fmt.Sprintf("%.0f%%", q.Accuracy()*100),
			strconv.Itoa(q.Attempts),
			truncate(q.Prompt, 48),
		})
	}
	if _, err := fmt.Fprintln(w, "Hardest Questions"); err != nil {
		return err
	}
	return writeLines(w, formatTable(
		[]string{"ID", "Level", "Correct", "Attempts", "Prompt"},
		rows,
		map[int]bool{2: true, 3: true},
	))
}

// RenderTests prints the teacher's tests with their join codes.
func RenderTests(w io.Writer, r TeacherReport) error {
	if len(r.Tests) == 0 {
		_, err := fmt.Fprintln(w, "No tests created yet.")
		return err
	}
	rows := make([][]string, 0, len(r.Tests))
	for _, t := range r.Tests {
		rows = append(rows, []string{
			t.Code,
			t.Title,
			t.Subject.Label(),
			fmt.Sprintf("%d min", t.DurationMinutes),
			strconv.Itoa(t.Attempts),
			t.CreatedAt.Local().Format(dateLayout),
		})
	}
	return writeLines(w, formatTable(
		[]string{"Code", "Title", "Subject", "Duration", "Attempts", "Created"},
		rows,
		map[int]bool{3: true, 4: true},
	))
}

// RenderTeacherStudents prints individual results, newest first.
func RenderTeacherStudents(w io.Writer, r TeacherReport) error {
	results := r.Summary.Results
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No student results yet.")
		return err
	}
	rows := make([][]string, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		res := results[i]
		name := res.Student.FullName
		if name == "" {
			name = "Unknown Student"
		}
		rows = append(rows, []string{
			name,
			res.StudentID,
			classLabel(res.Student),
			res.TestTitle,
			fmt.Sprintf("%d%%", res.Score),
			string(res.Tier),
			res.CompletedAt.Local().Format(dateLayout),
		})
	}
	return writeLines(w, formatTable(
		[]string{"Student", "ID", "Class", "Test", "Score", "Level", "Completed"},
		rows,
		map[int]bool{4: true},
	))
}

func renderTrend(w io.Writer, title string, trend []float64, width int, useColor bool) error {
	if len(trend) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return PlotSeriesWithColor(w, title, []Series{
		{Name: "Score", Values: trend},
		{Name: "Rolling avg", Values: MovingAverage(trend, trendAvgWindow)},
	}, ScoreRange, PlotWidthFor(width, ScoreRange), trendPlotHeight, useColor)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatMinutes(seconds int) string {
	return fmt.Sprintf("%dm %02ds", seconds/60, seconds%60)
}

func truncate(s string, width int) string {
	if displayWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && displayWidth(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
