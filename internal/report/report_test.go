package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/stats"
)

func TestWriteStudent(t *testing.T) {
	results := []model.Result{
		{Score: 40, Tier: model.TierEasy, Subject: model.SubjectEnglish, CompletedAt: time.Unix(10, 0)},
		{Score: 90, Tier: model.TierHard, Subject: model.SubjectScience, CompletedAt: time.Unix(20, 0)},
	}
	r := stats.StudentReport{
		Student: model.Student{ID: "s1", FullName: "Ana Lima"},
		Summary: stats.SummarizeStudent(results),
	}
	var buf bytes.Buffer
	if err := WriteStudent(&buf, r); err != nil {
		t.Fatalf("WriteStudent failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<html", "Ana Lima - Results", "Score Trend", "Tests by Subject", "Difficulty Levels"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}

func TestWriteTeacher(t *testing.T) {
	results := []model.TeacherResult{
		{
			Result:  model.Result{StudentID: "s1", Score: 70, Tier: model.TierMedium, CompletedAt: time.Unix(10, 0)},
			Student: model.Student{ID: "s1", FullName: "Ana", Gender: "female", Grade: "9", Class: "A"},
		},
	}
	r := stats.TeacherReport{
		Teacher: model.Teacher{ID: "t1", FullName: "Mr Reed"},
		Summary: stats.SummarizeTeacher(1, results),
		Top:     stats.TopStudents(results, 5),
	}
	var buf bytes.Buffer
	if err := WriteTeacher(&buf, r); err != nil {
		t.Fatalf("WriteTeacher failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Mr Reed - Analytics", "Performance by Gender", "Performance by Class", "Score Distribution", "9-A"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}
