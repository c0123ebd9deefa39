package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuiassess/internal/bank"
	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/store"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "tuiassess.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	created := time.Unix(0, 0).UTC()
	for _, id := range []string{"t1", "t2"} {
		if err := st.CreateTeacher(ctx, model.Teacher{ID: id, PasswordHash: "h", FullName: "Teacher " + id, Subject: "English", CreatedAt: created}); err != nil {
			t.Fatalf("create teacher: %v", err)
		}
	}
	tests := []model.Test{
		{Code: "E11111", Subject: model.SubjectEnglish, Title: "Reading 1", DurationMinutes: 20, TeacherID: "t1", TeacherName: "Teacher t1", CreatedAt: created},
		{Code: "S22222", Subject: model.SubjectScience, Title: "Science 1", DurationMinutes: 30, TeacherID: "t1", TeacherName: "Teacher t1", CreatedAt: created.Add(time.Hour)},
		{Code: "M33333", Subject: model.SubjectMathematics, Title: "Other", DurationMinutes: 10, TeacherID: "t2", TeacherName: "Teacher t2", CreatedAt: created},
	}
	for _, tst := range tests {
		if err := st.CreateTest(ctx, tst); err != nil {
			t.Fatalf("create test: %v", err)
		}
	}
	if err := st.CreateStudent(ctx, model.Student{ID: "s1", PasswordHash: "h", FullName: "Ana", Grade: "10", Class: "B", Gender: "female", Age: 15, CreatedAt: created}); err != nil {
		t.Fatalf("create student: %v", err)
	}
	results := []model.Result{
		{ID: "r1", StudentID: "s1", TestCode: "E11111", TestTitle: "Reading 1", Subject: model.SubjectEnglish, Score: 50, Tier: model.TierEasy, CompletedAt: created.Add(time.Minute), Answers: model.AnswerSet{}},
		{ID: "r2", StudentID: "s1", TestCode: "S22222", TestTitle: "Science 1", Subject: model.SubjectScience, Score: 100, Tier: model.TierHard, CompletedAt: created.Add(2 * time.Minute), Answers: model.AnswerSet{}},
		{ID: "r3", StudentID: "s1", TestCode: "M33333", TestTitle: "Other", Subject: model.SubjectMathematics, Score: 0, Tier: model.TierMedium, CompletedAt: created.Add(3 * time.Minute), Answers: model.AnswerSet{}},
	}
	for _, r := range results {
		if err := st.InsertResult(ctx, r); err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}
	return st
}

func TestBuildTeacherReportScopesToOwnTests(t *testing.T) {
	st := seedStore(t)
	report, err := BuildTeacherReport(context.Background(), st, model.Teacher{ID: "t1"}, bank.Default())
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Tests) != 2 {
		t.Fatalf("expected 2 tests, got %d", len(report.Tests))
	}
	if report.Summary.Taken != 2 || report.Summary.Average != 75 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if report.Summary.Students != 1 {
		t.Fatalf("expected 1 distinct student, got %d", report.Summary.Students)
	}
	if len(report.Top) != 1 || report.Top[0].Label != "Ana" {
		t.Fatalf("unexpected top students: %+v", report.Top)
	}
	if len(report.Hardest) == 0 || report.Hardest[0].Correct != 0 {
		t.Fatalf("expected ungraded answers to rank as hardest: %+v", report.Hardest)
	}

	var buf bytes.Buffer
	if err := RenderTeacherAnalytics(&buf, report, 80, false); err != nil {
		t.Fatalf("render analytics: %v", err)
	}
	for _, want := range []string{"Performance by Gender", "Female", "10-B", "Score Distribution", "Performance Trend", "Hardest Questions"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in analytics output:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := RenderTests(&buf, report); err != nil {
		t.Fatalf("render tests: %v", err)
	}
	if !strings.Contains(buf.String(), "S22222") || strings.Contains(buf.String(), "M33333") {
		t.Fatalf("unexpected tests output:\n%s", buf.String())
	}

	buf.Reset()
	if err := RenderTeacherStudents(&buf, report); err != nil {
		t.Fatalf("render students: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 || !strings.Contains(lines[2], "Science 1") {
		t.Fatalf("expected newest result first:\n%s", buf.String())
	}
}

func TestBuildStudentReport(t *testing.T) {
	st := seedStore(t)
	student := model.Student{ID: "s1", FullName: "Ana", Grade: "10", Class: "B", Gender: "female", Age: 15}
	report, err := BuildStudentReport(context.Background(), st, student)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Summary.Taken != 3 || report.Summary.Average != 50 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}

	var buf bytes.Buffer
	if err := RenderStudentOverview(&buf, report, 80, false); err != nil {
		t.Fatalf("render overview: %v", err)
	}
	for _, want := range []string{"Tests Taken", "50.0%", "Score Trend", "Tests by Subject", "Difficulty Levels"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in overview output:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := RenderStudentHistory(&buf, report); err != nil {
		t.Fatalf("render history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 || !strings.HasPrefix(lines[2], "Other") {
		t.Fatalf("expected newest result first:\n%s", buf.String())
	}

	buf.Reset()
	if err := RenderStudentProfile(&buf, report); err != nil {
		t.Fatalf("render profile: %v", err)
	}
	if !strings.Contains(buf.String(), "Grade") || !strings.Contains(buf.String(), "15") {
		t.Fatalf("unexpected profile:\n%s", buf.String())
	}
}

func TestRenderStudentOverviewEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderStudentOverview(&buf, StudentReport{}, 80, false); err != nil {
		t.Fatalf("render overview: %v", err)
	}
	if !strings.Contains(buf.String(), "No tests taken yet") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
