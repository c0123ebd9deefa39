package model

import (
	"errors"
	"testing"
	"time"
)

func TestStudentValidate(t *testing.T) {
	s := Student{ID: "s1", PasswordHash: "h", FullName: "Ana", Grade: "10", Class: "B", Gender: "female", Age: 15}
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid student, got %v", err)
	}
	s.Class = "  "
	if err := s.Validate(); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected missing field error, got %v", err)
	}
	s.Class = "B"
	s.Age = 0
	if err := s.Validate(); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected missing age error, got %v", err)
	}
}

func TestTestValidateDuration(t *testing.T) {
	tst := Test{Code: "E12345", Subject: SubjectEnglish, Title: "Midterm", TeacherID: "t1", DurationMinutes: 0}
	if err := tst.Validate(); err == nil {
		t.Fatalf("expected duration error")
	}
	tst.DurationMinutes = 45
	if err := tst.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tst.Subject = Subject("history")
	if err := tst.Validate(); err == nil {
		t.Fatalf("expected unknown subject error")
	}
}

func TestResultValidate(t *testing.T) {
	r := Result{ID: "r", StudentID: "s", TestCode: "E12345", Score: 101, Tier: TierEasy, CompletedAt: time.Now()}
	if err := r.Validate(); err == nil {
		t.Fatalf("expected score range error")
	}
	r.Score = 50
	r.Tier = "extreme"
	if err := r.Validate(); err == nil {
		t.Fatalf("expected tier error")
	}
	r.Tier = TierHard
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuestionValidate(t *testing.T) {
	q := Question{ID: "q", Kind: KindMultipleChoice, Tier: TierEasy, Prompt: "?", Options: []string{"a", "b"}, CorrectAnswer: "c"}
	if err := q.Validate(); err == nil {
		t.Fatalf("expected error for answer outside options")
	}
	q.CorrectAnswer = "b"
	if err := q.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q.Kind = "essay"
	if err := q.Validate(); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestParseSubjectAndRole(t *testing.T) {
	if s, err := ParseSubject(" Science "); err != nil || s != SubjectScience {
		t.Fatalf("unexpected subject parse: %v %v", s, err)
	}
	if _, err := ParseSubject("art"); err == nil {
		t.Fatalf("expected error for unknown subject")
	}
	if r, err := ParseRole("TEACHER"); err != nil || r != RoleTeacher {
		t.Fatalf("unexpected role parse: %v %v", r, err)
	}
}
