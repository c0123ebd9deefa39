// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies the kind of account behind a session.
type Role string

// Roles.
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ParseRole converts user input into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleTeacher:
		return RoleTeacher, nil
	}
	return "", fmt.Errorf("unknown role %q (use student or teacher)", s)
}

// Tier is the difficulty level served in the main phase.
type Tier string

// Tiers, in increasing difficulty.
const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tiers lists every tier from easiest to hardest.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierEasy, TierMedium, TierHard:
		return true
	}
	return false
}

// Subject is the area a test belongs to.
type Subject string

// Subjects offered when creating a test.
const (
	SubjectEnglish     Subject = "english"
	SubjectScience     Subject = "science"
	SubjectMathematics Subject = "mathematics"
)

// Subjects lists the selectable subjects.
var Subjects = []Subject{SubjectEnglish, SubjectScience, SubjectMathematics}

// ParseSubject converts user input into a Subject.
func ParseSubject(s string) (Subject, error) {
	switch Subject(strings.ToLower(strings.TrimSpace(s))) {
	case SubjectEnglish:
		return SubjectEnglish, nil
	case SubjectScience:
		return SubjectScience, nil
	case SubjectMathematics:
		return SubjectMathematics, nil
	}
	return "", fmt.Errorf("unknown subject %q (use english, science or mathematics)", s)
}

// Known reports whether s is one of Subjects.
func (s Subject) Known() bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the display name of the subject.
func (s Subject) Label() string {
	switch s {
	case SubjectEnglish:
		return "English"
	case SubjectScience:
		return "Science"
	case SubjectMathematics:
		return "Mathematics"
	}
	return string(s)
}

// QuestionKind distinguishes how a question is answered.
type QuestionKind string

// Question kinds.
const (
	KindMultipleChoice QuestionKind = "multiple-choice"
	KindShortAnswer    QuestionKind = "short-answer"
)

// Question is one immutable bank item.
type Question struct {
	ID            string       `yaml:"id"`
	Kind          QuestionKind `yaml:"kind"`
	Practice      bool         `yaml:"practice"`
	Tier          Tier         `yaml:"tier"`
	Title         string       `yaml:"title"`
	Passage       string       `yaml:"passage"`
	Prompt        string       `yaml:"prompt"`
	Options       []string     `yaml:"options,omitempty"`
	CorrectAnswer string       `yaml:"correct_answer,omitempty"`
}

// Student is a learner account.
type Student struct {
	ID           string
	PasswordHash string
	FullName     string
	Grade        string
	Class        string
	Gender       string
	Age          int
	CreatedAt    time.Time
}

// ClassLabel groups students by grade and class, e.g. "10-B".
func (s Student) ClassLabel() string {
	return s.Grade + "-" + s.Class
}

// Teacher is a test author account.
type Teacher struct {
	ID           string
	PasswordHash string
	FullName     string
	Subject      string
	CreatedAt    time.Time
}

// Test is a teacher-created test instance identified by its join code.
type Test struct {
	Code            string
	Subject         Subject
	Title           string
	DurationMinutes int
	TeacherID       string
	TeacherName     string
	CreatedAt       time.Time
}

// Duration returns the time allowed for the test.
func (t Test) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

// AnswerSet maps a question index within a sequence to the chosen answer.
type AnswerSet map[int]string

// Clone returns an independent copy.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Result is the immutable record of one completed assessment attempt.
type Result struct {
	ID              string
	StudentID       string
	TestCode        string
	TestTitle       string
	Subject         Subject
	Score           int
	Tier            Tier
	PracticeScore   float64
	ElapsedSeconds  int
	CompletedAt     time.Time
	Answers         AnswerSet
	PracticeAnswers AnswerSet
	Review          []int
}

// TeacherResult is a result joined with the student who produced it.
type TeacherResult struct {
	Result
	Student Student
}
