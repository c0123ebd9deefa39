package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingField reports a required field left empty.
var ErrMissingField = errors.New("missing required field")

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the fields every stored student must carry.
func (s Student) Validate() error {
	if err := firstErr(
		required("student id", s.ID),
		required("password", s.PasswordHash),
		required("full name", s.FullName),
		required("grade", s.Grade),
		required("class", s.Class),
		required("gender", s.Gender),
	); err != nil {
		return err
	}
	if s.Age <= 0 {
		return fmt.Errorf("%w: age", ErrMissingField)
	}
	return nil
}

// Validate checks the fields every stored teacher must carry.
func (t Teacher) Validate() error {
	return firstErr(
		required("teacher id", t.ID),
		required("password", t.PasswordHash),
		required("full name", t.FullName),
		required("subject", t.Subject),
	)
}

// Validate checks a test before it enters the catalog.
func (t Test) Validate() error {
	if err := firstErr(
		required("test code", t.Code),
		required("subject", string(t.Subject)),
		required("title", t.Title),
		required("teacher id", t.TeacherID),
	); err != nil {
		return err
	}
	if !t.Subject.Known() {
		return fmt.Errorf("unknown subject %q", t.Subject)
	}
	if t.DurationMinutes <= 0 {
		return fmt.Errorf("duration must be > 0 minutes")
	}
	return nil
}

// Validate checks a result before it is appended to the result store.
func (r Result) Validate() error {
	if err := firstErr(
		required("result id", r.ID),
		required("student id", r.StudentID),
		required("test code", r.TestCode),
	); err != nil {
		return err
	}
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("score %d out of range 0-100", r.Score)
	}
	if !r.Tier.Valid() {
		return fmt.Errorf("invalid tier %q", r.Tier)
	}
	if r.CompletedAt.IsZero() {
		return fmt.Errorf("%w: completion time", ErrMissingField)
	}
	return nil
}

// Validate checks a bank question for internal consistency.
func (q Question) Validate() error {
	if err := firstErr(
		required("question id", q.ID),
		required("prompt", q.Prompt),
	); err != nil {
		return err
	}
	if !q.Tier.Valid() {
		return fmt.Errorf("question %s: invalid tier %q", q.ID, q.Tier)
	}
	switch q.Kind {
	case KindMultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("question %s: multiple-choice needs at least 2 options", q.ID)
		}
		if q.CorrectAnswer != "" && !containsString(q.Options, q.CorrectAnswer) {
			return fmt.Errorf("question %s: correct answer is not one of the options", q.ID)
		}
	case KindShortAnswer:
	default:
		return fmt.Errorf("question %s: unknown kind %q", q.ID, q.Kind)
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
