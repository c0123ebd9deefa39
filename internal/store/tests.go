package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/verte-zerg/tuiassess/internal/model"
)

// TestSummary is a catalog entry with its attempt count.
type TestSummary struct {
	model.Test
	Attempts int
}

// CreateTest adds a test to the catalog. A taken code returns ErrDuplicate.
func (s *Store) CreateTest(ctx context.Context, t model.Test) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tests (code, subject, title, duration_minutes, teacher_id, teacher_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Code, string(t.Subject), t.Title, t.DurationMinutes, t.TeacherID, t.TeacherName, formatTime(t.CreatedAt),
	)
	if isConstraint(err) {
		return fmt.Errorf("test %q: %w", t.Code, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert test: %w", err)
	}
	return nil
}

func scanTest(row scanner, extra ...any) (model.Test, error) {
	var t model.Test
	var subject, createdAt string
	dest := append([]any{&t.Code, &subject, &t.Title, &t.DurationMinutes, &t.TeacherID, &t.TeacherName, &createdAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Test{}, err
	}
	t.Subject = model.Subject(subject)
	parsed, err := parseTime(createdAt)
	if err != nil {
		return model.Test{}, err
	}
	t.CreatedAt = parsed
	return t, nil
}

// GetTest looks a test up by its join code.
func (s *Store) GetTest(ctx context.Context, code string) (model.Test, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT code, subject, title, duration_minutes, teacher_id, teacher_name, created_at
		 FROM tests WHERE code = ?`, code)
	t, err := scanTest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Test{}, fmt.Errorf("test %q: %w", code, ErrNotFound)
	}
	if err != nil {
		return model.Test{}, fmt.Errorf("failed to load test: %w", err)
	}
	return t, nil
}

// TestCodeExists reports whether code is already in the catalog.
func (s *Store) TestCodeExists(ctx context.Context, code string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tests WHERE code = ?`, code).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check test code: %w", err)
	}
	return n > 0, nil
}

// ListTestsByTeacher returns a teacher's tests, newest first, with attempt counts.
func (s *Store) ListTestsByTeacher(ctx context.Context, teacherID string) ([]TestSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.code, t.subject, t.title, t.duration_minutes, t.teacher_id, t.teacher_name, t.created_at,
			(SELECT COUNT(*) FROM results r WHERE r.test_code = t.code) AS attempts
		 FROM tests t
		 WHERE t.teacher_id = ?
		 ORDER BY t.created_at DESC, t.code`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	defer closeRows(rows)

	var tests []TestSummary
	for rows.Next() {
		var sum TestSummary
		t, err := scanTest(rows, &sum.Attempts)
		if err != nil {
			return nil, err
		}
		sum.Test = t
		tests = append(tests, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tests, nil
}
