package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/verte-zerg/tuiassess/internal/model"
)

// CreateStudent adds a student account. A taken ID returns ErrDuplicate.
func (s *Store) CreateStudent(ctx context.Context, st model.Student) error {
	if err := st.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO students (id, password_hash, full_name, grade, class, gender, age, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.PasswordHash, st.FullName, st.Grade, st.Class, st.Gender, st.Age, formatTime(st.CreatedAt),
	)
	if isConstraint(err) {
		return fmt.Errorf("student %q: %w", st.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}
	return nil
}

const studentColumns = `id, password_hash, full_name, grade, class, gender, age, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (model.Student, error) {
	var st model.Student
	var createdAt string
	if err := row.Scan(&st.ID, &st.PasswordHash, &st.FullName, &st.Grade, &st.Class, &st.Gender, &st.Age, &createdAt); err != nil {
		return model.Student{}, err
	}
	parsed, err := parseTime(createdAt)
	if err != nil {
		return model.Student{}, err
	}
	st.CreatedAt = parsed
	return st, nil
}

// GetStudent loads a student by ID.
func (s *Store) GetStudent(ctx context.Context, id string) (model.Student, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = ?`, id)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Student{}, fmt.Errorf("student %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Student{}, fmt.Errorf("failed to load student: %w", err)
	}
	return st, nil
}

// ListStudents returns every student ordered by ID.
func (s *Store) ListStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer closeRows(rows)

	var students []model.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return students, nil
}

// CreateTeacher adds a teacher account. A taken ID returns ErrDuplicate.
func (s *Store) CreateTeacher(ctx context.Context, t model.Teacher) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teachers (id, password_hash, full_name, subject, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.PasswordHash, t.FullName, t.Subject, formatTime(t.CreatedAt),
	)
	if isConstraint(err) {
		return fmt.Errorf("teacher %q: %w", t.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert teacher: %w", err)
	}
	return nil
}

// GetTeacher loads a teacher by ID.
func (s *Store) GetTeacher(ctx context.Context, id string) (model.Teacher, error) {
	var t model.Teacher
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash, full_name, subject, created_at FROM teachers WHERE id = ?`, id,
	).Scan(&t.ID, &t.PasswordHash, &t.FullName, &t.Subject, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Teacher{}, fmt.Errorf("teacher %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Teacher{}, fmt.Errorf("failed to load teacher: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Teacher{}, err
	}
	return t, nil
}
