package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/verte-zerg/tuiassess/internal/model"
)

// InsertResult appends a completed attempt. Results are never updated. A
// second result for the same student and test returns ErrResultExists.
func (s *Store) InsertResult(ctx context.Context, r model.Result) error {
	if err := r.Validate(); err != nil {
		return err
	}
	answers, err := encodeAnswers(r.Answers)
	if err != nil {
		return err
	}
	practice, err := encodeAnswers(r.PracticeAnswers)
	if err != nil {
		return err
	}
	review := r.Review
	if review == nil {
		review = []int{}
	}
	reviewJSON, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("failed to encode review marks: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id, student_id, test_code, test_title, subject, score, tier, practice_score,
			elapsed_seconds, completed_at, answers, practice_answers, review)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StudentID, r.TestCode, r.TestTitle, string(r.Subject), r.Score, string(r.Tier), r.PracticeScore,
		r.ElapsedSeconds, formatTime(r.CompletedAt), answers, practice, string(reviewJSON),
	)
	if isConstraint(err) {
		taken, herr := s.HasResult(ctx, r.StudentID, r.TestCode)
		if herr == nil && taken {
			return fmt.Errorf("student %q test %q: %w", r.StudentID, r.TestCode, ErrResultExists)
		}
		return fmt.Errorf("result %q: %w", r.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

const resultColumns = `r.id, r.student_id, r.test_code, r.test_title, r.subject, r.score, r.tier, r.practice_score,
	r.elapsed_seconds, r.completed_at, r.answers, r.practice_answers, r.review`

func scanResult(row scanner, extra ...any) (model.Result, error) {
	var r model.Result
	var subject, tier, completedAt, answers, practice, review string
	dest := append([]any{
		&r.ID, &r.StudentID, &r.TestCode, &r.TestTitle, &subject, &r.Score, &tier, &r.PracticeScore,
		&r.ElapsedSeconds, &completedAt, &answers, &practice, &review,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Result{}, err
	}
	r.Subject = model.Subject(subject)
	r.Tier = model.Tier(tier)
	var err error
	if r.CompletedAt, err = parseTime(completedAt); err != nil {
		return model.Result{}, err
	}
	if r.Answers, err = decodeAnswers(answers); err != nil {
		return model.Result{}, err
	}
	if r.PracticeAnswers, err = decodeAnswers(practice); err != nil {
		return model.Result{}, err
	}
	if err := json.Unmarshal([]byte(review), &r.Review); err != nil {
		return model.Result{}, fmt.Errorf("failed to decode review marks: %w", err)
	}
	if len(r.Review) == 0 {
		r.Review = nil
	}
	return r, nil
}

// ListResultsByStudent returns a student's results, oldest first.
func (s *Store) ListResultsByStudent(ctx context.Context, studentID string) ([]model.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM results r
		 WHERE r.student_id = ?
		 ORDER BY r.completed_at ASC, r.id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer closeRows(rows)

	var results []model.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListResultsForTeacher returns results of the teacher's tests joined with
// the students who produced them, oldest first. Results whose student row is
// gone keep a zero Student with only the ID set.
func (s *Store) ListResultsForTeacher(ctx context.Context, teacherID string) ([]model.TeacherResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+`,
			COALESCE(st.full_name, ''), COALESCE(st.grade, ''), COALESCE(st.class, ''),
			COALESCE(st.gender, ''), COALESCE(st.age, 0)
		 FROM results r
		 JOIN tests t ON t.code = r.test_code
		 LEFT JOIN students st ON st.id = r.student_id
		 WHERE t.teacher_id = ?
		 ORDER BY r.completed_at ASC, r.id`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher results: %w", err)
	}
	defer closeRows(rows)

	var results []model.TeacherResult
	for rows.Next() {
		var tr model.TeacherResult
		st := &tr.Student
		r, err := scanResult(rows, &st.FullName, &st.Grade, &st.Class, &st.Gender, &st.Age)
		if err != nil {
			return nil, err
		}
		tr.Result = r
		st.ID = r.StudentID
		results = append(results, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// HasResult reports whether the student already completed the test.
func (s *Store) HasResult(ctx context.Context, studentID, code string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM results WHERE student_id = ? AND test_code = ?`, studentID, code,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check result: %w", err)
	}
	return n > 0, nil
}

func encodeAnswers(a model.AnswerSet) (string, error) {
	if a == nil {
		a = model.AnswerSet{}
	}
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("failed to encode answers: %w", err)
	}
	return string(data), nil
}

func decodeAnswers(s string) (model.AnswerSet, error) {
	out := model.AnswerSet{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	return out, nil
}
