package stats

import (
	"context"

	"github.com/verte-zerg/tuiassess/internal/bank"
	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/store"
)

const (
	topStudentsLimit = 5
	hardestLimit     = 5
)

// Source is the storage a report is built from.
type Source interface {
	ListResultsByStudent(ctx context.Context, studentID string) ([]model.Result, error)
	ListResultsForTeacher(ctx context.Context, teacherID string) ([]model.TeacherResult, error)
	ListTestsByTeacher(ctx context.Context, teacherID string) ([]store.TestSummary, error)
}

// StudentReport contains precomputed data for the student dashboard.
type StudentReport struct {
	Student model.Student
	Summary StudentSummary
}

// TeacherReport contains precomputed data for the teacher dashboard.
type TeacherReport struct {
	Teacher model.Teacher
	Tests   []store.TestSummary
	Summary TeacherSummary
	Top     []Average
	Hardest []QuestionStat
}

// BuildStudentReport loads a student's results and summarizes them.
func BuildStudentReport(ctx context.Context, src Source, student model.Student) (StudentReport, error) {
	results, err := src.ListResultsByStudent(ctx, student.ID)
	if err != nil {
		return StudentReport{}, err
	}
	return StudentReport{Student: student, Summary: SummarizeStudent(results)}, nil
}

// BuildTeacherReport loads the teacher's tests and their results. Question
// difficulty is graded against b.
func BuildTeacherReport(ctx context.Context, src Source, teacher model.Teacher, b bank.Bank) (TeacherReport, error) {
	tests, err := src.ListTestsByTeacher(ctx, teacher.ID)
	if err != nil {
		return TeacherReport{}, err
	}
	results, err := src.ListResultsForTeacher(ctx, teacher.ID)
	if err != nil {
		return TeacherReport{}, err
	}
	plain := make([]model.Result, len(results))
	for i, r := range results {
		plain[i] = r.Result
	}
	return TeacherReport{
		Teacher: teacher,
		Tests:   tests,
		Summary: SummarizeTeacher(len(tests), results),
		Top:     TopStudents(results, topStudentsLimit),
		Hardest: HardestQuestions(plain, b, hardestLimit),
	}, nil
}
