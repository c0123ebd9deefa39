// Package app wires accounts, the test catalog, assessment sessions and
// reports on top of the store.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/tuiassess/internal/bank"
	"github.com/verte-zerg/tuiassess/internal/codegen"
	"github.com/verte-zerg/tuiassess/internal/engine"
	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/stats"
	"github.com/verte-zerg/tuiassess/internal/store"
)

// maxCodeAttempts bounds retries when a generated join code collides.
const maxCodeAttempts = 10

var (
	// ErrUnknownTestCode is returned when no test has the given join code.
	ErrUnknownTestCode = errors.New("invalid test code")
	// ErrTestAlreadyTaken is returned when the student already has a result.
	ErrTestAlreadyTaken = errors.New("you have already taken this test")
	// ErrCodeSpaceExhausted is returned when no free join code was found.
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique test code")
)

// Options configures a Service.
type Options struct {
	Bank   bank.Bank
	Codes  *codegen.Generator
	Logger *zap.Logger
	Now    func() time.Time
	// NewID overrides result ids in tests.
	NewID func() string
}

// Service implements the catalog and assessment operations.
type Service struct {
	store *store.Store
	bank  bank.Bank
	codes *codegen.Generator
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// New builds a Service on st.
func New(st *store.Store, opts Options) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if err := opts.Bank.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}
	if opts.Codes == nil {
		opts.Codes = codegen.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store: st,
		bank:  opts.Bank,
		codes: opts.Codes,
		log:   opts.Logger,
		now:   opts.Now,
		newID: opts.NewID,
	}, nil
}

// Bank returns the question bank sessions are served from.
func (s *Service) Bank() bank.Bank {
	return s.bank
}

// CreateTest registers a new test owned by teacher under a fresh join code.
func (s *Service) CreateTest(ctx context.Context, teacher model.Teacher, title string, subject model.Subject, minutes int) (model.Test, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Test{}, fmt.Errorf("%w: title", model.ErrMissingField)
	}
	if minutes <= 0 {
		return model.Test{}, fmt.Errorf("duration must be > 0 minutes")
	}
	subject, err := model.ParseSubject(string(subject))
	if err != nil {
		return model.Test{}, err
	}
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		t := model.Test{
			Code:            s.codes.Generate(subject),
			Subject:         subject,
			Title:           title,
			DurationMinutes: minutes,
			TeacherID:       teacher.ID,
			TeacherName:     teacher.FullName,
			CreatedAt:       s.now(),
		}
		err := s.store.CreateTest(ctx, t)
		if errors.Is(err, store.ErrDuplicate) {
			s.log.Debug("test code collision", zap.String("code", t.Code))
			continue
		}
		if err != nil {
			return model.Test{}, err
		}
		s.log.Info("test created",
			zap.String("code", t.Code),
			zap.String("teacher", teacher.ID),
			zap.String("subject", string(subject)),
			zap.Int("minutes", minutes),
		)
		return t, nil
	}
	return model.Test{}, ErrCodeSpaceExhausted
}

// LookupTest resolves a join code for student, rejecting malformed and
// unknown codes and tests the student has already taken.
func (s *Service) LookupTest(ctx context.Context, student model.Student, rawCode string) (model.Test, error) {
	code := codegen.Normalize(rawCode)
	if err := codegen.Validate(code); err != nil {
		return model.Test{}, err
	}
	t, err := s.store.GetTest(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return model.Test{}, ErrUnknownTestCode
	}
	if err != nil {
		return model.Test{}, err
	}
	taken, err := s.store.HasResult(ctx, student.ID, code)
	if err != nil {
		return model.Test{}, err
	}
	if taken {
		return model.Test{}, ErrTestAlreadyTaken
	}
	return t, nil
}

// StartTest opens an assessment session for student on the test behind rawCode.
func (s *Service) StartTest(ctx context.Context, student model.Student, rawCode string) (*engine.Session, error) {
	t, err := s.LookupTest(ctx, student, rawCode)
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Options{
		Test:      t,
		StudentID: student.ID,
		Bank:      s.bank,
		Recorder:  resultRecorder{store: s.store},
		Logger:    s.log,
		Now:       s.now,
		NewID:     s.newID,
	})
}

// resultRecorder stores session results. A result the student already has
// from an overlapping attempt closes the session as already taken.
type resultRecorder struct {
	store *store.Store
}

func (r resultRecorder) InsertResult(ctx context.Context, res model.Result) error {
	err := r.store.InsertResult(ctx, res)
	if errors.Is(err, store.ErrResultExists) {
		return fmt.Errorf("%w: %w", ErrTestAlreadyTaken, engine.ErrAlreadyRecorded)
	}
	return err
}

// StudentReport builds the student dashboard data.
func (s *Service) StudentReport(ctx context.Context, student model.Student) (stats.StudentReport, error) {
	return stats.BuildStudentReport(ctx, s.store, student)
}

// TeacherReport builds the teacher dashboard data.
func (s *Service) TeacherReport(ctx context.Context, teacher model.Teacher) (stats.TeacherReport, error) {
	return stats.BuildTeacherReport(ctx, s.store, teacher, s.bank)
}
