// Package engine runs one adaptive assessment attempt: a practice phase that
// picks a difficulty tier, then a scored main phase under a countdown.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiassess/internal/bank"
	"github.com/verte-zerg/tuiassess/internal/model"
)

// Phase is the state of a session.
type Phase int

// Session phases.
const (
	PhasePractice Phase = iota
	PhaseMain
	PhaseSubmitted
	PhaseAbandoned
)

func (p Phase) String() string {
	switch p {
	case PhasePractice:
		return "practice"
	case PhaseMain:
		return "main"
	case PhaseSubmitted:
		return "submitted"
	case PhaseAbandoned:
		return "abandoned"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

var (
	// ErrClosed is returned for mutations after submission or abandonment.
	ErrClosed = errors.New("assessment session is closed")
	// ErrUnknownOption is returned when a multiple-choice answer is not an option.
	ErrUnknownOption = errors.New("answer is not one of the options")
	// ErrEmptyAnswer is returned when an empty answer is selected.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrNoSuchQuestion is returned by GoTo for a position outside the
	// current sequence.
	ErrNoSuchQuestion = errors.New("no such question")
	// ErrAlreadyRecorded is wrapped by a Recorder when the student already
	// has a result for the test. The session closes without a result.
	ErrAlreadyRecorded = errors.New("a result for this test is already recorded")
)

// Recorder persists the single result of a session.
type Recorder interface {
	InsertResult(ctx context.Context, r model.Result) error
}

// Options configures a new session.
type Options struct {
	Test      model.Test
	StudentID string
	Bank      bank.Bank
	Recorder  Recorder
	Logger    *zap.Logger
	Now       func() time.Time
	NewID     func() string
}

// Session is one in-memory assessment attempt. All methods are safe for
// concurrent use; mutations are serialized by an internal mutex.
type Session struct {
	mu sync.Mutex

	test      model.Test
	studentID string
	bank      bank.Bank
	recorder  Recorder
	log       *zap.Logger
	now       func() time.Time
	newID     func() string
	attemptID string

	phase           Phase
	index           int
	tier            model.Tier
	practiceScore   float64
	practiceAnswers model.AnswerSet
	mainAnswers     model.AnswerSet
	practiceReview  map[int]struct{}
	mainReview      map[int]struct{}
	totalSeconds    int
	remaining       int
	startedAt       time.Time
	result          *model.Result
}

// New starts a session in the practice phase.
func New(opts Options) (*Session, error) {
	if opts.Recorder == nil {
		return nil, fmt.Errorf("recorder is required")
	}
	if opts.StudentID == "" {
		return nil, fmt.Errorf("student id is required")
	}
	if err := opts.Bank.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}
	if opts.Test.DurationMinutes <= 0 {
		return nil, fmt.Errorf("test duration must be > 0")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	total := int(opts.Test.Duration() / time.Second)
	s := &Session{
		test:            opts.Test,
		studentID:       opts.StudentID,
		bank:            opts.Bank,
		recorder:        opts.Recorder,
		now:             opts.Now,
		newID:           opts.NewID,
		attemptID:       opts.NewID(),
		phase:           PhasePractice,
		practiceAnswers: model.AnswerSet{},
		mainAnswers:     model.AnswerSet{},
		practiceReview:  map[int]struct{}{},
		mainReview:      map[int]struct{}{},
		totalSeconds:    total,
		remaining:       total,
	}
	s.startedAt = s.now()
	s.log = opts.Logger.With(
		zap.String("attempt", s.attemptID),
		zap.String("student", opts.StudentID),
		zap.String("test", opts.Test.Code),
	)
	s.log.Info("assessment started", zap.Int("seconds", total))
	return s, nil
}

// AttemptID identifies this attempt in logs.
func (s *Session) AttemptID() string {
	return s.attemptID
}

func (s *Session) sequence() []model.Question {
	if s.phase == PhasePractice {
		return s.bank.Practice
	}
	return s.bank.MainFor(s.tier)
}

func (s *Session) answers() model.AnswerSet {
	if s.phase == PhasePractice {
		return s.practiceAnswers
	}
	return s.mainAnswers
}

func (s *Session) review() map[int]struct{} {
	if s.phase == PhasePractice {
		return s.practiceReview
	}
	return s.mainReview
}

func (s *Session) open() bool {
	return s.phase == PhasePractice || s.phase == PhaseMain
}

// SelectAnswer records answer for the current question, overwriting any
// earlier choice. Answering the final practice question assigns the tier and
// moves to the first main question; the returned tier is non-empty only then.
func (s *Session) SelectAnswer(answer string) (model.Tier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(answer)
}

// SelectOption selects the option at position i of the current question.
func (s *Session) SelectOption(i int) (model.Tier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open() {
		return "", ErrClosed
	}
	q := s.sequence()[s.index]
	if i < 0 || i >= len(q.Options) {
		return "", ErrUnknownOption
	}
	return s.selectLocked(q.Options[i])
}

func (s *Session) selectLocked(answer string) (model.Tier, error) {
	if !s.open() {
		return "", ErrClosed
	}
	seq := s.sequence()
	q := seq[s.index]
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	if q.Kind == model.KindMultipleChoice && !containsOption(q.Options, answer) {
		return "", ErrUnknownOption
	}
	s.answers()[s.index] = answer
	if s.phase == PhasePractice && s.index == len(seq)-1 {
		s.assignTier()
		return s.tier, nil
	}
	return "", nil
}

func (s *Session) assignTier() {
	s.practiceScore = PracticeScore(s.bank.Practice, s.practiceAnswers)
	s.tier = AssignTier(s.practiceScore)
	s.phase = PhaseMain
	s.index = 0
	s.log.Info("tier assigned",
		zap.Float64("practice_score", s.practiceScore),
		zap.String("tier", string(s.tier)),
		zap.Int("main_questions", len(s.bank.MainFor(s.tier))),
	)
}

// Advance moves to the next question. Moving past the last main question
// submits; the returned bool reports whether that happened. On the last
// practice question nothing moves until it is answered.
func (s *Session) Advance(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open() {
		return false, ErrClosed
	}
	if s.index < len(s.sequence())-1 {
		s.index++
		return false, nil
	}
	if s.phase == PhasePractice {
		return false, nil
	}
	if err := s.submitLocked(ctx, "advance"); err != nil {
		return false, err
	}
	return true, nil
}

// Retreat moves to the previous question. At index 0 it does nothing and it
// never returns to the practice phase.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open() {
		return ErrClosed
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

// GoTo jumps to question i of the current sequence.
func (s *Session) GoTo(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open() {
		return ErrClosed
	}
	if i < 0 || i >= len(s.sequence()) {
		return ErrNoSuchQuestion
	}
	s.index = i
	return nil
}

// ToggleReview flips the review mark of the current question.
func (s *Session) ToggleReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open() {
		return ErrClosed
	}
	marks := s.review()
	if _, ok := marks[s.index]; ok {
		delete(marks, s.index)
	} else {
		marks[s.index] = struct{}{}
	}
	return nil
}

// Tick consumes one second. When the countdown reaches zero the session is
// submitted; the returned bool reports a submission caused by this call.
func (s *Session) Tick(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open() {
		return false, nil
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return false, nil
	}
	if err := s.submitLocked(ctx, "timer"); err != nil {
		return false, err
	}
	return true, nil
}

// Submit finalizes the session and records its result. Calling it again
// returns the recorded result without writing a second one.
func (s *Session) Submit(ctx context.Context) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseSubmitted {
		return *s.result, nil
	}
	if s.phase == PhaseAbandoned {
		return model.Result{}, ErrClosed
	}
	if err := s.submitLocked(ctx, "submit"); err != nil {
		return model.Result{}, err
	}
	return *s.result, nil
}

// submitLocked builds and records the result. The session stays open if
// recording fails so the caller can retry, unless the recorder reports
// ErrAlreadyRecorded, which abandons it.
func (s *Session) submitLocked(ctx context.Context, reason string) error {
	if s.phase == PhaseSubmitted {
		return nil
	}
	tier := s.tier
	mainQuestions := s.bank.MainFor(tier)
	if s.phase == PhasePractice {
		// Submitted before the tier was assigned: grade the practice answers
		// so far and score the assigned tier's main set with no answers.
		s.practiceScore = PracticeScore(s.bank.Practice, s.practiceAnswers)
		tier = AssignTier(s.practiceScore)
		mainQuestions = s.bank.MainFor(tier)
	}
	mainAnswers := model.AnswerSet{}
	var review []int
	if s.phase == PhaseMain {
		mainAnswers = s.mainAnswers.Clone()
		review = sortedKeys(s.mainReview)
	}
	result := model.Result{
		ID:              s.newID(),
		StudentID:       s.studentID,
		TestCode:        s.test.Code,
		TestTitle:       s.test.Title,
		Subject:         s.test.Subject,
		Score:           FinalScore(mainQuestions, mainAnswers),
		Tier:            tier,
		PracticeScore:   s.practiceScore,
		ElapsedSeconds:  s.totalSeconds - s.remaining,
		CompletedAt:     s.now(),
		Answers:         mainAnswers,
		PracticeAnswers: s.practiceAnswers.Clone(),
		Review:          review,
	}
	if err := s.recorder.InsertResult(ctx, result); err != nil {
		if errors.Is(err, ErrAlreadyRecorded) {
			s.phase = PhaseAbandoned
			s.log.Warn("result already recorded elsewhere", zap.String("reason", reason))
			return err
		}
		s.log.Error("failed to record result", zap.Error(err), zap.String("reason", reason))
		return fmt.Errorf("failed to record result: %w", err)
	}
	s.tier = tier
	s.phase = PhaseSubmitted
	s.result = &result
	s.log.Info("assessment submitted",
		zap.String("reason", reason),
		zap.Int("score", result.Score),
		zap.String("tier", string(result.Tier)),
		zap.Int("elapsed_seconds", result.ElapsedSeconds),
	)
	return nil
}

// Abandon discards the session without recording anything.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open() {
		return
	}
	s.phase = PhaseAbandoned
	s.log.Info("assessment abandoned", zap.Int("remaining_seconds", s.remaining))
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	Phase            Phase
	Index            int
	Total            int
	Question         model.Question
	Answer           string
	Answers          model.AnswerSet
	Answered         int
	Marked           bool
	Review           []int
	Tier             model.Tier
	PracticeScore    float64
	RemainingSeconds int
	TotalSeconds     int
	Result           *model.Result
	Test             model.Test
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Phase:            s.phase,
		Tier:             s.tier,
		PracticeScore:    s.practiceScore,
		RemainingSeconds: s.remaining,
		TotalSeconds:     s.totalSeconds,
		Test:             s.test,
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	if !s.open() {
		return snap
	}
	seq := s.sequence()
	answers := s.answers()
	marks := s.review()
	snap.Index = s.index
	snap.Total = len(seq)
	snap.Question = seq[s.index]
	snap.Answer = answers[s.index]
	snap.Answers = answers.Clone()
	snap.Answered = len(answers)
	_, snap.Marked = marks[s.index]
	snap.Review = sortedKeys(marks)
	return snap
}

func containsOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
