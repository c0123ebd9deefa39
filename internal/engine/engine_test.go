package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuiassess/internal/bank"
	"github.com/verte-zerg/tuiassess/internal/model"
)

type memRecorder struct {
	mu      sync.Mutex
	results []model.Result
	failN   int
	taken   bool
}

func (r *memRecorder) InsertResult(_ context.Context, res model.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failN > 0 {
		r.failN--
		return errors.New("disk full")
	}
	if r.taken {
		return fmt.Errorf("student %s: %w", res.StudentID, ErrAlreadyRecorded)
	}
	r.results = append(r.results, res)
	return nil
}

func (r *memRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func newTestSession(t *testing.T, minutes int) (*Session, *memRecorder) {
	t.Helper()
	rec := &memRecorder{}
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ids := 0
	s, err := New(Options{
		Test: model.Test{
			Code:            "E1A2B3",
			Subject:         model.SubjectEnglish,
			Title:           "Midterm",
			DurationMinutes: minutes,
			TeacherID:       "t1",
		},
		StudentID: "s1",
		Bank:      bank.Default(),
		Recorder:  rec,
		Now:       func() time.Time { return clock },
		NewID: func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		},
	})
	require.NoError(t, err)
	return s, rec
}

// answerPractice answers every practice question, correct where pattern is true.
func answerPractice(t *testing.T, s *Session, pattern ...bool) model.Tier {
	t.Helper()
	practice := bank.Default().Practice
	require.Len(t, pattern, len(practice))
	var tier model.Tier
	for i, correct := range pattern {
		q := practice[i]
		answer := q.Options[0]
		if correct {
			answer = q.CorrectAnswer
		} else if answer == q.CorrectAnswer {
			answer = q.Options[1]
		}
		snap := s.Snapshot()
		require.Equal(t, i, snap.Index)
		got, err := s.SelectAnswer(answer)
		require.NoError(t, err)
		if i < len(pattern)-1 {
			require.Empty(t, got)
			_, err := s.Advance(context.Background())
			require.NoError(t, err)
		} else {
			tier = got
		}
	}
	return tier
}

func wrongOption(q model.Question) string {
	for _, o := range q.Options {
		if o != q.CorrectAnswer {
			return o
		}
	}
	return ""
}

func TestMediumTierWrongAnswerScoresZero(t *testing.T) {
	s, rec := newTestSession(t, 60)
	tier := answerPractice(t, s, true, true, false)
	require.Equal(t, model.TierMedium, tier)

	snap := s.Snapshot()
	require.Equal(t, PhaseMain, snap.Phase)
	require.Equal(t, 0, snap.Index)
	require.Equal(t, 1, snap.Total)
	require.InDelta(t, 66.67, snap.PracticeScore, 0.01)

	_, err := s.SelectAnswer(wrongOption(snap.Question))
	require.NoError(t, err)
	submitted, err := s.Advance(context.Background())
	require.NoError(t, err)
	require.True(t, submitted)

	require.Equal(t, 1, rec.count())
	res := rec.results[0]
	require.Equal(t, 0, res.Score)
	require.Equal(t, model.TierMedium, res.Tier)
	require.Equal(t, "s1", res.StudentID)
	require.Equal(t, "E1A2B3", res.TestCode)
	require.Equal(t, model.SubjectEnglish, res.Subject)
}

func TestHardTierCorrectAnswerScoresHundred(t *testing.T) {
	s, rec := newTestSession(t, 60)
	require.Equal(t, model.TierHard, answerPractice(t, s, true, true, true))

	q := s.Snapshot().Question
	require.Equal(t, "h1", q.ID)
	_, err := s.SelectAnswer(q.CorrectAnswer)
	require.NoError(t, err)
	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, 100, res.Score)
	require.Equal(t, model.TierHard, res.Tier)
	require.Equal(t, 1, rec.count())
}

func TestEasyTierPartialScore(t *testing.T) {
	s, _ := newTestSession(t, 60)
	require.Equal(t, model.TierEasy, answerPractice(t, s, true, false, false))
	q := s.Snapshot().Question
	_, err := s.SelectAnswer(q.CorrectAnswer)
	require.NoError(t, err)
	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, 50, res.Score)
}

func TestTimerExpirySubmitsOnce(t *testing.T) {
	s, rec := newTestSession(t, 1)
	answerPractice(t, s, false, false, false)

	ctx := context.Background()
	fired := 0
	for i := 0; i < 75; i++ {
		submitted, err := s.Tick(ctx)
		require.NoError(t, err)
		if submitted {
			fired++
		}
	}
	require.Equal(t, 1, fired)
	require.Equal(t, 1, rec.count())

	res, err := s.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, res.Score)
	require.Equal(t, 60, res.ElapsedSeconds)
	require.Equal(t, 1, rec.count())

	snap := s.Snapshot()
	require.Equal(t, PhaseSubmitted, snap.Phase)
	require.Equal(t, 0, snap.RemainingSeconds)
	_, err = s.SelectAnswer("anything")
	require.ErrorIs(t, err, ErrClosed)
}

func TestTimerExpiryDuringPractice(t *testing.T) {
	s, rec := newTestSession(t, 1)
	_, err := s.SelectAnswer(bank.Default().Practice[0].CorrectAnswer)
	require.NoError(t, err)
	for i := 0; i < 60; i++ {
		_, err := s.Tick(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, 1, rec.count())
	res := rec.results[0]
	require.Equal(t, model.TierEasy, res.Tier)
	require.Equal(t, 0, res.Score)
	require.Empty(t, res.Answers)
	require.Len(t, res.PracticeAnswers, 1)
}

func TestSubmitIsIdempotent(t *testing.T) {
	s, rec := newTestSession(t, 60)
	answerPractice(t, s, true, true, true)
	ctx := context.Background()
	first, err := s.Submit(ctx)
	require.NoError(t, err)
	second, err := s.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	submitted, err := s.Advance(ctx)
	require.ErrorIs(t, err, ErrClosed)
	require.False(t, submitted)
	require.Equal(t, 1, rec.count())
}

func TestConcurrentTickAndSubmitRecordOnce(t *testing.T) {
	s, rec := newTestSession(t, 1)
	answerPractice(t, s, true, false, true)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _ = s.Tick(ctx)
			}
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Submit(ctx)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, rec.count())
}

func TestNavigationKeepsAnswers(t *testing.T) {
	s, _ := newTestSession(t, 60)
	practice := bank.Default().Practice
	ctx := context.Background()

	_, err := s.Advance(ctx)
	require.NoError(t, err)
	_, err = s.SelectAnswer(practice[1].CorrectAnswer)
	require.NoError(t, err)
	require.NoError(t, s.Retreat())
	require.Equal(t, 0, s.Snapshot().Index)
	_, err = s.Advance(ctx)
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Equal(t, 1, snap.Index)
	require.Equal(t, practice[1].CorrectAnswer, snap.Answer)

	require.NoError(t, s.Retreat())
	require.NoError(t, s.Retreat())
	require.Equal(t, 0, s.Snapshot().Index)
}

func TestAdvanceOnUnansweredLastPracticeIsNoop(t *testing.T) {
	s, _ := newTestSession(t, 60)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		submitted, err := s.Advance(ctx)
		require.NoError(t, err)
		require.False(t, submitted)
	}
	snap := s.Snapshot()
	require.Equal(t, PhasePractice, snap.Phase)
	require.Equal(t, 2, snap.Index)
}

func TestRetreatNeverReturnsToPractice(t *testing.T) {
	s, _ := newTestSession(t, 60)
	answerPractice(t, s, true, true, false)
	require.NoError(t, s.Retreat())
	snap := s.Snapshot()
	require.Equal(t, PhaseMain, snap.Phase)
	require.Equal(t, 0, snap.Index)
}

func TestPracticeAnswersNeverCountTowardScore(t *testing.T) {
	s, _ := newTestSession(t, 60)
	answerPractice(t, s, true, true, true)

	snap := s.Snapshot()
	require.Empty(t, snap.Answer, "main index 0 must not see the practice answer at index 0")
	require.Equal(t, 0, snap.Answered)

	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, res.Score)
	require.Len(t, res.PracticeAnswers, 3)
	require.Empty(t, res.Answers)
}

func TestReselectOverwrites(t *testing.T) {
	s, _ := newTestSession(t, 60)
	q := bank.Default().Practice[0]
	_, err := s.SelectAnswer(q.Options[0])
	require.NoError(t, err)
	_, err = s.SelectOption(1)
	require.NoError(t, err)
	snap := s.Snapshot()
	require.Equal(t, q.Options[1], snap.Answer)
	require.Equal(t, 1, snap.Answered)

	_, err = s.SelectAnswer("not an option")
	require.ErrorIs(t, err, ErrUnknownOption)
	_, err = s.SelectOption(9)
	require.ErrorIs(t, err, ErrUnknownOption)
}

func TestReviewMarksRecorded(t *testing.T) {
	s, _ := newTestSession(t, 60)
	answerPractice(t, s, false, false, false)
	require.NoError(t, s.ToggleReview())
	require.True(t, s.Snapshot().Marked)
	_, err := s.Advance(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.ToggleReview())
	require.NoError(t, s.ToggleReview())
	require.False(t, s.Snapshot().Marked)

	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{0}, res.Review)
}

func TestRecordFailureKeepsSessionOpen(t *testing.T) {
	s, rec := newTestSession(t, 60)
	rec.failN = 1
	answerPractice(t, s, true, true, true)
	ctx := context.Background()

	_, err := s.Submit(ctx)
	require.Error(t, err)
	require.Equal(t, PhaseMain, s.Snapshot().Phase)

	_, err = s.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, rec.count())
}

func TestAbandonRecordsNothing(t *testing.T) {
	s, rec := newTestSession(t, 60)
	answerPractice(t, s, true, true, true)
	s.Abandon()
	_, err := s.Submit(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	submitted, err := s.Tick(context.Background())
	require.NoError(t, err)
	require.False(t, submitted)
	require.Zero(t, rec.count())
}

func TestNewRejectsInvalidBank(t *testing.T) {
	b := bank.Default()
	b.Main[model.TierMedium] = nil
	_, err := New(Options{
		Test:      model.Test{Code: "E12345", DurationMinutes: 10},
		StudentID: "s1",
		Bank:      b,
		Recorder:  &memRecorder{},
	})
	require.Error(t, err)
}

func TestSubmitClosesWhenResultAlreadyRecorded(t *testing.T) {
	s, rec := newTestSession(t, 10)
	rec.taken = true
	ctx := context.Background()

	_, err := s.Submit(ctx)
	require.ErrorIs(t, err, ErrAlreadyRecorded)
	require.Equal(t, PhaseAbandoned, s.Snapshot().Phase)
	require.Nil(t, s.Snapshot().Result)

	_, err = s.Submit(ctx)
	require.ErrorIs(t, err, ErrClosed)
	submitted, err := s.Tick(ctx)
	require.NoError(t, err)
	require.False(t, submitted)
	require.Equal(t, 0, rec.count())
}

func TestGoToStaysInCurrentSequence(t *testing.T) {
	s, _ := newTestSession(t, 10)
	total := s.Snapshot().Total

	require.NoError(t, s.GoTo(total-1))
	require.Equal(t, total-1, s.Snapshot().Index)
	require.NoError(t, s.GoTo(0))
	require.Equal(t, 0, s.Snapshot().Index)
	require.ErrorIs(t, s.GoTo(total), ErrNoSuchQuestion)
	require.ErrorIs(t, s.GoTo(-1), ErrNoSuchQuestion)
	require.Equal(t, 0, s.Snapshot().Index)

	s.Abandon()
	require.ErrorIs(t, s.GoTo(0), ErrClosed)
}
