package stats

import (
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/tuiassess/internal/model"
)

var t0 = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

func res(score int, tier model.Tier, subject model.Subject, minutes int) model.Result {
	return model.Result{
		Score:       score,
		Tier:        tier,
		Subject:     subject,
		CompletedAt: t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestSummarizeStudent(t *testing.T) {
	results := []model.Result{
		res(100, model.TierHard, model.SubjectEnglish, 2),
		res(0, model.TierMedium, model.SubjectEnglish, 1),
		res(50, model.TierEasy, model.SubjectScience, 3),
	}
	sum := SummarizeStudent(results)
	if sum.Taken != 3 || sum.Best != 100 {
		t.Fatalf("unexpected cards: %+v", sum)
	}
	if sum.Average != 50 {
		t.Fatalf("expected average 50, got %.2f", sum.Average)
	}
	if len(sum.Trend) != 3 || sum.Trend[0] != 0 || sum.Trend[2] != 50 {
		t.Fatalf("expected trend ordered by completion, got %v", sum.Trend)
	}
	if sum.BySubject[0] != (Count{Label: "English", Value: 2}) || sum.BySubject[2].Value != 0 {
		t.Fatalf("unexpected subject counts: %+v", sum.BySubject)
	}
	if sum.ByTier[0].Value != 1 || sum.ByTier[1].Value != 1 || sum.ByTier[2].Value != 1 {
		t.Fatalf("unexpected tier counts: %+v", sum.ByTier)
	}
	if results[0].Score != 100 {
		t.Fatalf("input slice must not be reordered")
	}
}

func TestSummarizeStudentEmpty(t *testing.T) {
	sum := SummarizeStudent(nil)
	if sum.Taken != 0 || sum.Average != 0 || len(sum.Trend) != 0 {
		t.Fatalf("unexpected empty summary: %+v", sum)
	}
}

func TestTrendKeepsLastTen(t *testing.T) {
	var results []model.Result
	for i := 0; i < 14; i++ {
		results = append(results, res(i, model.TierEasy, model.SubjectMathematics, i))
	}
	sum := SummarizeStudent(results)
	if len(sum.Trend) != TrendLength {
		t.Fatalf("expected %d trend points, got %d", TrendLength, len(sum.Trend))
	}
	if sum.Trend[0] != 4 || sum.Trend[9] != 13 {
		t.Fatalf("unexpected trend window: %v", sum.Trend)
	}
}

func TestSummarizeTeacher(t *testing.T) {
	mk := func(id string, score int, gender, grade, class string, minute int) model.TeacherResult {
		r := res(score, model.TierMedium, model.SubjectEnglish, minute)
		r.StudentID = id
		return model.TeacherResult{Result: r, Student: model.Student{ID: id, Gender: gender, Grade: grade, Class: class}}
	}
	results := []model.TeacherResult{
		mk("s1", 80, "female", "10", "A", 1),
		mk("s2", 45, "male", "10", "B", 2),
		mk("s1", 100, "female", "10", "A", 3),
		mk("s9", 19, "", "", "", 4),
	}
	sum := SummarizeTeacher(2, results)
	if sum.TestsCreated != 2 || sum.Students != 3 || sum.Taken != 4 {
		t.Fatalf("unexpected cards: %+v", sum)
	}
	if sum.Average != 61 {
		t.Fatalf("expected average 61, got %.2f", sum.Average)
	}
	wantGender := []Average{
		{Label: "Female", Mean: 90, Count: 2},
		{Label: "Male", Mean: 45, Count: 1},
		{Label: UnknownLabel, Mean: 19, Count: 1},
	}
	if len(sum.ByGender) != len(wantGender) {
		t.Fatalf("unexpected gender groups: %+v", sum.ByGender)
	}
	for i := range wantGender {
		if sum.ByGender[i] != wantGender[i] {
			t.Fatalf("gender group %d: expected %+v, got %+v", i, wantGender[i], sum.ByGender[i])
		}
	}
	if sum.ByClass[0].Label != "10-A" || sum.ByClass[1].Label != "10-B" || sum.ByClass[2].Label != UnknownLabel {
		t.Fatalf("unexpected class groups: %+v", sum.ByClass)
	}
	buckets := map[string]int{}
	for _, b := range sum.ScoreBuckets {
		buckets[b.Label] = b.Value
	}
	if buckets["0-19"] != 1 || buckets["40-59"] != 1 || buckets["80-100"] != 2 {
		t.Fatalf("unexpected score buckets: %+v", sum.ScoreBuckets)
	}
}

func TestScoreBucketsEdges(t *testing.T) {
	buckets := ScoreBuckets([]float64{0, 19, 20, 79, 80, 100})
	want := []int{2, 1, 0, 1, 2}
	for i, b := range buckets {
		if b.Value != want[i] {
			t.Fatalf("bucket %s: expected %d, got %d", b.Label, want[i], b.Value)
		}
	}
}

func TestRound1(t *testing.T) {
	if got := Round1(66.666); math.Abs(got-66.7) > 1e-9 {
		t.Fatalf("expected 66.7, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{10, 20, 30, 40}, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %.1f, got %.1f", i, want[i], got[i])
		}
	}
}

func TestSparklineUsesScoreScale(t *testing.T) {
	got := Sparkline([]float64{0, 50, 100})
	if len(got) != 3 || got[0] != ' ' || got[2] != '@' {
		t.Fatalf("unexpected sparkline %q", got)
	}
}
