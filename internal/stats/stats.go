// Package stats computes dashboard analytics from stored results and renders
// them as text.
package stats

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/tuiassess/internal/model"
)

const (
	sparkChars = " .:-=+*#%@"
	// TrendLength is how many recent results the trend charts show.
	TrendLength = 10
	// UnknownLabel groups results whose student record is missing.
	UnknownLabel = "Unknown"
)

// Count is one labelled bar.
type Count struct {
	Label string
	Value int
}

// Average is the mean score of one group.
type Average struct {
	Label string
	Mean  float64
	Count int
}

// StudentSummary is everything the student dashboard shows.
type StudentSummary struct {
	Taken     int
	Average   float64
	Best      int
	Trend     []float64
	BySubject []Count
	ByTier    []Count
	History   []model.Result
}

// TeacherSummary is everything the teacher dashboard shows.
type TeacherSummary struct {
	TestsCreated int
	Students     int
	Taken        int
	Average      float64
	ByGender     []Average
	ByClass      []Average
	Trend        []float64
	ByTier       []Count
	ScoreBuckets []Count
	Results      []model.TeacherResult
}

// SummarizeStudent aggregates one student's results.
func SummarizeStudent(results []model.Result) StudentSummary {
	sorted := make([]model.Result, len(results))
	copy(sorted, results)
	sortByCompletion(sorted, func(i int) model.Result { return sorted[i] })

	sum := StudentSummary{Taken: len(sorted), History: sorted}
	scores := make([]float64, len(sorted))
	subjects := map[string]int{}
	tiers := map[model.Tier]int{}
	for i, r := range sorted {
		scores[i] = float64(r.Score)
		if r.Score > sum.Best {
			sum.Best = r.Score
		}
		subjects[r.Subject.Label()]++
		tiers[r.Tier]++
	}
	sum.Average = Round1(mean(scores))
	sum.Trend = lastN(scores, TrendLength)
	sum.BySubject = subjectCounts(subjects)
	sum.ByTier = tierCounts(tiers)
	return sum
}

// SummarizeTeacher aggregates results of a teacher's tests.
func SummarizeTeacher(testsCreated int, results []model.TeacherResult) TeacherSummary {
	sorted := make([]model.TeacherResult, len(results))
	copy(sorted, results)
	sortByCompletion(sorted, func(i int) model.Result { return sorted[i].Result })

	sum := TeacherSummary{TestsCreated: testsCreated, Taken: len(sorted), Results: sorted}
	scores := make([]float64, len(sorted))
	students := map[string]struct{}{}
	genders := map[string][]float64{}
	classes := map[string][]float64{}
	tiers := map[model.Tier]int{}
	for i, r := range sorted {
		score := float64(r.Score)
		scores[i] = score
		students[r.StudentID] = struct{}{}
		genders[genderLabel(r.Student)] = append(genders[genderLabel(r.Student)], score)
		classes[classLabel(r.Student)] = append(classes[classLabel(r.Student)], score)
		tiers[r.Tier]++
	}
	sum.Students = len(students)
	sum.Average = Round1(mean(scores))
	sum.ByGender = groupAverages(genders)
	sum.ByClass = groupAverages(classes)
	sum.Trend = lastN(scores, TrendLength)
	sum.ByTier = tierCounts(tiers)
	sum.ScoreBuckets = ScoreBuckets(scores)
	return sum
}

func sortByCompletion[T any](items []T, at func(i int) model.Result) {
	sort.SliceStable(items, func(i, j int) bool {
		return at(i).CompletedAt.Before(at(j).CompletedAt)
	})
}

func genderLabel(s model.Student) string {
	g := strings.TrimSpace(s.Gender)
	if g == "" {
		return UnknownLabel
	}
	r, size := utf8.DecodeRuneInString(g)
	return string(unicode.ToUpper(r)) + strings.ToLower(g[size:])
}

func classLabel(s model.Student) string {
	if s.Grade == "" && s.Class == "" {
		return UnknownLabel
	}
	return s.ClassLabel()
}

func groupAverages(groups map[string][]float64) []Average {
	out := make([]Average, 0, len(groups))
	for label, scores := range groups {
		out = append(out, Average{Label: label, Mean: Round1(mean(scores)), Count: len(scores)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}

func subjectCounts(counts map[string]int) []Count {
	out := make([]Count, 0, len(model.Subjects))
	for _, s := range model.Subjects {
		out = append(out, Count{Label: s.Label(), Value: counts[s.Label()]})
		delete(counts, s.Label())
	}
	extra := make([]string, 0, len(counts))
	for label := range counts {
		extra = append(extra, label)
	}
	sort.Strings(extra)
	for _, label := range extra {
		out = append(out, Count{Label: label, Value: counts[label]})
	}
	return out
}

func tierCounts(counts map[model.Tier]int) []Count {
	out := make([]Count, 0, len(model.Tiers))
	for _, t := range model.Tiers {
		out = append(out, Count{Label: string(t), Value: counts[t]})
	}
	return out
}

// ScoreBuckets counts scores in the ranges 0-19, 20-39, 40-59, 60-79 and 80-100.
func ScoreBuckets(scores []float64) []Count {
	out := []Count{
		{Label: "0-19"},
		{Label: "20-39"},
		{Label: "40-59"},
		{Label: "60-79"},
		{Label: "80-100"},
	}
	for _, s := range scores {
		idx := int(s) / 20
		if idx < 0 {
			idx = 0
		}
		if idx >= len(out) {
			idx = len(out) - 1
		}
		out[idx].Value++
	}
	return out
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func lastN(values []float64, n int) []float64 {
	if len(values) > n {
		values = values[len(values)-n:]
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline on the 0-100 score scale.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - ScoreRange.Min) / (ScoreRange.Max - ScoreRange.Min)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
