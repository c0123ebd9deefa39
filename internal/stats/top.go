package stats

import (
	"sort"

	"github.com/verte-zerg/tuiassess/internal/model"
)

// TopStudents returns the n students with the highest mean score on the
// teacher's tests. Ties keep the student with more attempts first, then name.
func TopStudents(results []model.TeacherResult, n int) []Average {
	if n <= 0 || len(results) == 0 {
		return nil
	}
	names := map[string]string{}
	scores := map[string][]float64{}
	for _, r := range results {
		name := r.Student.FullName
		if name == "" {
			name = r.StudentID
		}
		names[r.StudentID] = name
		scores[r.StudentID] = append(scores[r.StudentID], float64(r.Score))
	}
	items := make([]Average, 0, len(scores))
	for id, s := range scores {
		items = append(items, Average{Label: names[id], Mean: Round1(mean(s)), Count: len(s)})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Mean != items[j].Mean {
			return items[i].Mean > items[j].Mean
		}
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Label < items[j].Label
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
