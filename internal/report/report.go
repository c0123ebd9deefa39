// Package report renders dashboard analytics as a standalone HTML page of
// ECharts charts.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/verte-zerg/tuiassess/internal/stats"
)

// WriteStudent writes the student's analytics page to w.
func WriteStudent(w io.Writer, r stats.StudentReport) error {
	s := r.Summary
	page := newPage(fmt.Sprintf("%s - Results", r.Student.FullName))
	page.AddCharts(
		trendChart("Score Trend", fmt.Sprintf("%d tests, average %.1f%%", s.Taken, s.Average), s.Trend),
		pieChart("Tests by Subject", s.BySubject),
		barChart("Difficulty Levels", "Tests", s.ByTier),
	)
	return page.Render(w)
}

// WriteTeacher writes the teacher's analytics page to w.
func WriteTeacher(w io.Writer, r stats.TeacherReport) error {
	s := r.Summary
	page := newPage(fmt.Sprintf("%s - Analytics", r.Teacher.FullName))
	page.AddCharts(
		averageChart("Performance by Gender", s.ByGender),
		averageChart("Performance by Class", s.ByClass),
		trendChart("Performance Trend", fmt.Sprintf("%d results, average %.1f%%", s.Taken, s.Average), s.Trend),
		pieChart("Difficulty Distribution", s.ByTier),
		barChart("Score Distribution", "Results", s.ScoreBuckets),
		averageChart("Top Students", r.Top),
	)
	return page.Render(w)
}

func newPage(title string) *components.Page {
	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)
	return page
}

func trendChart(title, subtitle string, trend []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Min:  stats.ScoreRange.Min,
			Max:  stats.ScoreRange.Max,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	labels := make([]string, len(trend))
	items := make([]opts.LineData, 0, len(trend))
	for i, v := range trend {
		labels[i] = fmt.Sprintf("T%d", i+1)
		items = append(items, opts.LineData{Value: v})
	}
	line.SetXAxis(labels).
		AddSeries("Score", items).
		SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}

func barChart(title, series string, counts []stats.Count) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	labels := make([]string, len(counts))
	items := make([]opts.BarData, 0, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
		items = append(items, opts.BarData{Value: c.Value})
	}
	bar.SetXAxis(labels).AddSeries(series, items)
	return bar
}

func averageChart(title string, avgs []stats.Average) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Min:  stats.ScoreRange.Min,
			Max:  stats.ScoreRange.Max,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	labels := make([]string, len(avgs))
	items := make([]opts.BarData, 0, len(avgs))
	for i, a := range avgs {
		labels[i] = a.Label
		items = append(items, opts.BarData{Value: a.Mean})
	}
	bar.SetXAxis(labels).
		AddSeries("Average Score", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}

func pieChart(title string, counts []stats.Count) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	items := make([]opts.PieData, 0, len(counts))
	for _, c := range counts {
		if c.Value == 0 {
			continue
		}
		items = append(items, opts.PieData{Name: c.Label, Value: c.Value})
	}
	pie.AddSeries(title, items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}))
	return pie
}
