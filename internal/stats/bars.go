package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	barFull      = "█"
	barMinWidth  = 10
	barMaxWidth  = 40
	barSeparator = " │ "
)

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value float64
	// Text overrides the printed value when set.
	Text string
}

// CountBars converts counts into bars.
func CountBars(counts []Count) []Bar {
	bars := make([]Bar, len(counts))
	for i, c := range counts {
		bars[i] = Bar{Label: c.Label, Value: float64(c.Value), Text: fmt.Sprintf("%d", c.Value)}
	}
	return bars
}

// AverageBars converts group averages into bars on the score scale.
func AverageBars(avgs []Average) []Bar {
	bars := make([]Bar, len(avgs))
	for i, a := range avgs {
		bars[i] = Bar{Label: a.Label, Value: a.Mean, Text: fmt.Sprintf("%.1f%% (n=%d)", a.Mean, a.Count)}
	}
	return bars
}

// RenderBars prints a horizontal bar chart. Bars are drawn relative to scale,
// or to the largest value when scale is zero.
func RenderBars(w io.Writer, title string, bars []Bar, scale float64, width int) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if len(bars) == 0 {
		_, err := fmt.Fprintln(w, "No data yet.")
		return err
	}
	if scale <= 0 {
		for _, b := range bars {
			scale = math.Max(scale, b.Value)
		}
	}
	labelWidth := 0
	for _, b := range bars {
		if lw := displayWidth(b.Label); lw > labelWidth {
			labelWidth = lw
		}
	}
	barWidth := width - labelWidth - displayWidth(barSeparator) - 16
	if barWidth < barMinWidth {
		barWidth = barMinWidth
	}
	if barWidth > barMaxWidth {
		barWidth = barMaxWidth
	}
	for _, b := range bars {
		n := 0
		if scale > 0 {
			n = int(math.Round(b.Value / scale * float64(barWidth)))
		}
		if n > barWidth {
			n = barWidth
		}
		text := b.Text
		if text == "" {
			text = fmt.Sprintf("%.1f", b.Value)
		}
		line := padCell(b.Label, labelWidth, false) + barSeparator + strings.Repeat(barFull, n) + " " + text
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
