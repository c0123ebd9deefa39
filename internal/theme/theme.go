// Package theme holds the lipgloss styles and layout helpers shared by the
// Bubble Tea screens.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Palette.
const (
	ColorText    = lipgloss.Color("#F0F0F0")
	ColorMuted   = lipgloss.Color("#8C8C8C")
	ColorDim     = lipgloss.Color("#6E6E6E")
	ColorBorder  = lipgloss.Color("#4A4A4A")
	ColorAccent  = lipgloss.Color("#C89A3A")
	ColorError   = lipgloss.Color("#FF4D4F")
	ColorSuccess = lipgloss.Color("#52C41A")
	ColorReview  = lipgloss.Color("#9254DE")
)

var (
	ActiveNavStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(ColorAccent)
	InactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(ColorBorder)
	HeaderStyle  = lipgloss.NewStyle().Foreground(ColorDim)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	NoticeStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	TitleStyle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	CardStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(ColorBorder)
	CardTitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	CardValueStyle = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	ModalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(ColorAccent).
			Padding(1, 2)
)

// Tabs renders a row of tab labels with active highlighted.
func Tabs(labels []string, active int) string {
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		if i == active {
			parts = append(parts, ActiveNavStyle.Render(label))
		} else {
			parts = append(parts, InactiveNavStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// TabsHeight is the rendered height of a tab row.
func TabsHeight() int {
	return MaxInt(1, lipgloss.Height(ActiveNavStyle.Render("X")))
}

// Card renders a bordered label/value metric card.
func Card(label, value string) string {
	content := fmt.Sprintf("%s\n%s", CardTitleStyle.Render(label), CardValueStyle.Render(value))
	return CardStyle.Render(content)
}

// Cards lays cards out in rows that fit width.
func Cards(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}
	var rows []string
	var row []string
	rowWidth := 0
	for _, c := range cards {
		w := lipgloss.Width(c)
		if len(row) > 0 && width > 0 && rowWidth+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			rowWidth = 0
		}
		row = append(row, c)
		rowWidth += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// TableStyles are the bubbles table styles used across screens.
func TableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ColorBorder).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(ColorText).
		Bold(true)
	return styles
}

// Modal centers body in a bordered box.
func Modal(body string, width, height int) string {
	box := ModalStyle.Width(ModalWidth(width)).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// ModalWidth is the outer width of a modal for a terminal of the given width.
func ModalWidth(width int) int {
	return MaxInt(40, MinInt(width-4, 80))
}

// ModalInnerWidth is the usable text width inside a modal.
func ModalInnerWidth(width int) int {
	w := ModalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

// MaxInt returns the larger of a and b.
func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// MinInt returns the smaller of a and b.
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// PadLines right-pads every line to width.
func PadLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

// FitLines pads or cuts s to exactly height lines of width cells.
func FitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// TruncateLine shortens s to width runes with a trailing ellipsis.
func TruncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
