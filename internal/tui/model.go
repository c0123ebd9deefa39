// Package tui provides the Bubble Tea assessment screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiassess/internal/engine"
	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/theme"
)

// Outcome is how the assessment screen ended.
type Outcome int

// Outcomes.
const (
	OutcomePending Outcome = iota
	OutcomeSubmitted
	OutcomeAbandoned
	// OutcomeRejected means another attempt on the same test was recorded
	// first and this one was closed without a result.
	OutcomeRejected
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmSubmit
	confirmAbandon
)

// lowTimeSeconds turns the timer red.
const lowTimeSeconds = 60

type tickMsg time.Time

// Model implements the Bubble Tea assessment UI.
type Model struct {
	ctx     context.Context
	session *engine.Session
	log     *zap.Logger

	width  int
	height int

	cursor  int
	input   textinput.Model
	confirm confirmKind
	notice  string
	errMsg  string

	jumping bool
	jumpBuf string

	outcome Outcome
	result  model.Result
}

var (
	passageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	optionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	timerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	lowTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	navAnswered   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	navMarked     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9254DE"))
	navPending    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	navCurrent    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Underline(true)
)

// NewModel constructs the assessment screen for a running session.
func NewModel(ctx context.Context, session *engine.Session, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Type your answer"
	input.CharLimit = 500
	m := &Model{
		ctx:     ctx,
		session: session,
		log:     logger,
		input:   input,
	}
	m.syncQuestion()
	return m
}

// Outcome reports how the screen ended.
func (m *Model) Outcome() Outcome {
	return m.outcome
}

// Result returns the recorded result after submission.
func (m *Model) Result() model.Result {
	return m.result
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = theme.MaxInt(10, m.contentWidth()-4)
		return m, nil
	case tickMsg:
		return m.handleTick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.outcome != OutcomePending {
		return m, nil
	}
	submitted, err := m.session.Tick(m.ctx)
	if errors.Is(err, engine.ErrAlreadyRecorded) {
		m.reject()
		return m, nil
	}
	if err != nil {
		m.errMsg = fmt.Sprintf("Could not save your result, retrying: %v", err)
		return m, tick()
	}
	if submitted {
		m.notice = "Time is up. Your answers were submitted."
		m.finish()
		return m, nil
	}
	return m, tick()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.outcome != OutcomePending {
		switch key {
		case "enter", "esc", "q", "ctrl+c", " ":
			return m, tea.Quit
		}
		return m, nil
	}
	if m.confirm != confirmNone {
		return m.handleConfirm(key)
	}
	if m.jumping {
		m.handleJump(key)
		return m, nil
	}

	switch key {
	case "ctrl+c", "esc":
		m.confirm = confirmAbandon
		return m, nil
	case "ctrl+s":
		m.confirm = confirmSubmit
		return m, nil
	case "tab", "right":
		return m.advance()
	case "shift+tab", "left":
		m.retreat()
		return m, nil
	case "ctrl+r":
		m.toggleReview()
		return m, nil
	case "ctrl+g":
		m.startJump()
		return m, nil
	}

	snap := m.session.Snapshot()
	if snap.Question.Kind == model.KindShortAnswer {
		if key == "enter" {
			m.choose(func() (model.Tier, error) {
				return m.session.SelectAnswer(strings.TrimSpace(m.input.Value()))
			})
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(snap.Question.Options)-1 {
			m.cursor++
		}
	case "enter", " ":
		idx := m.cursor
		m.choose(func() (model.Tier, error) { return m.session.SelectOption(idx) })
	case "l", "n":
		return m.advance()
	case "h", "p":
		m.retreat()
	case "r":
		m.toggleReview()
	case "s":
		m.confirm = confirmSubmit
	case "g":
		m.startJump()
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(snap.Question.Options) {
				m.cursor = idx
				m.choose(func() (model.Tier, error) { return m.session.SelectOption(idx) })
			}
		}
	}
	return m, nil
}

func (m *Model) handleConfirm(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" && m.confirm == confirmAbandon {
		key = "y"
	}
	switch key {
	case "y", "Y", "enter":
		kind := m.confirm
		m.confirm = confirmNone
		if kind == confirmAbandon {
			m.session.Abandon()
			m.outcome = OutcomeAbandoned
			return m, tea.Quit
		}
		if _, err := m.session.Submit(m.ctx); err != nil {
			m.submitFailed(err)
			return m, nil
		}
		m.finish()
	case "n", "N", "esc":
		m.confirm = confirmNone
	case "ctrl+c":
		m.confirm = confirmAbandon
	}
	return m, nil
}

func (m *Model) choose(sel func() (model.Tier, error)) {
	m.errMsg = ""
	tier, err := sel()
	if err != nil {
		m.errMsg = answerError(err)
		return
	}
	if tier != "" {
		m.notice = fmt.Sprintf("Practice complete. You will continue at the %s level.", tierLabel(tier))
		m.syncQuestion()
	}
}

func answerError(err error) string {
	switch {
	case errors.Is(err, engine.ErrEmptyAnswer):
		return "Type an answer before pressing enter."
	case errors.Is(err, engine.ErrUnknownOption):
		return "That option does not exist."
	case errors.Is(err, engine.ErrClosed):
		return "The assessment is already closed."
	}
	return err.Error()
}

func (m *Model) advance() (tea.Model, tea.Cmd) {
	m.errMsg = ""
	submitted, err := m.session.Advance(m.ctx)
	if err != nil {
		m.submitFailed(err)
		return m, nil
	}
	if submitted {
		m.finish()
		return m, nil
	}
	snap := m.session.Snapshot()
	if snap.Phase == engine.PhasePractice && snap.Index == snap.Total-1 && snap.Answer == "" {
		m.notice = "Answer the last practice question to continue."
	} else if snap.Phase == engine.PhaseMain {
		m.notice = ""
	}
	m.syncQuestion()
	return m, nil
}

func (m *Model) retreat() {
	m.errMsg = ""
	if err := m.session.Retreat(); err != nil {
		m.errMsg = answerError(err)
		return
	}
	m.syncQuestion()
}

func (m *Model) toggleReview() {
	if err := m.session.ToggleReview(); err != nil {
		m.errMsg = answerError(err)
	}
}

func (m *Model) submitFailed(err error) {
	if errors.Is(err, engine.ErrAlreadyRecorded) {
		m.reject()
		return
	}
	m.errMsg = fmt.Sprintf("Could not submit: %v", err)
}

// reject ends the screen after an overlapping attempt recorded first.
func (m *Model) reject() {
	m.outcome = OutcomeRejected
	m.confirm = confirmNone
	m.jumping = false
	m.errMsg = ""
	m.input.Blur()
}

func (m *Model) startJump() {
	m.jumping = true
	m.jumpBuf = ""
	m.errMsg = ""
}

// handleJump collects a question number and moves there on enter.
func (m *Model) handleJump(key string) {
	switch key {
	case "esc", "ctrl+c", "ctrl+g":
		m.jumping = false
	case "backspace":
		if m.jumpBuf != "" {
			m.jumpBuf = m.jumpBuf[:len(m.jumpBuf)-1]
		}
	case "enter":
		m.jumping = false
		n, err := strconv.Atoi(m.jumpBuf)
		if err != nil {
			return
		}
		if err := m.session.GoTo(n - 1); err != nil {
			if errors.Is(err, engine.ErrNoSuchQuestion) {
				m.errMsg = fmt.Sprintf("There is no question %d.", n)
			} else {
				m.errMsg = answerError(err)
			}
			return
		}
		m.syncQuestion()
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && len(m.jumpBuf) < 3 {
			m.jumpBuf += key
		}
	}
}

func (m *Model) finish() {
	snap := m.session.Snapshot()
	if snap.Result != nil {
		m.result = *snap.Result
	}
	m.outcome = OutcomeSubmitted
	m.errMsg = ""
	m.input.Blur()
}

// syncQuestion points the cursor and input at the current question's answer.
func (m *Model) syncQuestion() {
	snap := m.session.Snapshot()
	m.cursor = 0
	for i, opt := range snap.Question.Options {
		if opt == snap.Answer {
			m.cursor = i
			break
		}
	}
	if snap.Question.Kind == model.KindShortAnswer {
		m.input.SetValue(snap.Answer)
		m.input.CursorEnd()
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	w := int(float64(m.width) * 0.70)
	return theme.MaxInt(20, theme.MinInt(w, 100))
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.outcome == OutcomeSubmitted {
		return theme.Modal(m.renderResult(), m.width, m.height)
	}
	if m.outcome == OutcomeAbandoned {
		return ""
	}
	if m.outcome == OutcomeRejected {
		return theme.Modal(m.renderRejected(), m.width, m.height)
	}
	snap := m.session.Snapshot()
	if m.confirm != confirmNone {
		return theme.Modal(m.renderConfirm(snap), m.width, m.height)
	}

	width := m.contentWidth()
	header := m.renderHeader(snap, width)
	footer := m.renderFooter(snap)
	body := m.renderQuestion(snap, width)

	bodyHeight := m.height - lipgloss.Height(header) - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	bodyLines := strings.Split(body, "\n")
	if len(bodyLines) > bodyHeight {
		bodyLines = bodyLines[:bodyHeight]
	}
	content := theme.FitLines(strings.Join(bodyLines, "\n"), width, bodyHeight)
	page := lipgloss.JoinVertical(lipgloss.Left, header, "", content)
	placed := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Top, page)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) renderHeader(snap engine.Snapshot, width int) string {
	phase := "Practice"
	if snap.Phase == engine.PhaseMain {
		phase = fmt.Sprintf("%s level", tierLabel(snap.Tier))
	}
	left := theme.TitleStyle.Render(snap.Test.Title) + "  " +
		theme.MutedStyle.Render(fmt.Sprintf("%s · %s · %s", snap.Test.Code, snap.Test.Subject.Label(), phase))
	timer := timerStyle
	if snap.RemainingSeconds <= lowTimeSeconds {
		timer = lowTimeStyle
	}
	right := timer.Render(theme.FormatClock(snap.RemainingSeconds))
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	progress := m.renderProgress(snap)
	return lipgloss.JoinVertical(lipgloss.Left, line, progress)
}

func (m *Model) renderProgress(snap engine.Snapshot) string {
	counts := fmt.Sprintf("Question %d/%d  Answered %d/%d", snap.Index+1, snap.Total, snap.Answered, snap.Total)
	if len(snap.Review) > 0 {
		counts += fmt.Sprintf("  Marked %d", len(snap.Review))
	}
	return theme.MutedStyle.Render(counts) + "  " + renderNavigator(snap)
}

// renderNavigator draws one cell per question: answered, marked, current.
func renderNavigator(snap engine.Snapshot) string {
	marked := make(map[int]bool, len(snap.Review))
	for _, i := range snap.Review {
		marked[i] = true
	}
	var b strings.Builder
	for i := 0; i < snap.Total; i++ {
		glyph := "○"
		style := navPending
		if _, ok := snap.Answers[i]; ok {
			glyph = "●"
			style = navAnswered
		}
		if marked[i] {
			glyph = "◆"
			style = navMarked
		}
		if i == snap.Index {
			style = navCurrent
		}
		b.WriteString(style.Render(glyph))
	}
	return b.String()
}

func (m *Model) renderQuestion(snap engine.Snapshot, width int) string {
	q := snap.Question
	var parts []string
	if q.Title != "" {
		parts = append(parts, theme.TitleStyle.Render(q.Title), "")
	}
	if q.Passage != "" {
		parts = append(parts, wrapText(q.Passage, passageStyle, width), "")
	}
	prompt := wrapText(q.Prompt, promptStyle, width)
	if snap.Marked {
		prompt += " " + navMarked.Render("[marked for review]")
	}
	parts = append(parts, prompt, "")
	if q.Kind == model.KindShortAnswer {
		parts = append(parts, m.input.View())
	} else {
		for i, opt := range q.Options {
			parts = append(parts, m.renderOption(i, opt, opt == snap.Answer, width))
		}
	}
	if m.notice != "" {
		parts = append(parts, "", theme.NoticeStyle.Render(m.notice))
	}
	if m.errMsg != "" {
		parts = append(parts, "", theme.ErrorStyle.Render(m.errMsg))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderOption(i int, text string, selected bool, width int) string {
	pointer := "  "
	if i == m.cursor {
		pointer = cursorStyle.Render("▸ ")
	}
	mark := "○"
	style := optionStyle
	if selected {
		mark = "●"
		style = selectedStyle
	}
	label := fmt.Sprintf("%s %d. %s", mark, i+1, text)
	return pointer + style.Render(theme.TruncateLine(label, theme.MaxInt(4, width-2)))
}

func (m *Model) renderRejected() string {
	return strings.Join([]string{
		theme.TitleStyle.Render("Already submitted"),
		"",
		"A result for this test was recorded by another session.",
		"This attempt was closed and nothing was saved.",
		"",
		footerStyle.Render("enter close"),
	}, "\n")
}

func (m *Model) renderFooter(snap engine.Snapshot) string {
	if m.jumping {
		return footerStyle.Render(fmt.Sprintf("go to question: %s_  (1-%d)  enter jump  esc cancel", m.jumpBuf, snap.Total))
	}
	var segments []string
	if snap.Question.Kind == model.KindShortAnswer {
		segments = []string{"enter save", "tab next", "shift+tab back", "ctrl+r mark", "ctrl+g go to", "ctrl+s submit", "esc quit"}
	} else {
		segments = []string{"↑/↓ move", "enter/1-9 select", "→/n next", "←/p back", "r mark", "g go to", "s submit", "esc quit"}
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderConfirm(snap engine.Snapshot) string {
	if m.confirm == confirmAbandon {
		return strings.Join([]string{
			theme.TitleStyle.Render("Leave the assessment?"),
			"",
			"Nothing will be recorded and you can start again later.",
			"",
			footerStyle.Render("y leave  n stay"),
		}, "\n")
	}
	lines := []string{theme.TitleStyle.Render("Submit your answers?"), ""}
	if snap.Phase == engine.PhasePractice {
		lines = append(lines, "You are still in the practice round. Main questions will score 0.")
	} else if missing := snap.Total - snap.Answered; missing > 0 {
		lines = append(lines, fmt.Sprintf("%d question(s) are unanswered and will count as wrong.", missing))
	} else {
		lines = append(lines, "All questions are answered.")
	}
	if len(snap.Review) > 0 {
		lines = append(lines, fmt.Sprintf("%d question(s) are still marked for review.", len(snap.Review)))
	}
	lines = append(lines, "", footerStyle.Render("y submit  n keep working"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderResult() string {
	r := m.result
	cards := theme.Cards([]string{
		theme.Card("Score", fmt.Sprintf("%d%%", r.Score)),
		theme.Card("Level", tierLabel(r.Tier)),
		theme.Card("Practice", fmt.Sprintf("%.0f%%", r.PracticeScore)),
		theme.Card("Time", theme.FormatClock(r.ElapsedSeconds)),
	}, theme.ModalInnerWidth(m.width))
	lines := []string{theme.TitleStyle.Render("Assessment submitted"), ""}
	if m.notice != "" {
		lines = append(lines, theme.NoticeStyle.Render(m.notice), "")
	}
	lines = append(lines,
		theme.MutedStyle.Render(fmt.Sprintf("%s · %s", r.TestTitle, r.TestCode)),
		"",
		cards,
		"",
		footerStyle.Render("enter return to dashboard"),
	)
	return strings.Join(lines, "\n")
}

func tierLabel(t model.Tier) string {
	switch t {
	case model.TierEasy:
		return "Easy"
	case model.TierMedium:
		return "Medium"
	case model.TierHard:
		return "Hard"
	}
	return string(t)
}
