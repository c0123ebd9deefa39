// Package dashboard provides the Bubble Tea student and teacher dashboards.
package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiassess/internal/auth"
	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/stats"
	"github.com/verte-zerg/tuiassess/internal/store"
	"github.com/verte-zerg/tuiassess/internal/theme"
)

// Actions is what the dashboard needs from the application.
type Actions interface {
	StudentReport(ctx context.Context, student model.Student) (stats.StudentReport, error)
	TeacherReport(ctx context.Context, teacher model.Teacher) (stats.TeacherReport, error)
	LookupTest(ctx context.Context, student model.Student, rawCode string) (model.Test, error)
	CreateTest(ctx context.Context, teacher model.Teacher, title string, subject model.Subject, minutes int) (model.Test, error)
}

// Action is what the user chose when leaving the dashboard.
type Action int

// Actions on exit.
const (
	ActionQuit Action = iota
	ActionLogout
	ActionStartTest
)

type formKind int

const (
	formNone formKind = iota
	formJoin
	formCreate
)

// Student tabs.
const (
	tabOverview = iota
	tabHistory
	tabProfile
)

// Teacher tabs.
const (
	tabAnalytics = iota
	tabTests
	tabStudents
)

var tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))

// Options configures a dashboard.
type Options struct {
	// DefaultDuration prefills the create-test form, in minutes.
	DefaultDuration int
	Logger          *zap.Logger
	// ForceColor keeps ANSI colors in charts.
	ForceColor bool
}

// Model implements the Bubble Tea dashboard UI.
type Model struct {
	ctx     context.Context
	actions Actions
	session auth.Session
	opts    Options
	log     *zap.Logger

	studentReport stats.StudentReport
	teacherReport stats.TeacherReport
	errMsg        string
	notice        string

	tabs       []string
	activeTab  int
	viewports  []viewport.Model
	testsTable table.Model

	width  int
	height int

	form       formKind
	inputs     []textinput.Model
	inputIndex int
	formError  string

	action Action
	test   model.Test
}

// NewModel constructs a dashboard for the logged-in session.
func NewModel(ctx context.Context, actions Actions, session auth.Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = 60
	}
	m := &Model{
		ctx:     ctx,
		actions: actions,
		session: session,
		opts:    opts,
		log:     opts.Logger,
	}
	if session.Role == model.RoleTeacher {
		m.tabs = []string{"Analytics", "My Tests", "Students"}
	} else {
		m.tabs = []string{"Overview", "History", "Profile"}
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.testsTable = buildTestsTable(nil, 80, 1)
	m.refresh()
	return m
}

// Action reports what the user chose on exit.
func (m *Model) Action() Action {
	return m.action
}

// Test returns the test the student chose to start.
func (m *Model) Test() model.Test {
	return m.test
}

func (m *Model) isTeacher() bool {
	return m.session.Role == model.RoleTeacher
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.action = ActionQuit
			return m, tea.Quit
		}
		if m.form != formNone {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "q":
			m.action = ActionQuit
			return m, tea.Quit
		case "o":
			m.action = ActionLogout
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.notice = ""
			m.refresh()
			return m, nil
		case "j":
			if !m.isTeacher() {
				return m, m.startForm(formJoin)
			}
		case "c":
			if m.isTeacher() {
				return m, m.startForm(formCreate)
			}
		case "g", "home":
			if m.showsTable() {
				m.testsTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.showsTable() {
				m.testsTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		}
		if m.showsTable() {
			var cmd tea.Cmd
			m.testsTable, cmd = m.testsTable.Update(msg)
			return m, cmd
		}
		vp := m.viewports[m.activeTab]
		var cmd tea.Cmd
		vp, cmd = vp.Update(msg)
		m.viewports[m.activeTab] = vp
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.form != formNone {
		return theme.FitLines(theme.Modal(m.renderForm(), m.width, m.height), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := theme.FitLines(m.renderHeader(), m.width, headerHeight)
	body := theme.FitLines(m.renderBody(), m.width, bodyHeight)
	footer := theme.FitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) showsTable() bool {
	return m.isTeacher() && m.activeTab == tabTests && len(m.teacherReport.Tests) > 0
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = theme.TabsHeight() + 1
	footerHeight = 1
	if m.errMsg != "" || m.notice != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.testsTable.SetWidth(m.width)
	m.testsTable.SetHeight(bodyHeight)
	for i := range m.inputs {
		promptWidth := lipgloss.Width(m.inputs[i].Prompt)
		m.inputs[i].Width = theme.MaxInt(10, theme.ModalInnerWidth(m.width)-promptWidth-1)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.showsTable() {
		m.testsTable.Focus()
	} else {
		m.testsTable.Blur()
	}
}

func (m *Model) renderHeader() string {
	tabs := theme.PadLines(theme.Tabs(m.tabs, m.activeTab), m.width)
	who := fmt.Sprintf("Signed in as %s (%s, %s)", m.session.Name(), m.session.UserID(), m.session.Role)
	return tabs + "\n" + theme.HeaderStyle.Render(theme.TruncateLine(who, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Join test: j  Refresh: r  Logout: o  Quit: q"
	if m.isTeacher() {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Create test: c  Refresh: r  Logout: o  Quit: q"
	}
	return theme.HeaderStyle.Render(theme.TruncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	help := m.renderHelp()
	switch {
	case m.errMsg != "":
		return help + "\n" + theme.ErrorStyle.Render(m.errMsg)
	case m.notice != "":
		return help + "\n" + theme.SuccessStyle.Render(m.notice)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.isTeacher() && m.activeTab == tabTests {
		if len(m.teacherReport.Tests) == 0 {
			return "No tests created yet. Press c to create one."
		}
		return tableMutedStyle.Render(m.testsTable.View())
	}
	return m.viewports[m.activeTab].View()
}

// refresh reloads the report for the current account.
func (m *Model) refresh() {
	m.errMsg = ""
	if m.isTeacher() {
		if m.session.Teacher == nil {
			m.errMsg = "no teacher in session"
			return
		}
		report, err := m.actions.TeacherReport(m.ctx, *m.session.Teacher)
		if err != nil {
			m.log.Error("failed to load teacher report", zap.Error(err))
			m.errMsg = err.Error()
		} else {
			m.teacherReport = report
		}
		_, bodyHeight, _ := m.layoutHeights()
		m.testsTable = buildTestsTable(m.teacherReport.Tests, m.contentWidth(), bodyHeight)
		if m.showsTable() {
			m.testsTable.Focus()
		}
	} else {
		if m.session.Student == nil {
			m.errMsg = "no student in session"
			return
		}
		report, err := m.actions.StudentReport(m.ctx, *m.session.Student)
		if err != nil {
			m.log.Error("failed to load student report", zap.Error(err))
			m.errMsg = err.Error()
		} else {
			m.studentReport = report
		}
	}
	m.renderTabContents()
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.contentWidth()
	if m.isTeacher() {
		m.setContent(tabAnalytics, func(buf *bytes.Buffer) error {
			return stats.RenderTeacherAnalytics(buf, m.teacherReport, width, m.opts.ForceColor)
		})
		m.setContent(tabStudents, func(buf *bytes.Buffer) error {
			return stats.RenderTeacherStudents(buf, m.teacherReport)
		})
		return
	}
	m.setContent(tabOverview, func(buf *bytes.Buffer) error {
		return stats.RenderStudentOverview(buf, m.studentReport, width, m.opts.ForceColor)
	})
	m.setContent(tabHistory, func(buf *bytes.Buffer) error {
		return stats.RenderStudentHistory(buf, m.studentReport)
	})
	m.setContent(tabProfile, func(buf *bytes.Buffer) error {
		return stats.RenderStudentProfile(buf, m.studentReport)
	})
}

func (m *Model) setContent(tab int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		m.viewports[tab].SetContent("Failed to render stats.")
		return
	}
	m.viewports[tab].SetContent(strings.TrimRight(buf.String(), "\n"))
}

func buildTestsTable(tests []store.TestSummary, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Code", Width: 8},
		{Title: "Title", Width: 24},
		{Title: "Subject", Width: 12},
		{Title: "Minutes", Width: 8},
		{Title: "Attempts", Width: 9},
		{Title: "Created", Width: 17},
	}
	fixed := 0
	for i, c := range columns {
		if i != 1 {
			fixed += c.Width
		}
	}
	if w := width - fixed; w > columns[1].Width {
		columns[1].Width = w
	}
	rows := make([]table.Row, 0, len(tests))
	for _, t := range tests {
		rows = append(rows, table.Row{
			t.Code,
			t.Title,
			t.Subject.Label(),
			strconv.Itoa(t.DurationMinutes),
			strconv.Itoa(t.Attempts),
			t.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(theme.MaxInt(1, height)),
		table.WithWidth(theme.MaxInt(1, width)),
		table.WithStyles(theme.TableStyles()),
	)
}

func newFormInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 120
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) startForm(kind formKind) tea.Cmd {
	m.form = kind
	m.formError = ""
	m.notice = ""
	switch kind {
	case formJoin:
		code := newFormInput("Test code: ", "E12345")
		code.CharLimit = 6
		m.inputs = []textinput.Model{code}
	case formCreate:
		subject := newFormInput("Subject: ", "english, science or mathematics")
		if m.session.Teacher != nil {
			if s, err := model.ParseSubject(m.session.Teacher.Subject); err == nil {
				subject.SetValue(string(s))
			}
		}
		duration := newFormInput("Duration (minutes): ", "")
		duration.SetValue(strconv.Itoa(m.opts.DefaultDuration))
		m.inputs = []textinput.Model{
			newFormInput("Title: ", "Reading check 1"),
			subject,
			duration,
		}
	}
	m.updateLayout()
	return m.setInputIndex(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.form = formNone
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		return m.submitForm()
	case tea.KeyTab, tea.KeyDown:
		return m, m.setInputIndex(m.inputIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setInputIndex(m.inputIndex - 1)
	}
	var cmd tea.Cmd
	m.inputs[m.inputIndex], cmd = m.inputs[m.inputIndex].Update(msg)
	return m, cmd
}

func (m *Model) setInputIndex(idx int) tea.Cmd {
	count := len(m.inputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.inputIndex = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.inputIndex {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	switch m.form {
	case formJoin:
		if m.session.Student == nil {
			m.formError = "no student in session"
			return m, nil
		}
		t, err := m.actions.LookupTest(m.ctx, *m.session.Student, m.inputs[0].Value())
		if err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.form = formNone
		m.action = ActionStartTest
		m.test = t
		return m, tea.Quit
	case formCreate:
		t, err := m.createTest()
		if err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.form = formNone
		m.notice = fmt.Sprintf("Created %q. Share code %s with your students.", t.Title, t.Code)
		m.refresh()
		m.updateLayout()
	}
	return m, nil
}

func (m *Model) createTest() (model.Test, error) {
	if m.session.Teacher == nil {
		return model.Test{}, fmt.Errorf("no teacher in session")
	}
	title := strings.TrimSpace(m.inputs[0].Value())
	if title == "" {
		return model.Test{}, fmt.Errorf("title is required")
	}
	subject, err := model.ParseSubject(m.inputs[1].Value())
	if err != nil {
		return model.Test{}, err
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(m.inputs[2].Value()))
	if err != nil || minutes <= 0 {
		return model.Test{}, fmt.Errorf("duration must be a positive number of minutes")
	}
	return m.actions.CreateTest(m.ctx, *m.session.Teacher, title, subject, minutes)
}

func (m *Model) renderForm() string {
	var lines []string
	switch m.form {
	case formJoin:
		lines = append(lines,
			theme.TitleStyle.Render("Join a test"),
			theme.MutedStyle.Render("Enter the 6-character code from your teacher."),
			"",
		)
	case formCreate:
		lines = append(lines,
			theme.TitleStyle.Render("Create a test"),
			theme.MutedStyle.Render("A join code is generated from the subject."),
			"",
		)
	}
	for _, input := range m.inputs {
		lines = append(lines, input.View())
	}
	if m.formError != "" {
		lines = append(lines, "", theme.ErrorStyle.Render(m.formError))
	}
	lines = append(lines, "", theme.HeaderStyle.Render("tab/shift+tab: next field  enter: confirm  esc: cancel"))
	return strings.Join(lines, "\n")
}
