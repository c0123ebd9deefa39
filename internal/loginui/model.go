// Package loginui provides the Bubble Tea login and sign-up screens.
package loginui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuiassess/internal/auth"
	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/theme"
)

// Authenticator is the account service behind the forms.
type Authenticator interface {
	Login(ctx context.Context, role model.Role, id, password string) (auth.Session, error)
	SignUpStudent(ctx context.Context, in auth.StudentSignUp) error
	SignUpTeacher(ctx context.Context, in auth.TeacherSignUp) error
}

type screen int

const (
	screenMenu screen = iota
	screenLogin
	screenSignUp
)

type menuItem struct {
	label  string
	screen screen
	role   model.Role
}

var menu = []menuItem{
	{label: "Log in as student", screen: screenLogin, role: model.RoleStudent},
	{label: "Log in as teacher", screen: screenLogin, role: model.RoleTeacher},
	{label: "Sign up as student", screen: screenSignUp, role: model.RoleStudent},
	{label: "Sign up as teacher", screen: screenSignUp, role: model.RoleTeacher},
	{label: "Quit", screen: screenMenu},
}

var (
	menuCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	menuItemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
)

// Field order of the forms.
const (
	fieldID = iota
	fieldPassword
	fieldFullName
)

// Model implements the Bubble Tea login UI.
type Model struct {
	ctx  context.Context
	auth Authenticator

	width  int
	height int

	screen     screen
	role       model.Role
	menuIndex  int
	inputs     []textinput.Model
	inputIndex int
	formError  string
	notice     string

	session  auth.Session
	loggedIn bool
}

// NewModel constructs the login screen.
func NewModel(ctx context.Context, a Authenticator) *Model {
	return &Model{ctx: ctx, auth: a}
}

// Session returns the session after a successful login.
func (m *Model) Session() (auth.Session, bool) {
	return m.session, m.loggedIn
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
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == screenMenu {
			return m.updateMenu(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menu)-1 {
			m.menuIndex++
		}
	case "enter", " ":
		item := menu[m.menuIndex]
		if item.screen == screenMenu {
			return m, tea.Quit
		}
		m.notice = ""
		return m, m.openForm(item.screen, item.role)
	}
	return m, nil
}

func (m *Model) openForm(s screen, role model.Role) tea.Cmd {
	m.screen = s
	m.role = role
	m.formError = ""
	id := newInput("ID: ", "")
	password := newInput("Password: ", "")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	m.inputs = []textinput.Model{id, password}
	if s == screenSignUp {
		m.inputs = append(m.inputs, newInput("Full name: ", ""))
		if role == model.RoleStudent {
			m.inputs = append(m.inputs,
				newInput("Grade: ", "10"),
				newInput("Class: ", "B"),
				newInput("Gender: ", "female, male or other"),
				newInput("Age: ", ""),
			)
		} else {
			admin := newInput("Admin code: ", "")
			admin.EchoMode = textinput.EchoPassword
			admin.EchoCharacter = '•'
			m.inputs = append(m.inputs, newInput("Subject: ", "English"), admin)
		}
	}
	m.updateLayout()
	return m.setInputIndex(0)
}

func newInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 120
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) updateLayout() {
	for i := range m.inputs {
		promptWidth := lipgloss.Width(m.inputs[i].Prompt)
		m.inputs[i].Width = theme.MaxInt(10, theme.ModalInnerWidth(m.width)-promptWidth-1)
	}
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.screen = screenMenu
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		if m.inputIndex < len(m.inputs)-1 {
			return m, m.setInputIndex(m.inputIndex + 1)
		}
		return m.submit()
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

func (m *Model) value(i int) string {
	return m.inputs[i].Value()
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.screen == screenLogin {
		sess, err := m.auth.Login(m.ctx, m.role, m.value(fieldID), m.value(fieldPassword))
		if err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.session = sess
		m.loggedIn = true
		return m, tea.Quit
	}
	if err := m.signUp(); err != nil {
		m.formError = err.Error()
		return m, nil
	}
	id := strings.TrimSpace(m.value(fieldID))
	cmd := m.openForm(screenLogin, m.role)
	m.inputs[fieldID].SetValue(id)
	m.notice = "Account created. Please log in."
	return m, tea.Batch(cmd, m.setInputIndex(fieldPassword))
}

func (m *Model) signUp() error {
	if m.role == model.RoleTeacher {
		return m.auth.SignUpTeacher(m.ctx, auth.TeacherSignUp{
			ID:        m.value(fieldID),
			Password:  m.value(fieldPassword),
			FullName:  m.value(fieldFullName),
			Subject:   m.value(3),
			AdminCode: m.value(4),
		})
	}
	ageText := strings.TrimSpace(m.value(6))
	age := 0
	if ageText != "" {
		parsed, err := strconv.Atoi(ageText)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("age must be a positive number")
		}
		age = parsed
	}
	return m.auth.SignUpStudent(m.ctx, auth.StudentSignUp{
		ID:       m.value(fieldID),
		Password: m.value(fieldPassword),
		FullName: m.value(fieldFullName),
		Grade:    m.value(3),
		Class:    m.value(4),
		Gender:   m.value(5),
		Age:      age,
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var body string
	if m.screen == screenMenu {
		body = m.renderMenu()
	} else {
		body = m.renderForm()
	}
	return theme.FitLines(theme.Modal(body, m.width, m.height), m.width, m.height)
}

func (m *Model) renderMenu() string {
	lines := []string{
		theme.TitleStyle.Render("Reading Assessment"),
		theme.MutedStyle.Render("Adaptive reading comprehension tests"),
		"",
	}
	for i, item := range menu {
		if i == m.menuIndex {
			lines = append(lines, menuCursorStyle.Render("▸ "+item.label))
		} else {
			lines = append(lines, menuItemStyle.Render("  "+item.label))
		}
	}
	lines = append(lines, "", theme.HeaderStyle.Render("up/down: move  enter: choose  q: quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderForm() string {
	title := fmt.Sprintf("Log in as %s", m.role)
	if m.screen == screenSignUp {
		title = fmt.Sprintf("Sign up as %s", m.role)
	}
	lines := []string{theme.TitleStyle.Render(title), ""}
	if m.notice != "" {
		lines = append(lines, theme.SuccessStyle.Render(m.notice), "")
	}
	for _, input := range m.inputs {
		lines = append(lines, input.View())
	}
	if m.formError != "" {
		lines = append(lines, "", theme.ErrorStyle.Render(m.formError))
	}
	lines = append(lines, "", theme.HeaderStyle.Render("tab: next field  enter: next/submit  esc: back"))
	return strings.Join(lines, "\n")
}
