package loginui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/crypto/bcrypt"

	"github.com/verte-zerg/tuiassess/internal/auth"
	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/store"
)

func newAuth(t *testing.T) *auth.Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "login.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return auth.NewService(st, auth.Options{TeacherCode: "letmein", Cost: bcrypt.MinCost})
}

func newSized(a Authenticator) *Model {
	m := NewModel(context.Background(), a)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func press(m *Model, t tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: t})
	return cmd
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// fill types values into consecutive fields starting at the focused one.
func fill(m *Model, values ...string) {
	for i, v := range values {
		typeText(m, v)
		if i < len(values)-1 {
			press(m, tea.KeyTab)
		}
	}
}

func chooseMenu(m *Model, index int) {
	for i := 0; i < index; i++ {
		press(m, tea.KeyDown)
	}
	press(m, tea.KeyEnter)
}

func TestStudentSignUpThenLogin(t *testing.T) {
	m := newSized(newAuth(t))
	chooseMenu(m, 2)
	if m.screen != screenSignUp || m.role != model.RoleStudent {
		t.Fatalf("expected student sign-up form")
	}
	fill(m, "s1", "pw", "Ana Lee", "10", "B", "female", "15")
	press(m, tea.KeyEnter)
	if m.formError != "" {
		t.Fatalf("unexpected sign-up error: %s", m.formError)
	}
	if m.screen != screenLogin || m.inputs[fieldID].Value() != "s1" {
		t.Fatalf("expected login form prefilled with the new ID")
	}
	if m.inputIndex != fieldPassword {
		t.Fatalf("expected password field focused, got %d", m.inputIndex)
	}

	typeText(m, "pw")
	cmd := press(m, tea.KeyEnter)
	sess, ok := m.Session()
	if !ok || cmd == nil {
		t.Fatalf("expected successful login")
	}
	if sess.Role != model.RoleStudent || sess.Name() != "Ana Lee" {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	a := newAuth(t)
	if err := a.SignUpStudent(context.Background(), auth.StudentSignUp{ID: "s1", Password: "pw", FullName: "Ana", Grade: "10", Class: "B", Gender: "female", Age: 15}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	m := newSized(a)
	chooseMenu(m, 0)
	fill(m, "s1", "nope")
	press(m, tea.KeyEnter)
	if _, ok := m.Session(); ok {
		t.Fatalf("login must fail")
	}
	if !strings.Contains(m.View(), auth.ErrInvalidCredentials.Error()) {
		t.Fatalf("expected credentials error in view")
	}
}

func TestTeacherSignUpNeedsAdminCode(t *testing.T) {
	m := newSized(newAuth(t))
	chooseMenu(m, 3)
	fill(m, "t1", "pw", "Ms Reed", "English", "wrong")
	press(m, tea.KeyEnter)
	if m.formError != auth.ErrInvalidAdminCode.Error() {
		t.Fatalf("expected admin code error, got %q", m.formError)
	}
	m.inputs[4].SetValue("letmein")
	press(m, tea.KeyEnter)
	if m.screen != screenLogin || m.role != model.RoleTeacher {
		t.Fatalf("expected teacher login after sign-up, error %q", m.formError)
	}
}

func TestStudentSignUpRejectsBadAge(t *testing.T) {
	m := newSized(newAuth(t))
	chooseMenu(m, 2)
	fill(m, "s1", "pw", "Ana", "10", "B", "female", "abc")
	press(m, tea.KeyEnter)
	if !strings.Contains(m.formError, "age") {
		t.Fatalf("expected age error, got %q", m.formError)
	}
}

func TestEscReturnsToMenuAndQuit(t *testing.T) {
	m := newSized(newAuth(t))
	chooseMenu(m, 0)
	press(m, tea.KeyEsc)
	if m.screen != screenMenu {
		t.Fatalf("expected menu")
	}
	chooseMenu(m, len(menu)-1)
	if _, ok := m.Session(); ok {
		t.Fatalf("quit must not log in")
	}
}
