// Package auth signs accounts up, checks credentials and tracks who is
// logged in.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/store"
)

var (
	// ErrMissingFields is returned when a form leaves a required field empty.
	ErrMissingFields = errors.New("please fill in all fields")
	// ErrInvalidCredentials is returned for an unknown ID or a wrong password.
	ErrInvalidCredentials = errors.New("invalid ID or password")
	// ErrInvalidAdminCode is returned when teacher sign-up carries a wrong admin code.
	ErrInvalidAdminCode = errors.New("invalid admin code")
	// ErrNotLoggedIn is returned when no saved session exists.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrIDTaken is returned when sign-up reuses an existing ID.
	ErrIDTaken = errors.New("ID already exists")
)

// Accounts is the storage the service needs.
type Accounts interface {
	CreateStudent(ctx context.Context, s model.Student) error
	GetStudent(ctx context.Context, id string) (model.Student, error)
	CreateTeacher(ctx context.Context, t model.Teacher) error
	GetTeacher(ctx context.Context, id string) (model.Teacher, error)
	SaveSession(ctx context.Context, rec store.SessionRecord) error
	LoadSession(ctx context.Context) (store.SessionRecord, error)
	ClearSession(ctx context.Context) error
}

// Options configures a Service.
type Options struct {
	// TeacherCode is the admin code required for teacher sign-up.
	TeacherCode string
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost   int
	Logger *zap.Logger
	Now    func() time.Time
}

// Service implements sign-up, login and logout.
type Service struct {
	accounts    Accounts
	teacherCode string
	cost        int
	log         *zap.Logger
	now         func() time.Time
}

// NewService builds a Service on top of accounts.
func NewService(accounts Accounts, opts Options) *Service {
	if opts.Cost == 0 {
		opts.Cost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		accounts:    accounts,
		teacherCode: opts.TeacherCode,
		cost:        opts.Cost,
		log:         opts.Logger,
		now:         opts.Now,
	}
}

// Session is the logged-in account. Exactly one of Student and Teacher is set.
type Session struct {
	Role    model.Role
	Student *model.Student
	Teacher *model.Teacher
}

// UserID returns the ID of the logged-in account.
func (s Session) UserID() string {
	if s.Student != nil {
		return s.Student.ID
	}
	if s.Teacher != nil {
		return s.Teacher.ID
	}
	return ""
}

// Name returns the full name of the logged-in account.
func (s Session) Name() string {
	if s.Student != nil {
		return s.Student.FullName
	}
	if s.Teacher != nil {
		return s.Teacher.FullName
	}
	return ""
}

// StudentSignUp is the student registration form.
type StudentSignUp struct {
	ID       string
	Password string
	FullName string
	Grade    string
	Class    string
	Gender   string
	Age      int
}

// TeacherSignUp is the teacher registration form.
type TeacherSignUp struct {
	ID        string
	Password  string
	FullName  string
	Subject   string
	AdminCode string
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// SignUpStudent creates a student account. The caller logs in separately.
func (s *Service) SignUpStudent(ctx context.Context, in StudentSignUp) error {
	if blank(in.ID, in.Password, in.FullName, in.Grade, in.Class, in.Gender) || in.Age <= 0 {
		return ErrMissingFields
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return err
	}
	err = s.accounts.CreateStudent(ctx, model.Student{
		ID:           strings.TrimSpace(in.ID),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Grade:        strings.TrimSpace(in.Grade),
		Class:        strings.TrimSpace(in.Class),
		Gender:       strings.TrimSpace(in.Gender),
		Age:          in.Age,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("student %w", ErrIDTaken)
	}
	if err != nil {
		return err
	}
	s.log.Info("student signed up", zap.String("student", in.ID))
	return nil
}

// SignUpTeacher creates a teacher account after checking the admin code.
func (s *Service) SignUpTeacher(ctx context.Context, in TeacherSignUp) error {
	if blank(in.ID, in.Password, in.FullName, in.Subject) {
		return ErrMissingFields
	}
	if subtle.ConstantTimeCompare([]byte(in.AdminCode), []byte(s.teacherCode)) != 1 {
		s.log.Warn("teacher sign-up rejected", zap.String("teacher", in.ID))
		return ErrInvalidAdminCode
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return err
	}
	err = s.accounts.CreateTeacher(ctx, model.Teacher{
		ID:           strings.TrimSpace(in.ID),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Subject:      strings.TrimSpace(in.Subject),
		CreatedAt:    s.now(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("teacher %w", ErrIDTaken)
	}
	if err != nil {
		return err
	}
	s.log.Info("teacher signed up", zap.String("teacher", in.ID))
	return nil
}

// Login checks credentials, saves the session and returns it.
func (s *Service) Login(ctx context.Context, role model.Role, id, password string) (Session, error) {
	id = strings.TrimSpace(id)
	if blank(id, password) {
		return Session{}, ErrMissingFields
	}
	var sess Session
	var hash string
	switch role {
	case model.RoleStudent:
		st, err := s.accounts.GetStudent(ctx, id)
		if err != nil {
			return Session{}, s.loginLookupErr(err, role, id)
		}
		sess = Session{Role: role, Student: &st}
		hash = st.PasswordHash
	case model.RoleTeacher:
		t, err := s.accounts.GetTeacher(ctx, id)
		if err != nil {
			return Session{}, s.loginLookupErr(err, role, id)
		}
		sess = Session{Role: role, Teacher: &t}
		hash = t.PasswordHash
	default:
		return Session{}, fmt.Errorf("unknown role %q", role)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		s.log.Warn("login rejected", zap.String("role", string(role)), zap.String("user", id))
		return Session{}, ErrInvalidCredentials
	}
	if err := s.accounts.SaveSession(ctx, store.SessionRecord{Role: role, UserID: id, LoggedInAt: s.now()}); err != nil {
		return Session{}, err
	}
	s.log.Info("logged in", zap.String("role", string(role)), zap.String("user", id))
	return sess, nil
}

func (s *Service) loginLookupErr(err error, role model.Role, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		s.log.Warn("login rejected", zap.String("role", string(role)), zap.String("user", id))
		return ErrInvalidCredentials
	}
	return err
}

// Resume restores the saved session. ErrNotLoggedIn means nobody is logged in
// or the saved account no longer exists.
func (s *Service) Resume(ctx context.Context) (Session, error) {
	rec, err := s.accounts.LoadSession(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrNotLoggedIn
	}
	if err != nil {
		return Session{}, err
	}
	switch rec.Role {
	case model.RoleStudent:
		st, err := s.accounts.GetStudent(ctx, rec.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrNotLoggedIn
		}
		if err != nil {
			return Session{}, err
		}
		return Session{Role: rec.Role, Student: &st}, nil
	case model.RoleTeacher:
		t, err := s.accounts.GetTeacher(ctx, rec.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrNotLoggedIn
		}
		if err != nil {
			return Session{}, err
		}
		return Session{Role: rec.Role, Teacher: &t}, nil
	}
	return Session{}, ErrNotLoggedIn
}

// Logout clears the saved session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.accounts.ClearSession(ctx); err != nil {
		return err
	}
	s.log.Info("logged out")
	return nil
}
