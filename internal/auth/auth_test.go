package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/store"
)

const adminCode = "letmein"

func newService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return NewService(st, Options{
		TeacherCode: adminCode,
		Cost:        bcrypt.MinCost,
		Now:         func() time.Time { return now },
	}), st
}

func ana() StudentSignUp {
	return StudentSignUp{ID: "s1", Password: "pw", FullName: "Ana", Grade: "10", Class: "B", Gender: "female", Age: 15}
}

func TestStudentSignUpAndLogin(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SignUpStudent(ctx, ana()))

	saved, err := st.GetStudent(ctx, "s1")
	require.NoError(t, err)
	require.NotEqual(t, "pw", saved.PasswordHash)

	_, err = svc.Login(ctx, model.RoleStudent, "s1", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = st.LoadSession(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	sess, err := svc.Login(ctx, model.RoleStudent, "s1", "pw")
	require.NoError(t, err)
	require.Equal(t, "s1", sess.UserID())
	require.Equal(t, "Ana", sess.Name())
	require.Nil(t, sess.Teacher)

	resumed, err := svc.Resume(ctx)
	require.NoError(t, err)
	require.Equal(t, model.RoleStudent, resumed.Role)
	require.Equal(t, "10-B", resumed.Student.ClassLabel())

	require.NoError(t, svc.Logout(ctx))
	_, err = svc.Resume(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestStudentSignUpRejectsDuplicateAndMissing(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SignUpStudent(ctx, ana()))

	dup := ana()
	dup.FullName = "Other"
	require.ErrorIs(t, svc.SignUpStudent(ctx, dup), ErrIDTaken)
	saved, err := st.GetStudent(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "Ana", saved.FullName)

	missing := ana()
	missing.ID = "s2"
	missing.Gender = " "
	require.ErrorIs(t, svc.SignUpStudent(ctx, missing), ErrMissingFields)
	missing.Gender = "male"
	missing.Age = 0
	require.ErrorIs(t, svc.SignUpStudent(ctx, missing), ErrMissingFields)

	list, err := st.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTeacherSignUpNeedsAdminCode(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	in := TeacherSignUp{ID: "t1", Password: "pw", FullName: "Mr T", Subject: "English", AdminCode: "wrong"}
	require.ErrorIs(t, svc.SignUpTeacher(ctx, in), ErrInvalidAdminCode)
	_, err := st.GetTeacher(ctx, "t1")
	require.ErrorIs(t, err, store.ErrNotFound)

	in.AdminCode = adminCode
	require.NoError(t, svc.SignUpTeacher(ctx, in))
	require.ErrorIs(t, svc.SignUpTeacher(ctx, in), ErrIDTaken)

	sess, err := svc.Login(ctx, model.RoleTeacher, "t1", "pw")
	require.NoError(t, err)
	require.Equal(t, "Mr T", sess.Name())

	_, err = svc.Login(ctx, model.RoleStudent, "t1", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginMissingFields(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Login(context.Background(), model.RoleStudent, "", "pw")
	require.ErrorIs(t, err, ErrMissingFields)
}
