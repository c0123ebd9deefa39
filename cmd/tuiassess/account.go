package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiassess/internal/auth"
	"github.com/verte-zerg/tuiassess/internal/model"
)

var (
	signupID        string
	signupName      string
	signupGrade     string
	signupClass     string
	signupGender    string
	signupAge       int
	signupSubject   string
	signupAdminCode string

	loginRole string
	loginID   string
)

var stdinReader = bufio.NewReader(os.Stdin)

func newSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a student or teacher account",
	}
	student := &cobra.Command{
		Use:   "student",
		Short: "Create a student account",
		Args:  cobra.NoArgs,
		RunE:  runSignupStudentCmd,
	}
	student.Flags().StringVar(&signupID, "id", "", "student ID")
	student.Flags().StringVar(&signupName, "name", "", "full name")
	student.Flags().StringVar(&signupGrade, "grade", "", "grade")
	student.Flags().StringVar(&signupClass, "class", "", "class")
	student.Flags().StringVar(&signupGender, "gender", "", "gender")
	student.Flags().IntVar(&signupAge, "age", 0, "age")

	teacher := &cobra.Command{
		Use:   "teacher",
		Short: "Create a teacher account (requires the admin code)",
		Args:  cobra.NoArgs,
		RunE:  runSignupTeacherCmd,
	}
	teacher.Flags().StringVar(&signupID, "id", "", "teacher ID")
	teacher.Flags().StringVar(&signupName, "name", "", "full name")
	teacher.Flags().StringVar(&signupSubject, "subject", "", "subject taught")
	teacher.Flags().StringVar(&signupAdminCode, "admin-code", "", "admin code (prompted when empty)")

	cmd.AddCommand(student, teacher)
	return cmd
}

func runSignupStudentCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	password, err := readSecret("Password: ")
	if err != nil {
		return err
	}
	err = e.accounts.SignUpStudent(context.Background(), auth.StudentSignUp{
		ID:       signupID,
		Password: password,
		FullName: signupName,
		Grade:    signupGrade,
		Class:    signupClass,
		Gender:   signupGender,
		Age:      signupAge,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Student %s created. Log in with: tuiassess login --role student --id %s\n", signupID, signupID)
	return nil
}

func runSignupTeacherCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	password, err := readSecret("Password: ")
	if err != nil {
		return err
	}
	adminCode := signupAdminCode
	if adminCode == "" {
		if adminCode, err = readSecret("Admin code: "); err != nil {
			return err
		}
	}
	err = e.accounts.SignUpTeacher(context.Background(), auth.TeacherSignUp{
		ID:        signupID,
		Password:  password,
		FullName:  signupName,
		Subject:   signupSubject,
		AdminCode: adminCode,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Teacher %s created. Log in with: tuiassess login --role teacher --id %s\n", signupID, signupID)
	return nil
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE:  runLoginCmd,
	}
	cmd.Flags().StringVar(&loginRole, "role", string(model.RoleStudent), "student or teacher")
	cmd.Flags().StringVar(&loginID, "id", "", "account ID")
	return cmd
}

func runLoginCmd(cmd *cobra.Command, _ []string) error {
	role, err := model.ParseRole(loginRole)
	if err != nil {
		return err
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	password, err := readSecret("Password: ")
	if err != nil {
		return err
	}
	sess, err := e.accounts.Login(context.Background(), role, loginID, password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s).\n", sess.Name(), sess.Role)
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.accounts.Logout(context.Background()); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			sess, err := e.accounts.Resume(context.Background())
			if errors.Is(err, auth.ErrNotLoggedIn) {
				fmt.Println("Not logged in.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s %s (%s)\n", sess.Role, sess.UserID(), sess.Name())
			return nil
		},
	}
}

// requireSession resumes the saved session and checks its role.
func requireSession(e *env, role model.Role) (auth.Session, error) {
	sess, err := e.accounts.Resume(context.Background())
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return auth.Session{}, fmt.Errorf("not logged in; run: tuiassess login --role %s --id <id>", role)
	}
	if err != nil {
		return auth.Session{}, err
	}
	if sess.Role != role {
		return auth.Session{}, fmt.Errorf("this command needs a %s account (logged in as %s)", role, sess.Role)
	}
	return sess, nil
}

// readSecret prompts without echo on a terminal and reads a line otherwise.
func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		logErrf("%s", prompt)
		b, err := term.ReadPassword(fd)
		logErrf("\n")
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(b), nil
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
