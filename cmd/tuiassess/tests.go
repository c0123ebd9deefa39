package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiassess/internal/app"
	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/stats"
	"github.com/verte-zerg/tuiassess/internal/theme"
	"github.com/verte-zerg/tuiassess/internal/tui"
)

var (
	testTitle    string
	testSubject  string
	testDuration int
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Manage tests (teachers)",
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a test and print its join code",
		Args:  cobra.NoArgs,
		RunE:  runTestCreateCmd,
	}
	create.Flags().StringVar(&testTitle, "title", "", "test title")
	create.Flags().StringVar(&testSubject, "subject", string(model.SubjectEnglish), "english, science or mathematics")
	create.Flags().IntVar(&testDuration, "duration", 0, "duration in minutes (default from config)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List your tests and their join codes",
		Args:  cobra.NoArgs,
		RunE:  runTestListCmd,
	}
	cmd.AddCommand(create, list)
	return cmd
}

func runTestCreateCmd(cmd *cobra.Command, _ []string) error {
	subject, err := model.ParseSubject(testSubject)
	if err != nil {
		return err
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	sess, err := requireSession(e, model.RoleTeacher)
	if err != nil {
		return err
	}
	minutes := e.settings.DefaultDuration
	if cmd.Flags().Changed("duration") {
		minutes = testDuration
	}
	t, err := e.app.CreateTest(context.Background(), *sess.Teacher, testTitle, subject, minutes)
	if err != nil {
		return err
	}
	fmt.Printf("Created %q (%s, %d min). Join code: %s\n", t.Title, t.Subject.Label(), t.DurationMinutes, t.Code)
	return nil
}

func runTestListCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	sess, err := requireSession(e, model.RoleTeacher)
	if err != nil {
		return err
	}
	report, err := e.app.TeacherReport(context.Background(), *sess.Teacher)
	if err != nil {
		return err
	}
	return stats.RenderTests(os.Stdout, report)
}

func newTakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "take CODE",
		Short: "Take a test by its join code (students)",
		Args:  cobra.ExactArgs(1),
		RunE:  runTakeCmd,
	}
}

func runTakeCmd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	sess, err := requireSession(e, model.RoleStudent)
	if err != nil {
		return err
	}
	ctx := context.Background()
	session, err := e.app.StartTest(ctx, *sess.Student, args[0])
	if err != nil {
		return err
	}
	final, err := app.RunProgram(ctx, tui.NewModel(ctx, session, e.log))
	if err != nil {
		session.Abandon()
		return err
	}
	tm, ok := final.(*tui.Model)
	if ok && tm.Outcome() == tui.OutcomeRejected {
		return app.ErrTestAlreadyTaken
	}
	if !ok || tm.Outcome() != tui.OutcomeSubmitted {
		session.Abandon()
		fmt.Println("Assessment abandoned. Nothing was recorded.")
		return nil
	}
	r := tm.Result()
	fmt.Printf("Submitted %s: score %d%%, level %s, time %s.\n", r.TestCode, r.Score, r.Tier, theme.FormatClock(r.ElapsedSeconds))
	return nil
}
