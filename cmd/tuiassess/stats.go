package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/report"
	"github.com/verte-zerg/tuiassess/internal/stats"
)

const defaultStatsWidth = 100

var reportOut string

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard of the logged-in account",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	sess, err := e.accounts.Resume(context.Background())
	if err != nil {
		return err
	}
	width := stdoutWidth()
	out := os.Stdout
	if sess.Role == model.RoleTeacher {
		r, err := e.app.TeacherReport(context.Background(), *sess.Teacher)
		if err != nil {
			return err
		}
		return renderSections(out,
			func(w io.Writer) error { return stats.RenderTeacherAnalytics(w, r, width, rootColor) },
			func(w io.Writer) error { return stats.RenderTests(w, r) },
			func(w io.Writer) error { return stats.RenderTeacherStudents(w, r) },
		)
	}
	r, err := e.app.StudentReport(context.Background(), *sess.Student)
	if err != nil {
		return err
	}
	return renderSections(out,
		func(w io.Writer) error { return stats.RenderStudentOverview(w, r, width, rootColor) },
		func(w io.Writer) error { return stats.RenderStudentHistory(w, r) },
		func(w io.Writer) error { return stats.RenderStudentProfile(w, r) },
	)
}

func renderSections(w io.Writer, sections ...func(io.Writer) error) error {
	for i, section := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w, ""); err != nil {
				return err
			}
		}
		if err := section(w); err != nil {
			return err
		}
	}
	return nil
}

func stdoutWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultStatsWidth
	}
	return width
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the dashboard as an HTML chart page",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportOut, "out", "tuiassess-report.html", "output HTML file")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) (err error) {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	sess, err := e.accounts.Resume(context.Background())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(reportOut); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	file, err := os.Create(reportOut)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report: %w", cerr)
		}
	}()
	if sess.Role == model.RoleTeacher {
		r, err := e.app.TeacherReport(context.Background(), *sess.Teacher)
		if err != nil {
			return err
		}
		if err := report.WriteTeacher(file, r); err != nil {
			return err
		}
	} else {
		r, err := e.app.StudentReport(context.Background(), *sess.Student)
		if err != nil {
			return err
		}
		if err := report.WriteStudent(file, r); err != nil {
			return err
		}
	}
	fmt.Printf("Report written to %s\n", reportOut)
	return nil
}
