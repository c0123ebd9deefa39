package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiassess/internal/auth"
	"github.com/verte-zerg/tuiassess/internal/dashboard"
	"github.com/verte-zerg/tuiassess/internal/loginui"
	"github.com/verte-zerg/tuiassess/internal/model"
	"github.com/verte-zerg/tuiassess/internal/tui"
)

// Runner runs one screen until it quits and returns its final model.
type Runner func(ctx context.Context, m tea.Model) (tea.Model, error)

// RunOptions configures the interactive loop.
type RunOptions struct {
	DefaultDuration int
	ForceColor      bool
	// Runner defaults to a full-screen Bubble Tea program.
	Runner Runner
}

// RunProgram runs m as a full-screen Bubble Tea program.
func RunProgram(ctx context.Context, m tea.Model) (tea.Model, error) {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run TUI: %w", err)
	}
	return final, nil
}

// Run drives the login, dashboard and assessment screens until the user quits.
func (s *Service) Run(ctx context.Context, accounts *auth.Service, opts RunOptions) error {
	run := opts.Runner
	if run == nil {
		run = RunProgram
	}
	sess, err := accounts.Resume(ctx)
	loggedIn := err == nil
	if err != nil && !errors.Is(err, auth.ErrNotLoggedIn) {
		return err
	}
	for {
		if !loggedIn {
			final, err := run(ctx, loginui.NewModel(ctx, accounts))
			if err != nil {
				return err
			}
			lm, ok := final.(*loginui.Model)
			if !ok {
				return fmt.Errorf("unexpected login model %T", final)
			}
			if sess, loggedIn = lm.Session(); !loggedIn {
				return nil
			}
		}

		final, err := run(ctx, dashboard.NewModel(ctx, s, sess, dashboard.Options{
			DefaultDuration: opts.DefaultDuration,
			Logger:          s.log,
			ForceColor:      opts.ForceColor,
		}))
		if err != nil {
			return err
		}
		dm, ok := final.(*dashboard.Model)
		if !ok {
			return fmt.Errorf("unexpected dashboard model %T", final)
		}
		switch dm.Action() {
		case dashboard.ActionQuit:
			return nil
		case dashboard.ActionLogout:
			if err := accounts.Logout(ctx); err != nil {
				return err
			}
			loggedIn = false
		case dashboard.ActionStartTest:
			if sess.Role != model.RoleStudent || sess.Student == nil {
				continue
			}
			if err := s.takeTest(ctx, run, *sess.Student, dm.Test().Code); err != nil {
				return err
			}
		}
	}
}

func (s *Service) takeTest(ctx context.Context, run Runner, student model.Student, code string) error {
	session, err := s.StartTest(ctx, student, code)
	if err != nil {
		// The dashboard already checked the code; a race with another
		// attempt lands here and the student is returned to the dashboard.
		s.log.Warn("failed to start test", zap.String("code", code), zap.Error(err))
		return nil
	}
	final, err := run(ctx, tui.NewModel(ctx, session, s.log))
	if err != nil {
		session.Abandon()
		return err
	}
	if tm, ok := final.(*tui.Model); !ok || tm.Outcome() == tui.OutcomePending {
		session.Abandon()
	}
	return nil
}
