// Package main provides the CLI entrypoint for tuiassess.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiassess/internal/app"
	"github.com/verte-zerg/tuiassess/internal/auth"
	"github.com/verte-zerg/tuiassess/internal/bank"
	"github.com/verte-zerg/tuiassess/internal/config"
	"github.com/verte-zerg/tuiassess/internal/logging"
	"github.com/verte-zerg/tuiassess/internal/store"
)

var (
	rootBank     string
	rootLogLevel string
	rootColor    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuiassess",
		Short:         "Adaptive reading comprehension assessments in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runInteractiveCmd,
	}
	rootCmd.PersistentFlags().StringVar(&rootBank, "bank", "", "YAML question bank (default: built-in bank)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&rootColor, "color", false, "force colored charts")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newTakeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newBankCmd())
	return rootCmd
}

// env holds everything a command needs once config is resolved.
type env struct {
	settings config.Settings
	log      *zap.Logger
	store    *store.Store
	accounts *auth.Service
	app      *app.Service
}

func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	settings := fileCfg.Resolve()
	applyStringConfig(cmd, "bank", &rootBank, fileCfg.Assessment.Bank)
	applyStringConfig(cmd, "log-level", &rootLogLevel, fileCfg.Log.Level)
	settings.BankPath = rootBank
	settings.LogLevel = rootLogLevel
	if err := settings.Validate(); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

func openEnv(cmd *cobra.Command) (*env, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to init logging: %w", err)
	}
	b, err := bank.Load(settings.BankPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	svc, err := app.New(st, app.Options{Bank: b, Logger: logger})
	if err != nil {
		closeStore(st)
		return nil, err
	}
	return &env{
		settings: settings,
		log:      logger,
		store:    st,
		accounts: auth.NewService(st, auth.Options{TeacherCode: settings.TeacherCode, Logger: logger}),
		app:      svc,
	}, nil
}

func (e *env) Close() {
	closeStore(e.store)
	if err := e.log.Sync(); err != nil {
		// Best-effort flush of the log file.
		_ = err
	}
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func runInteractiveCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	return e.app.Run(context.Background(), e.accounts, app.RunOptions{
		DefaultDuration: e.settings.DefaultDuration,
		ForceColor:      rootColor,
	})
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
