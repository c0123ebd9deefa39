// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Defaults applied when neither the config file nor a flag sets a value.
const (
	DefaultDurationMinutes = 60
	DefaultTeacherCode     = "Amb@ssador#Bench!"
	DefaultLogLevel        = "info"
	DefaultLogMaxSizeMB    = 10
	DefaultLogMaxBackups   = 3
	DefaultLogMaxAgeDays   = 7
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Assessment AssessmentConfig `toml:"assessment"`
	Auth       AuthConfig       `toml:"auth"`
	Log        LogConfig        `toml:"log"`
}

// AssessmentConfig maps test-taking settings.
type AssessmentConfig struct {
	Bank            *string `toml:"bank"`
	DefaultDuration *int    `toml:"default-duration"`
}

// AuthConfig maps account settings.
type AuthConfig struct {
	TeacherCode *string `toml:"teacher-code"`
}

// LogConfig maps log file settings.
type LogConfig struct {
	Path       *string `toml:"path"`
	Level      *string `toml:"level"`
	MaxSize    *int    `toml:"max-size"`
	MaxBackups *int    `toml:"max-backups"`
	MaxAge     *int    `toml:"max-age"`
}

// Settings is the resolved configuration with defaults applied.
type Settings struct {
	BankPath        string
	DefaultDuration int
	TeacherCode     string
	LogPath         string
	LogLevel        string
	LogMaxSize      int
	LogMaxBackups   int
	LogMaxAge       int
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Resolve fills unset values with defaults.
func (c FileConfig) Resolve() Settings {
	s := Settings{
		DefaultDuration: DefaultDurationMinutes,
		TeacherCode:     DefaultTeacherCode,
		LogPath:         DefaultLogPath(),
		LogLevel:        DefaultLogLevel,
		LogMaxSize:      DefaultLogMaxSizeMB,
		LogMaxBackups:   DefaultLogMaxBackups,
		LogMaxAge:       DefaultLogMaxAgeDays,
	}
	setString(&s.BankPath, c.Assessment.Bank)
	setInt(&s.DefaultDuration, c.Assessment.DefaultDuration)
	setString(&s.TeacherCode, c.Auth.TeacherCode)
	setString(&s.LogPath, c.Log.Path)
	setString(&s.LogLevel, c.Log.Level)
	setInt(&s.LogMaxSize, c.Log.MaxSize)
	setInt(&s.LogMaxBackups, c.Log.MaxBackups)
	setInt(&s.LogMaxAge, c.Log.MaxAge)
	return s
}

// Validate rejects settings that cannot work.
func (s Settings) Validate() error {
	if s.DefaultDuration <= 0 {
		return fmt.Errorf("assessment.default-duration must be > 0")
	}
	if s.TeacherCode == "" {
		return fmt.Errorf("auth.teacher-code must not be empty")
	}
	if s.LogMaxSize < 0 || s.LogMaxBackups < 0 || s.LogMaxAge < 0 {
		return fmt.Errorf("log rotation values must be >= 0")
	}
	return nil
}

func setString(target, value *string) {
	if value == nil {
		return
	}
	*target = *value
}

func setInt(target, value *int) {
	if value == nil {
		return
	}
	*target = *value
}

// Template returns the commented config written by `tuiassess config`.
func Template() string {
	return fmt.Sprintf(`# tuiassess configuration
# Uncomment a value to enable it. CLI flags override config values.

[assessment]
# bank = ""                     # YAML question bank; empty uses the built-in bank
# default-duration = %d         # Minutes used when a test is created without --duration

[auth]
# teacher-code = %q   # Admin code required for teacher sign-up

[log]
# path = %q
# level = %q                # debug, info, warn, error
# max-size = %d                 # Megabytes before rotation
# max-backups = %d
# max-age = %d                  # Days
`,
		DefaultDurationMinutes,
		DefaultTeacherCode,
		DefaultLogPath(),
		DefaultLogLevel,
		DefaultLogMaxSizeMB,
		DefaultLogMaxBackups,
		DefaultLogMaxAgeDays,
	)
}
