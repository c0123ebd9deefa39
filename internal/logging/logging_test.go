package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/tuiassess/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	s := config.FileConfig{}.Resolve()
	s.LogPath = filepath.Join(t.TempDir(), "logs", "app.log")
	s.LogLevel = "info"

	log, err := New(s)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Debug("hidden")
	log.Info("result recorded")
	_ = log.Sync()

	data, err := os.ReadFile(s.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"message":"result recorded"`) {
		t.Fatalf("expected info entry in log, got %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry should be filtered at info level")
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	s := config.FileConfig{}.Resolve()
	s.LogPath = filepath.Join(t.TempDir(), "app.log")
	s.LogLevel = "loud"
	if _, err := New(s); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
