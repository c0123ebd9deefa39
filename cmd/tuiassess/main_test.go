package main

import (
	"path/filepath"
	"testing"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"config", "signup", "login", "logout", "whoami", "test", "take", "stats", "report", "bank"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("missing command %q: %v", name, err)
		}
	}
}

func TestBankExportThenCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")

	root := newRootCmd()
	root.SetArgs([]string{"bank", "export", "--out", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	root = newRootCmd()
	root.SetArgs([]string{"bank", "check", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestBankCheckRejectsMissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"bank", "check", filepath.Join(t.TempDir(), "missing.yaml")})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for missing bank")
	}
}
