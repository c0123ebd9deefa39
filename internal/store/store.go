// Package store handles SQLite persistence.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicate is returned when a record with the same key already exists.
	ErrDuplicate = errors.New("record already exists")
	// ErrResultExists is returned when the student already has a result for
	// the test.
	ErrResultExists = errors.New("result already recorded for this test")
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
)

// Store wraps SQLite access for accounts, tests, results and the login session.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps the foreign key pragma and writes on a single handle.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS students (
			id TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			grade TEXT NOT NULL,
			class TEXT NOT NULL,
			gender TEXT NOT NULL,
			age INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS teachers (
			id TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			subject TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tests (
			code TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			title TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			teacher_id TEXT NOT NULL REFERENCES teachers(id),
			teacher_name TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			test_code TEXT NOT NULL,
			test_title TEXT NOT NULL,
			subject TEXT NOT NULL,
			score INTEGER NOT NULL,
			tier TEXT NOT NULL,
			practice_score REAL NOT NULL,
			elapsed_seconds INTEGER NOT NULL,
			completed_at TEXT NOT NULL,
			answers TEXT NOT NULL,
			practice_answers TEXT NOT NULL,
			review TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			role TEXT NOT NULL,
			user_id TEXT NOT NULL,
			logged_in_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tests_teacher ON tests(teacher_id);`,
		`CREATE INDEX IF NOT EXISTS idx_results_student ON results(student_id, completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_results_test ON results(test_code);`,
		`DELETE FROM results WHERE rowid NOT IN (
			SELECT MIN(rowid) FROM results GROUP BY student_id, test_code
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_results_student_test ON results(student_id, test_code);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// isConstraint reports whether err is a primary key or unique violation.
func isConstraint(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// timeLayout keeps nine fractional digits so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}
