package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/tuiassess/internal/model"
)

// SessionRecord is the persisted "who is logged in" row.
type SessionRecord struct {
	Role       model.Role
	UserID     string
	LoggedInAt time.Time
}

// SaveSession replaces the current login session.
func (s *Store) SaveSession(ctx context.Context, rec SessionRecord) error {
	if rec.UserID == "" {
		return fmt.Errorf("%w: session user id", model.ErrMissingField)
	}
	if _, err := model.ParseRole(string(rec.Role)); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, role, user_id, logged_in_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET role = excluded.role, user_id = excluded.user_id, logged_in_at = excluded.logged_in_at`,
		string(rec.Role), rec.UserID, formatTime(rec.LoggedInAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadSession returns the saved login session or ErrNotFound.
func (s *Store) LoadSession(ctx context.Context) (SessionRecord, error) {
	var rec SessionRecord
	var role, loggedInAt string
	err := s.db.QueryRowContext(ctx, `SELECT role, user_id, logged_in_at FROM session WHERE id = 1`).
		Scan(&role, &rec.UserID, &loggedInAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, ErrNotFound
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("failed to load session: %w", err)
	}
	rec.Role = model.Role(role)
	if rec.LoggedInAt, err = parseTime(loggedInAt); err != nil {
		return SessionRecord{}, err
	}
	return rec, nil
}

// ClearSession removes the saved login session. Clearing twice is fine.
func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
