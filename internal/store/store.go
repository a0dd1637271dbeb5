// Package store handles SQLite persistence.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/verte-zerg/flourish/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so completed_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a completion does not exist.
var ErrNotFound = errors.New("completion not found")

// Store wraps SQLite access for completion data.
type Store struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
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
	store := &Store{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}
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
		`CREATE TABLE IF NOT EXISTS completions (
			id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			exercise TEXT NOT NULL,
			category TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_user_completed_at ON completions(user_id, completed_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertCompletion stores a completion and returns its ID. A new ULID is
// assigned when rec.ID is empty.
func (s *Store) InsertCompletion(ctx context.Context, rec model.CompletionRecord) (string, error) {
	if rec.UserID == "" {
		return "", fmt.Errorf("completion has no user")
	}
	if rec.ID == "" {
		rec.ID = s.newID(rec.CompletedAt)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO completions (id, user_id, exercise, category, completed_at, duration_seconds, notes, rating)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.UserID,
		rec.Exercise,
		rec.Category,
		rec.CompletedAt.UTC().Format(timeLayout),
		rec.DurationSeconds,
		rec.Notes,
		rec.Rating,
	)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// InsertCompletions stores a batch in one transaction and returns how many
// rows were added. Records whose ID the user already has are left untouched.
func (s *Store) InsertCompletions(ctx context.Context, recs []model.CompletionRecord) (n int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO completions (id, user_id, exercise, category, completed_at, duration_seconds, notes, rating)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, rec := range recs {
		if rec.UserID == "" {
			err = fmt.Errorf("completion has no user")
			return 0, err
		}
		if rec.ID == "" {
			rec.ID = s.newID(rec.CompletedAt)
		}
		res, execErr := stmt.ExecContext(ctx, rec.ID, rec.UserID, rec.Exercise, rec.Category,
			rec.CompletedAt.UTC().Format(timeLayout), rec.DurationSeconds, rec.Notes, rec.Rating)
		if execErr != nil {
			err = execErr
			return 0, err
		}
		added, affErr := res.RowsAffected()
		if affErr != nil {
			err = affErr
			return 0, err
		}
		n += int(added)
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// ListCompletions returns a user's completions, newest first. limit <= 0
// returns all of them. Rows with an unreadable timestamp come back with a
// zero CompletedAt.
func (s *Store) ListCompletions(ctx context.Context, userID string, limit int) ([]model.CompletionRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, exercise, category, completed_at, duration_seconds, notes, rating
		 FROM completions
		 WHERE user_id = ?
		 ORDER BY completed_at DESC, id DESC
		 LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.CompletionRecord
	for rows.Next() {
		var rec model.CompletionRecord
		var completedAt string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Exercise, &rec.Category, &completedAt,
			&rec.DurationSeconds, &rec.Notes, &rec.Rating); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, completedAt); err == nil {
			rec.CompletedAt = parsed
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteCompletion removes one of a user's completions.
func (s *Store) DeleteCompletion(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM completions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) newID(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}
