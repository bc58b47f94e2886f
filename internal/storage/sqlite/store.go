// Package sqlite persists custom exercises and logged sets in a single
// SQLite file using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MrWong99/voicelift/internal/exercise"
	"github.com/MrWong99/voicelift/internal/session"
)

// Compile-time interface checks.
var (
	_ exercise.Store  = (*Store)(nil)
	_ session.Journal = (*Store)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS custom_exercises (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name_key   TEXT    NOT NULL UNIQUE,
	name       TEXT    NOT NULL,
	aliases    TEXT    NOT NULL DEFAULT '[]',
	group_id   TEXT    NOT NULL DEFAULT '',
	bodyweight INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS logged_sets (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT    NOT NULL UNIQUE,
	session_id TEXT    NOT NULL,
	exercise   TEXT    NOT NULL,
	weight     REAL    NOT NULL DEFAULT 0,
	reps       INTEGER NOT NULL,
	bodyweight INTEGER NOT NULL DEFAULT 0,
	logged_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_logged_sets_session ON logged_sets(session_id, seq);
`

// Store implements [exercise.Store] and [session.Journal] on SQLite. It is
// safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create database directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	// A single writer keeps SQLITE_BUSY out of the hot path.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// isConstraint reports whether err is a uniqueness violation.
func isConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isBusy reports whether err is one of SQLite's lock contention errors.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// execRetry runs a write, retrying briefly on lock contention from other
// processes sharing the file.
func (s *Store) execRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	const attempts = 3
	var (
		res sql.Result
		err error
	)
	for i := range attempts {
		res, err = s.db.ExecContext(ctx, query, args...)
		if !isBusy(err) {
			return res, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * 50 * time.Millisecond):
		}
	}
	return res, err
}
