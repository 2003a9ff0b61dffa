// Package notes persists free-form key/value notes across tasks and
// sessions.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a note key has no value.
var ErrNotFound = errors.New("note not found")

// Note is one stored key/value pair.
type Note struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Store is a sqlite-backed note store. Keys are unique; setting an existing
// key overwrites its value.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the store at path, preparing parent directories and
// the schema as needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("note store path must be set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare note store dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open note store: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS notes (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init note schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("note key must not be empty")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO notes (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save note %s: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM notes WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load note %s: %w", key, err)
	}
	return value, nil
}

// All returns every note ordered by key.
func (s *Store) All(ctx context.Context) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value, updated_at FROM notes ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.Key, &n.Value, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Delete removes the note under key if present.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", key, err)
	}
	return nil
}

// Path returns the store's database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }
