package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mrryf/thesisweb/internal/db"
)

// SQLite stores keys in the kv table of a local database.
type SQLite struct {
	db *db.DB
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(path string) (*SQLite, error) {
	d, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	return &SQLite{db: d}, nil
}

// NewSQLite wraps an already open database.
func NewSQLite(d *db.DB) *SQLite {
	return &SQLite{db: d}
}

func (s *SQLite) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLite) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing key %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
