package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const slotsSchema = `
CREATE TABLE IF NOT EXISTS slots (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`

// SQLite stores the slot value as one row of a key/value table.
type SQLite struct {
	db  *sql.DB
	key string
}

// OpenSQLiteDB opens (creating if needed) the database at path and makes
// sure the slots table exists. Use ":memory:" for a throwaway database.
func OpenSQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc gives every connection its own :memory: database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, slotsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}
	return db, nil
}

// NewSQLite binds a slot to key in db. The slots table must exist.
func NewSQLite(db *sql.DB, key string) *SQLite {
	return &SQLite{db: db, key: key}
}

// Key returns the row key the slot is bound to.
func (s *SQLite) Key() string { return s.key }

// Load reads the row for the slot key. A missing row is not an error.
func (s *SQLite) Load(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot[%s]: %w", s.key, err)
	}
	return value, nil
}

// Store upserts the row for the slot key.
func (s *SQLite) Store(ctx context.Context, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, s.key, value)
	if err != nil {
		return fmt.Errorf("failed to set slot[%s]: %w", s.key, err)
	}
	return nil
}
