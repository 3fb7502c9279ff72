package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Schema holds one row per (scope, key). A scope is a browser session id or
// the name of a CLI profile; values are opaque compressed blobs.
const Schema = `
CREATE TABLE IF NOT EXISTS kv (
    scope TEXT NOT NULL,
    key TEXT NOT NULL,
    value BLOB NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (scope, key)
);

CREATE INDEX IF NOT EXISTS kv_updated_at ON kv (updated_at);`

type SQLite struct {
	path string
	conn *sql.DB
}

// NewSQLite prepares a database at path. ":memory:" is accepted for tests.
func NewSQLite(path string) *SQLite {
	return &SQLite{
		path: path,
		conn: nil,
	}
}

func (s *SQLite) InitDB() error {
	var err error
	s.conn, err = sql.Open("sqlite3", s.path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	// A single connection keeps ":memory:" databases alive and serialises
	// writers the way SQLite wants anyway.
	s.conn.SetMaxOpenConns(1)

	if _, err := s.conn.Exec(Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	dbLogger.Info().Str("path", s.path).Msg("Database initialized")
	return nil
}

func (s *SQLite) Get() *sql.DB {
	return s.conn
}

func (s *SQLite) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *SQLite) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	dbLogger.Debug().Str("query", query).Msg("QueryRow")
	return s.conn.QueryRowContext(ctx, query, args...)
}

func (s *SQLite) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	dbLogger.Debug().Str("query", query).Msg("Exec")
	return s.conn.ExecContext(ctx, query, args...)
}
