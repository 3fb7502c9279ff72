// Package db owns the SQLite connection backing the durable key/value store.
package db

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
)

// DB is the subset of *sql.DB the repositories use. Every statement takes the
// request context so a cancelled request stops waiting on a busy database.
type DB interface {
	InitDB() error

	Get() *sql.DB
	Close() error

	QueryRow(ctx context.Context, query string, args ...any) *sql.Row
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var dbLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	dbLogger = l
}
