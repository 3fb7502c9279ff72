package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

const failedToInitDB = "Failed to initialize database: %v"

func TestNewSQLite(t *testing.T) {
	db := NewSQLite(":memory:")
	if db == nil {
		t.Fatal("Expected non-nil SQLite instance")
	}
	if db.conn != nil {
		t.Error("Expected connection to be nil initially")
	}
	if err := db.Close(); err != nil {
		t.Errorf("Expected closing an unopened database to succeed, got %v", err)
	}
}

func TestSQLiteBasicOperations(t *testing.T) {
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	db := NewSQLite(filepath.Join(t.TempDir(), "admin.db"))
	if err := db.InitDB(); err != nil {
		t.Fatalf(failedToInitDB, err)
	}
	defer db.Close()

	t.Run("kv table exists", func(t *testing.T) {
		var name string
		err := db.Get().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv'").Scan(&name)
		if err != nil {
			t.Fatalf("Expected kv table, got %v", err)
		}
	})

	t.Run("Exec and QueryRow", func(t *testing.T) {
		ctx := context.Background()
		if _, err := db.Exec(ctx, `INSERT INTO kv (scope, key, value) VALUES (?, ?, ?)`, "s1", "token", []byte("abc")); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}

		var value []byte
		if err := db.QueryRow(ctx, `SELECT value FROM kv WHERE scope = ? AND key = ?`, "s1", "token").Scan(&value); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if string(value) != "abc" {
			t.Errorf("Expected 'abc', got %q", value)
		}
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := db.Exec(ctx, `DELETE FROM kv`); err == nil {
			t.Error("Expected cancelled context to abort the statement")
		}
	})

	t.Run("Primary key rejects duplicates", func(t *testing.T) {
		_, err := db.Exec(context.Background(), `INSERT INTO kv (scope, key, value) VALUES (?, ?, ?)`, "s1", "token", []byte("again"))
		if err == nil {
			t.Error("Expected duplicate (scope, key) to fail")
		}
	})

	t.Run("InitDB is idempotent", func(t *testing.T) {
		if _, err := db.Get().Exec(Schema); err != nil {
			t.Errorf("Expected schema to apply twice, got %v", err)
		}
	})
}

func TestSQLiteInMemory(t *testing.T) {
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	db := NewSQLite(":memory:")
	if err := db.InitDB(); err != nil {
		t.Fatalf(failedToInitDB, err)
	}
	defer db.Close()

	if err := db.Get().Ping(); err != nil {
		t.Errorf("Failed to ping database: %v", err)
	}
}
