package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anndream/diucse-alumni-admin/internal/db"
	"github.com/anndream/diucse-alumni-admin/internal/util/compression"
)

type DBKVRepository struct { // implements KVRepository
	db         db.DB
	compressor compression.Compressor
}

func NewDBKVRepository(db db.DB) *DBKVRepository {
	return &DBKVRepository{
		db:         db,
		compressor: compression.ZstdCompressor{},
	}
}

func (r *DBKVRepository) Get(ctx context.Context, scope, key string) (string, error) {
	var blob []byte
	row := r.db.QueryRow(ctx, `SELECT value FROM kv WHERE scope = ? AND key = ?`, scope, key)
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading %s/%s: %w", scope, key, err)
	}

	value, err := r.compressor.Decompress(blob)
	if err != nil {
		return "", fmt.Errorf("decompressing %s/%s: %w", scope, key, err)
	}
	return string(value), nil
}

func (r *DBKVRepository) Set(ctx context.Context, scope, key, value string) error {
	blob, err := r.compressor.Compress([]byte(value))
	if err != nil {
		return fmt.Errorf("compressing %s/%s: %w", scope, key, err)
	}

	_, err = r.db.Exec(ctx, `
INSERT INTO kv (scope, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		scope, key, blob)
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", scope, key, err)
	}

	repoLogger.Debug().Str("scope", scope).Str("key", key).Msg("Value stored")
	return nil
}

func (r *DBKVRepository) Delete(ctx context.Context, scope, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM kv WHERE scope = ? AND key = ?`, scope, key); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", scope, key, err)
	}
	return nil
}
