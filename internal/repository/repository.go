// Package repository stores small per-scope values such as the session
// token that sign in hands out.
package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

var ErrNotFound = errors.New("key not found")

// KVRepository is a durable key/value store partitioned by scope. A scope is
// a browser session id or a CLI profile name.
type KVRepository interface {
	Get(ctx context.Context, scope, key string) (string, error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
}
