package repository

import (
	"context"
	"sync"
)

type kvKey struct {
	scope, key string
}

// MemoryKVRepository keeps values for the life of the process.
type MemoryKVRepository struct {
	values sync.Map
}

func NewMemoryKVRepository() *MemoryKVRepository {
	return &MemoryKVRepository{}
}

func (m *MemoryKVRepository) Get(_ context.Context, scope, key string) (string, error) {
	if v, ok := m.values.Load(kvKey{scope, key}); ok {
		return v.(string), nil
	}
	return "", ErrNotFound
}

func (m *MemoryKVRepository) Set(_ context.Context, scope, key, value string) error {
	m.values.Store(kvKey{scope, key}, value)
	return nil
}

func (m *MemoryKVRepository) Delete(_ context.Context, scope, key string) error {
	m.values.Delete(kvKey{scope, key})
	return nil
}
