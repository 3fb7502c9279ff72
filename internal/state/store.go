// Package state provides a small observable value container used by the
// editors to publish drafts and collections to whoever renders them.
package state

import "sync"

// Store holds a single value of type T. Readers get the current value,
// writers replace it, and subscribers are told about every replacement.
type Store[T any] struct {
	mu    sync.RWMutex
	value T

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(T)
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{
		value: initial,
		subs:  make(map[int]func(T)),
	}
}

func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()

	s.notify(v)
}

// Update applies fn to the current value under the write lock and stores the
// result. Subscribers run after the lock is released.
func (s *Store[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	next := fn(s.value)
	s.value = next
	s.mu.Unlock()

	s.notify(next)
	return next
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store[T]) Subscribe(fn func(T)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store[T]) notify(v T) {
	s.subMu.Lock()
	fns := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
