package kv

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. It copies values in and out.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string][]byte
	failWrites bool
	writes     int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// FailWrites makes every later Set return ErrWriteRejected while fail is true.
func (m *MemoryStore) FailWrites(fail bool) {
	m.mu.Lock()
	m.failWrites = fail
	m.mu.Unlock()
}

// Writes reports how many Set calls succeeded.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrWriteRejected
	}
	m.entries[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}
