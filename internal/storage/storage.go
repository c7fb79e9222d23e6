package storage

import (
	"context"
	"errors"
	"sync"
)

// KeyValueStore defines the interface for the persisted session record.
// Implementations hold raw bytes under a key; encoding is the caller's concern.
type KeyValueStore interface {
	// Get returns the value stored under key, or ErrObjectNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Error constants for storage layer
var (
	ErrObjectNotFound = errors.New("object not found in storage")
)

// memoryStore keeps values in process memory. Used by tests and by the
// "memory" session backend.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() KeyValueStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
