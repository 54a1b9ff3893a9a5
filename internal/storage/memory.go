package storage

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore keeps blobs in memory. Fail forces every Upload to error.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	types map[string]string
	Base  string
	Fail  error
}

func NewMemoryStore(base string) *MemoryStore {
	return &MemoryStore{blobs: map[string][]byte{}, types: map[string]string{}, Base: base}
}

func (m *MemoryStore) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return "", m.Fail
	}
	if key == "" {
		return "", errors.New("empty key")
	}
	m.blobs[key] = append([]byte(nil), data...)
	m.types[key] = contentType
	return m.Base + "/" + key, nil
}

func (m *MemoryStore) PublicURL(key string) string { return m.Base + "/" + key }

// Get returns the stored bytes for key.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	return b, ok
}

// Keys returns the number of stored blobs.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
