package archive

import (
	"context"
	"sync"
)

// MemoryStore keeps objects in memory. Useful for tests and local dev.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore constructs storage.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

// Object returns a copy of the stored bytes for key.
func (s *MemoryStore) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

var _ ObjectStore = (*MemoryStore)(nil)
