package testing

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an in-memory key/value store satisfying [state.Store].
//
// Err, when set, is returned by every call.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	Err    error
}

// NewMemoryStore creates a store seeded with values.
func NewMemoryStore(values map[string]string) *MemoryStore {
	s := &MemoryStore{values: make(map[string]string)}
	maps.Copy(s.values, values)
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", false, s.Err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Snapshot returns a copy of the stored values.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values)
}
