// Package memory keeps archived pages in-process, for tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Store holds archived pages in a map keyed by object key.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty in-memory Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Put records the page under key and returns a memory:// URI.
func (s *Store) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
	return "memory://" + key, nil
}

// Get returns the page stored under key, if any.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Len reports how many objects are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
