package store

import (
	"context"
	"sync"
)

// MemoryStore keeps renders in process memory. It backs single-instance
// deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	renders map[string]Render
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{renders: make(map[string]Render)}
}

// Save stores a render, replacing any previous render under the same hash.
func (s *MemoryStore) Save(ctx context.Context, r Render) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders[r.Hash] = r
	return nil
}

// Get returns the render stored under hash, or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, hash string) (Render, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.renders[hash]
	if !ok {
		return Render{}, ErrNotFound
	}
	return r, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
