package store

import (
	"context"
	"sync"
)

// MemoryStore keeps constraint sets in process memory. Useful for tests and
// single-run CLI sessions where persistence is not wanted.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]ConstraintSet
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]ConstraintSet)}
}

// Get retrieves a copy of the stored set, or nil, nil when absent.
func (s *MemoryStore) Get(ctx context.Context, modelID string) (*ConstraintSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.sets[modelID]
	if !ok {
		return nil, nil
	}
	out := cs
	out.Records = append([]ConstraintRecord(nil), cs.Records...)
	return &out, nil
}

// Put stores a copy of the set.
func (s *MemoryStore) Put(ctx context.Context, cs *ConstraintSet) error {
	if err := validateSet(cs); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *cs
	stored.Records = append([]ConstraintRecord(nil), cs.Records...)
	s.sets[cs.ModelID] = stored
	return nil
}

// Delete removes the set if present.
func (s *MemoryStore) Delete(ctx context.Context, modelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, modelID)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
