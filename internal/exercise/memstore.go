package exercise

import (
	"context"
	"slices"
	"sync"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store].
// It is suitable for tests and throwaway sessions.
// The zero value is ready to use.
type MemStore struct {
	mu   sync.RWMutex
	defs []Definition
}

// NewMemStore returns a [MemStore] seeded with defs.
func NewMemStore(defs ...Definition) *MemStore {
	return &MemStore{defs: slices.Clone(defs)}
}

// Load implements [Store.Load].
func (s *MemStore) Load(ctx context.Context) ([]Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.defs), nil
}

// Save implements [Store.Save].
func (s *MemStore) Save(ctx context.Context, def Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(def.Name) >= 0 {
		return ErrDuplicate
	}
	s.defs = append(s.defs, def)
	return nil
}

// Exists implements [Store.Exists].
func (s *MemStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(name) >= 0, nil
}

func (s *MemStore) indexOf(name string) int {
	k := key(name)
	return slices.IndexFunc(s.defs, func(d Definition) bool { return key(d.Name) == k })
}
