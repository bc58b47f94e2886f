package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Library combines the core catalog with a custom [Store] and keeps an
// up-to-date [Index] snapshot. Reads are lock-free; Add serialises writers.
type Library struct {
	core  []Definition
	store Store

	mu  sync.Mutex
	idx atomic.Pointer[Index]
}

// NewLibrary loads custom exercises from store and builds the first index.
// A nil store is replaced by an empty [MemStore].
func NewLibrary(ctx context.Context, store Store) (*Library, error) {
	if store == nil {
		store = NewMemStore()
	}
	l := &Library{core: Core(), store: store}
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Index returns the current snapshot. The snapshot is immutable; it stays
// valid after later Adds.
func (l *Library) Index() *Index {
	return l.idx.Load()
}

// Reload re-reads the custom store and rebuilds the index.
func (l *Library) Reload(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	custom, err := l.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("exercise: load custom exercises: %w", err)
	}
	l.idx.Store(NewIndex(l.core, custom))
	return nil
}

// Add validates def, saves it as a custom exercise and publishes a new index.
// Returns [ErrDuplicate] if the name is already known to the library.
func (l *Library) Add(ctx context.Context, def Definition) (Definition, error) {
	if err := Validate(def); err != nil {
		return Definition{}, fmt.Errorf("exercise: %w: %w", ErrInvalid, err)
	}
	def.Origin = OriginCustom

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.idx.Load().Exists(def.Name) {
		return Definition{}, ErrDuplicate
	}
	if err := l.store.Save(ctx, def); err != nil {
		return Definition{}, fmt.Errorf("exercise: save %q: %w", def.Name, err)
	}
	custom, err := l.store.Load(ctx)
	if err != nil {
		return Definition{}, fmt.Errorf("exercise: reload custom exercises: %w", err)
	}
	l.idx.Store(NewIndex(l.core, custom))
	slog.Info("exercise: custom exercise saved", "name", def.Name, "group", def.Group)
	return def, nil
}
