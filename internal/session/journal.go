package session

import (
	"context"
	"slices"
	"sync"

	"github.com/MrWong99/voicelift/internal/workout"
)

// Journal persists committed sets per session.
//
// All implementations must be safe for concurrent use.
type Journal interface {
	// Append stores set under sessionID.
	Append(ctx context.Context, sessionID string, set workout.LoggedSet) error

	// List returns the sets of sessionID, oldest first. An unknown session
	// yields an empty slice.
	List(ctx context.Context, sessionID string) ([]workout.LoggedSet, error)
}

// Compile-time assertion that MemJournal satisfies the Journal interface.
var _ Journal = (*MemJournal)(nil)

// MemJournal is an in-memory [Journal]. The zero value is ready to use.
type MemJournal struct {
	mu   sync.RWMutex
	sets map[string][]workout.LoggedSet
}

// Append implements [Journal.Append].
func (j *MemJournal) Append(ctx context.Context, sessionID string, set workout.LoggedSet) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.sets == nil {
		j.sets = make(map[string][]workout.LoggedSet)
	}
	j.sets[sessionID] = append(j.sets[sessionID], set)
	return nil
}

// List implements [Journal.List].
func (j *MemJournal) List(ctx context.Context, sessionID string) ([]workout.LoggedSet, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := slices.Clone(j.sets[sessionID])
	if out == nil {
		out = []workout.LoggedSet{}
	}
	return out, nil
}
