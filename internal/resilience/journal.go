package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/workout"
)

// Compile-time interface check.
var _ session.Journal = (*GuardedJournal)(nil)

// GuardedJournal wraps a database [session.Journal] with a [Breaker]. Sets
// that cannot be written are spooled in memory and replayed by Flush, so an
// outage never loses a committed set while the process lives.
type GuardedJournal struct {
	primary session.Journal
	breaker *Breaker

	mu    sync.Mutex
	spool map[string][]workout.LoggedSet
	order []string // session IDs in first-spooled order
}

// NewGuardedJournal guards primary with a breaker built from cfg.
func NewGuardedJournal(primary session.Journal, cfg BreakerConfig) *GuardedJournal {
	if cfg.Name == "" {
		cfg.Name = "journal"
	}
	return &GuardedJournal{
		primary: primary,
		breaker: NewBreaker(cfg),
		spool:   make(map[string][]workout.LoggedSet),
	}
}

// Append implements [session.Journal]. It only fails when ctx is done.
func (g *GuardedJournal) Append(ctx context.Context, sessionID string, set workout.LoggedSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Keep per-session order: once a session has spooled sets, new ones queue
	// behind them.
	if g.spooled(sessionID) == 0 {
		err := g.breaker.Do(func() error { return g.primary.Append(ctx, sessionID, set) })
		if err == nil {
			return nil
		}
		slog.Warn("resilience: journal write failed, spooling set",
			"session_id", sessionID, "set_id", set.ID, "err", err)
	}

	g.mu.Lock()
	if _, ok := g.spool[sessionID]; !ok {
		g.order = append(g.order, sessionID)
	}
	g.spool[sessionID] = append(g.spool[sessionID], set)
	g.mu.Unlock()
	return nil
}

// List implements [session.Journal]. Spooled sets are appended to what the
// primary returns; when the primary is unavailable only spooled sets are
// listed.
func (g *GuardedJournal) List(ctx context.Context, sessionID string) ([]workout.LoggedSet, error) {
	var stored []workout.LoggedSet
	err := g.breaker.Do(func() error {
		var err error
		stored, err = g.primary.List(ctx, sessionID)
		return err
	})
	if err != nil {
		slog.Warn("resilience: journal read failed, listing spooled sets only",
			"session_id", sessionID, "err", err)
	}

	g.mu.Lock()
	out := append(slices.Clone(stored), g.spool[sessionID]...)
	g.mu.Unlock()
	if out == nil {
		out = []workout.LoggedSet{}
	}
	return out, nil
}

// Spooled returns the number of sets waiting to be written.
func (g *GuardedJournal) Spooled() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, sets := range g.spool {
		n += len(sets)
	}
	return n
}

func (g *GuardedJournal) spooled(sessionID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.spool[sessionID])
}

// Flush replays spooled sets in order. It stops at the first failure and
// returns it; sets not yet written stay spooled.
func (g *GuardedJournal) Flush(ctx context.Context) error {
	for {
		sessionID, set, ok := g.head()
		if !ok {
			return nil
		}
		err := g.breaker.Do(func() error { return g.primary.Append(ctx, sessionID, set) })
		if err != nil {
			return fmt.Errorf("resilience: flush journal: %w", err)
		}
		g.pop(sessionID)
	}
}

// Run flushes every interval until ctx is cancelled.
func (g *GuardedJournal) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if g.Spooled() == 0 {
				continue
			}
			if err := g.Flush(ctx); err != nil {
				slog.Debug("resilience: spooled sets remain", "spooled", g.Spooled(), "err", err)
				continue
			}
			slog.Info("resilience: spooled sets flushed")
		}
	}
}

func (g *GuardedJournal) head() (string, workout.LoggedSet, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.order) == 0 {
		return "", workout.LoggedSet{}, false
	}
	id := g.order[0]
	return id, g.spool[id][0], true
}

func (g *GuardedJournal) pop(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sets := g.spool[sessionID][1:]
	if len(sets) > 0 {
		g.spool[sessionID] = sets
		return
	}
	delete(g.spool, sessionID)
	g.order = slices.DeleteFunc(g.order, func(id string) bool { return id == sessionID })
}
