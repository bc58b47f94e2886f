package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrWong99/voicelift/internal/workout"
)

// DefaultRecentLimit bounds [State.Recent].
const DefaultRecentLimit = 20

// lastValues are the most recent weight and reps logged for one exercise.
type lastValues struct {
	weight float64
	reps   int
}

// TrackerOption configures a [Tracker].
type TrackerOption func(*Tracker)

// WithRecentLimit overrides [DefaultRecentLimit]. Non-positive values are
// ignored.
func WithRecentLimit(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.recentLimit = n
		}
	}
}

// WithClock replaces time.Now for commit timestamps.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

// Tracker is the caller-side bookkeeping around the engine: it commits
// accepted sets, remembers per-exercise last values and walks the plan.
//
// A Tracker is not safe for concurrent use; [Session] serialises access.
type Tracker struct {
	state       State
	last        map[string]lastValues
	sets        []workout.LoggedSet
	recentLimit int
	now         func() time.Time
}

// NewTracker starts a session. In guided mode with a non-empty plan the first
// entry becomes the current exercise.
func NewTracker(mode workout.Mode, plan []workout.PlanEntry, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		state: State{
			Mode:        mode,
			Plan:        slices.Clone(plan),
			ActiveIndex: -1,
		},
		last:        make(map[string]lastValues),
		recentLimit: DefaultRecentLimit,
		now:         time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	if mode == workout.ModeGuided && len(plan) > 0 {
		t.activate(plan[0].Name)
	}
	return t
}

// State returns a deep copy of the current state.
func (t *Tracker) State() State {
	return t.state.Clone()
}

// Sets returns every set committed this session, oldest first.
func (t *Tracker) Sets() []workout.LoggedSet {
	return slices.Clone(t.sets)
}

// Select makes name the current exercise without logging anything. Plan
// entries pick up their targets.
func (t *Tracker) Select(name string) {
	if t.state.IsCurrent(name) {
		return
	}
	t.activate(name)
}

// ErrInvalidSet marks a set rejected before anything was stored.
var ErrInvalidSet = errors.New("session: invalid set")

// Commit records a set and returns it with ID and timestamp filled in.
// A bodyweight set always carries weight 0.
func (t *Tracker) Commit(set workout.LoggedSet) (workout.LoggedSet, error) {
	set, err := t.prepare(set)
	if err != nil {
		return workout.LoggedSet{}, err
	}
	t.record(set)
	return set, nil
}

// CommitTo appends set to j and records it only once the journal accepted
// it. A failed append leaves the tracker untouched, so repeating the
// utterance does not log the set twice.
func (t *Tracker) CommitTo(ctx context.Context, j Journal, sessionID string, set workout.LoggedSet) (workout.LoggedSet, error) {
	set, err := t.prepare(set)
	if err != nil {
		return workout.LoggedSet{}, err
	}
	if err := j.Append(ctx, sessionID, set); err != nil {
		return workout.LoggedSet{}, fmt.Errorf("session: journal set: %w", err)
	}
	t.record(set)
	return set, nil
}

// prepare validates set and fills in its ID and timestamp.
func (t *Tracker) prepare(set workout.LoggedSet) (workout.LoggedSet, error) {
	if strings.TrimSpace(set.Exercise) == "" {
		return workout.LoggedSet{}, fmt.Errorf("%w: exercise must not be empty", ErrInvalidSet)
	}
	if set.Reps <= 0 {
		return workout.LoggedSet{}, fmt.Errorf("%w: %q: reps must be positive", ErrInvalidSet, set.Exercise)
	}
	if set.Weight < 0 {
		return workout.LoggedSet{}, fmt.Errorf("%w: %q: weight must not be negative", ErrInvalidSet, set.Exercise)
	}
	if set.Bodyweight {
		set.Weight = 0
	}
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	if set.Timestamp.IsZero() {
		set.Timestamp = t.now()
	}
	return set, nil
}

func (t *Tracker) record(set workout.LoggedSet) {
	t.Select(set.Exercise)

	t.sets = append(t.sets, set)
	ls := set
	t.state.LastSet = &ls
	t.last[key(set.Exercise)] = lastValues{weight: set.Weight, reps: set.Reps}
	t.state.LastWeight = ptr(set.Weight)
	t.state.LastReps = ptr(set.Reps)
	t.state.SetsDone++
	t.state.IsFirstSet = false
	t.remember(set.Exercise)
}

// Navigate applies a move computed by [State.PlanSkipSet] or
// [State.PlanSkipExercise].
func (t *Tracker) Navigate(nav Navigation) {
	if nav.To != nav.From || !t.state.IsCurrent(nav.Exercise) {
		t.activate(nav.Exercise)
		return
	}
	if nav.SkipSet {
		t.state.SetsDone++
	}
}

// activate switches the current exercise and loads its plan targets and
// last values.
func (t *Tracker) activate(name string) {
	s := &t.state
	s.CurrentExercise = name
	s.ActiveIndex = -1
	s.TargetWeight, s.TargetReps, s.TargetSets = nil, nil, 0
	for i, e := range s.Plan {
		if strings.EqualFold(e.Name, name) {
			s.ActiveIndex = i
			s.TargetWeight = e.TargetWeight
			s.TargetReps = e.TargetReps
			s.TargetSets = e.TargetSets
			break
		}
	}

	s.SetsDone = 0
	for _, set := range t.sets {
		if strings.EqualFold(set.Exercise, name) {
			s.SetsDone++
		}
	}
	if lv, ok := t.last[key(name)]; ok {
		s.LastWeight = ptr(lv.weight)
		s.LastReps = ptr(lv.reps)
		s.IsFirstSet = false
	} else {
		s.LastWeight, s.LastReps = nil, nil
		s.IsFirstSet = true
	}
}

// remember moves name to the end of the recent list, dropping the oldest
// entry beyond the limit. Recent exercises only matter in quick-start mode
// but are tracked in both.
func (t *Tracker) remember(name string) {
	r := slices.DeleteFunc(t.state.Recent, func(n string) bool { return strings.EqualFold(n, name) })
	r = append(r, name)
	if len(r) > t.recentLimit {
		r = r[len(r)-t.recentLimit:]
	}
	t.state.Recent = r
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func ptr[T any](v T) *T { return &v }
