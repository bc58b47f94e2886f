// Package session holds per-workout state: the read-only [State] snapshot
// the engine interprets utterances against, the caller-side [Tracker] that
// commits sets and moves through the plan, and the [Manager] registry used by
// the HTTP surface.
package session

import (
	"errors"
	"slices"
	"strings"

	"github.com/MrWong99/voicelift/internal/workout"
)

// Navigation failures. Both are soft: the utterance was understood but there
// is nowhere to go.
var (
	ErrNothingToSkip = errors.New("no exercise to skip")
	ErrLastExercise  = errors.New("last exercise in workout")
)

// State is a snapshot of one workout session. The engine only reads it; the
// [Tracker] produces a fresh snapshot after every change. Pointer fields are
// nil when unknown.
type State struct {
	Mode workout.Mode

	// Plan is the active workout plan, empty in plain quick-start sessions.
	Plan []workout.PlanEntry

	// ActiveIndex is the plan position of CurrentExercise, or -1.
	ActiveIndex int

	// CurrentExercise is the exercise being performed, empty when none.
	CurrentExercise string

	// LastSet is the most recently committed set of any exercise.
	LastSet *workout.LoggedSet

	// LastWeight and LastReps are the last values logged for CurrentExercise.
	LastWeight *float64
	LastReps   *int

	// Targets of the active plan entry.
	TargetWeight *float64
	TargetReps   *int
	TargetSets   int

	// SetsDone counts committed and skipped sets of CurrentExercise.
	SetsDone int

	// IsFirstSet is true until a set of CurrentExercise has been logged.
	IsFirstSet bool

	// Recent lists exercises logged this session, oldest first.
	Recent []string
}

// HasActive reports whether a current exercise is set.
func (s State) HasActive() bool {
	return s.CurrentExercise != ""
}

// HasTargets reports whether the current exercise has both a target weight
// and target reps.
func (s State) HasTargets() bool {
	return s.HasActive() && s.TargetWeight != nil && s.TargetReps != nil
}

// PlanNames returns the plan's entry names in order.
func (s State) PlanNames() []string {
	names := make([]string, len(s.Plan))
	for i, e := range s.Plan {
		names[i] = e.Name
	}
	return names
}

// PlanEntry returns the entry at i.
func (s State) PlanEntry(i int) (workout.PlanEntry, bool) {
	if i < 0 || i >= len(s.Plan) {
		return workout.PlanEntry{}, false
	}
	return s.Plan[i], true
}

// IsCurrent reports whether name is the current exercise.
func (s State) IsCurrent(name string) bool {
	return s.HasActive() && strings.EqualFold(s.CurrentExercise, name)
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.Plan = slices.Clone(s.Plan)
	c.Recent = slices.Clone(s.Recent)
	if s.LastSet != nil {
		ls := *s.LastSet
		c.LastSet = &ls
	}
	return c
}

// Navigation describes a plan move requested by a skip command.
type Navigation struct {
	// From and To are plan indices; To equals From when only a set is
	// skipped and the exercise continues.
	From int `json:"from"`
	To   int `json:"to"`

	// Exercise is the exercise active after the move.
	Exercise string `json:"exercise"`

	// SkipSet is true for a skipped set, false for a skipped exercise.
	SkipSet bool `json:"skip_set"`
}

// PlanSkipSet computes the move for skipping the current set. When the skip
// finishes the exercise's target sets the session advances to the next plan
// entry.
func (s State) PlanSkipSet() (Navigation, error) {
	if !s.HasActive() {
		return Navigation{}, ErrNothingToSkip
	}
	nav := Navigation{From: s.ActiveIndex, To: s.ActiveIndex, Exercise: s.CurrentExercise, SkipSet: true}
	if s.TargetSets > 0 && s.SetsDone+1 >= s.TargetSets {
		next, ok := s.PlanEntry(s.ActiveIndex + 1)
		if !ok || s.ActiveIndex < 0 {
			return Navigation{}, ErrLastExercise
		}
		nav.To, nav.Exercise = s.ActiveIndex+1, next.Name
	}
	return nav, nil
}

// PlanSkipExercise computes the move to the next plan entry.
func (s State) PlanSkipExercise() (Navigation, error) {
	if !s.HasActive() || s.ActiveIndex < 0 {
		return Navigation{}, ErrNothingToSkip
	}
	next, ok := s.PlanEntry(s.ActiveIndex + 1)
	if !ok {
		return Navigation{}, ErrLastExercise
	}
	return Navigation{From: s.ActiveIndex, To: s.ActiveIndex + 1, Exercise: next.Name}, nil
}
