// Package workout defines the strength-training data model shared by the
// voice logging engine, the session tracker and the storage layers.
//
// The types here are deliberately plain values: a [PlanEntry] is read-only to
// the engine, and a [LoggedSet] is immutable once committed.
package workout

import (
	"fmt"
	"time"
)

// Mode selects how the engine treats exercises that are not in the active plan.
type Mode int

const (
	// ModeQuickStart logs without a predefined plan. Any recognised or novel
	// exercise may become active. It is the zero value.
	ModeQuickStart Mode = iota

	// ModeGuided logs against a predefined ordered plan. Only plan and library
	// exercises are accepted.
	ModeGuided
)

// String returns the configuration spelling of m.
func (m Mode) String() string {
	if m == ModeGuided {
		return "guided"
	}
	return "quick_start"
}

// ParseMode maps a configuration string to a [Mode]. The boolean is false for
// unknown values.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "quick_start", "quick-start", "quickstart":
		return ModeQuickStart, true
	case "guided":
		return ModeGuided, true
	}
	return ModeQuickStart, false
}

// MarshalText implements [encoding.TextMarshaler].
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *Mode) UnmarshalText(b []byte) error {
	mode, ok := ParseMode(string(b))
	if !ok {
		return fmt.Errorf("workout: unknown mode %q", b)
	}
	*m = mode
	return nil
}

// PlanEntry is one exercise of the active workout plan.
type PlanEntry struct {
	// Name is the exercise name as written in the plan. It usually matches a
	// canonical library name but is not required to.
	Name string `yaml:"name" json:"name"`

	// TargetSets is the number of working sets planned. Zero means unspecified.
	TargetSets int `yaml:"sets,omitempty" json:"target_sets,omitempty"`

	// TargetReps is the planned repetitions per set. Nil means unspecified.
	TargetReps *int `yaml:"reps,omitempty" json:"target_reps,omitempty"`

	// TargetWeight is the planned load. Nil means unspecified; zero means
	// bodyweight.
	TargetWeight *float64 `yaml:"weight,omitempty" json:"target_weight,omitempty"`
}

// LoggedSet is a committed set. It is produced by the caller after a parse
// result is accepted and never mutated afterwards.
type LoggedSet struct {
	ID         string    `json:"id,omitempty"`
	Exercise   string    `json:"exercise"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	Bodyweight bool      `json:"bodyweight"`
	Timestamp  time.Time `json:"timestamp"`
}

// Int returns a pointer to v. It keeps plan literals and tests readable.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
