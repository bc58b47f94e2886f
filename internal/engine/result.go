package engine

import (
	"errors"

	"github.com/MrWong99/voicelift/internal/intent"
	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/transcript"
	"github.com/MrWong99/voicelift/internal/workout"
)

// Parse failures carried in [Result.Err].
var (
	ErrEmptyTranscript  = errors.New("empty transcript")
	ErrNoExercise       = errors.New("no exercise recognised")
	ErrNoActiveExercise = errors.New("no active exercise")
	ErrMissingTargets   = errors.New("please specify weight and reps")
	ErrMissingReps      = errors.New("could not determine reps")

	// Navigation failures are soft: the command was understood but there
	// is nowhere to go.
	ErrNothingToSkip = session.ErrNothingToSkip
	ErrLastExercise  = session.ErrLastExercise
)

// IsSoft reports whether err is a navigation failure rather than a failure
// to understand the utterance.
func IsSoft(err error) bool {
	return errors.Is(err, ErrNothingToSkip) || errors.Is(err, ErrLastExercise)
}

// Outcomes reported by [Result.Outcome].
const (
	OutcomeFailed     = "failed"
	OutcomeNavigation = "navigation"
	OutcomeComplete   = "complete"
	OutcomeConfirm    = "confirm"
	OutcomeCommitted  = "committed"
)

// Result is the outcome of one utterance. When Err is set every other field
// except RawText and Intent must be ignored.
type Result struct {
	Intent intent.Kind `json:"intent"`

	// Exercise is the canonical (or, for a new candidate, proposed) name.
	Exercise string `json:"exercise,omitempty"`

	// Weight is nil when unknown; 0 means bodyweight.
	Weight     *float64 `json:"weight,omitempty"`
	Reps       *int     `json:"reps,omitempty"`
	Sets       int      `json:"sets"`
	Bodyweight bool     `json:"bodyweight"`
	Unit       string   `json:"unit,omitempty"`

	// QuickComplete marks a completion command that logs the target values
	// without field extraction.
	QuickComplete bool `json:"quick_complete"`

	// NeedsConfirmation lists, in order, why the caller must confirm before
	// committing. Empty means the result may be committed as is.
	NeedsConfirmation []string `json:"needs_confirmation"`

	// Notes lists every rule and back-fill that fired.
	Notes []string `json:"notes"`

	Confidence     float64 `json:"confidence"`
	HighConfidence bool    `json:"high_confidence"`

	// Strategy names the resolver step that found Exercise.
	Strategy string `json:"strategy,omitempty"`

	// Candidate is true when Exercise is a proposed new custom exercise.
	// Suggestions then lists similar library exercises.
	Candidate   bool     `json:"candidate,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`

	// Navigation is set for skip commands.
	Navigation *session.Navigation `json:"navigation,omitempty"`

	// Corrections lists speech-to-text repairs applied before parsing.
	Corrections []transcript.Correction `json:"corrections,omitempty"`

	RawText string `json:"raw_text"`

	Err error `json:"-"`
}

// Failed reports whether the utterance could not be used.
func (r Result) Failed() bool { return r.Err != nil }

// AutoCommit reports whether the caller may commit the set without asking.
func (r Result) AutoCommit() bool {
	return r.Err == nil && !r.Intent.IsNavigation() && len(r.NeedsConfirmation) == 0 && r.Reps != nil
}

// Outcome classifies r for metrics and logs.
func (r Result) Outcome() string {
	switch {
	case r.Err != nil:
		return OutcomeFailed
	case r.Intent.IsNavigation():
		return OutcomeNavigation
	case r.QuickComplete:
		return OutcomeComplete
	case len(r.NeedsConfirmation) > 0:
		return OutcomeConfirm
	default:
		return OutcomeCommitted
	}
}

// Set converts r into a set ready for [session.Tracker.Commit]. Unknown
// weight becomes 0. It reports false when r carries no loggable set.
func (r Result) Set() (workout.LoggedSet, bool) {
	if r.Err != nil || r.Intent.IsNavigation() || r.Exercise == "" || r.Reps == nil {
		return workout.LoggedSet{}, false
	}
	set := workout.LoggedSet{
		Exercise:   r.Exercise,
		Reps:       *r.Reps,
		Bodyweight: r.Bodyweight,
	}
	if r.Weight != nil && !r.Bodyweight {
		set.Weight = *r.Weight
	}
	return set, true
}

func (r *Result) note(n string) {
	r.Notes = append(r.Notes, n)
}

func (r Result) fail(err error) Result {
	r.Err = err
	return r
}
