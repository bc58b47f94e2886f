// Package confidence scores an extracted set and decides whether it can be
// committed without asking the user.
package confidence

import (
	"math"
	"slices"

	"github.com/MrWong99/voicelift/internal/extract"
)

// Confirmation reasons.
const (
	ReasonMissingReps         = "missing_reps"
	ReasonHighReps            = "high_reps"
	ReasonMissingWeight       = "missing_weight"
	ReasonWeightOnBodyweight  = "weight_on_bodyweight"
	ReasonWeightUnusuallyHigh = "weight_unusually_high"
	ReasonWeightZero          = "weight_zero"
	ReasonNoPreviousSet       = "no_previous_set"
	ReasonNewExercise         = "new_exercise"
)

// Limits that trigger a confirmation regardless of confidence.
const (
	MaxReps              = 50
	MaxWeight            = 350
	MaxBodyweightAddload = 10
)

// HighThreshold is the minimum score for a high-confidence result.
const HighThreshold = 0.8

// Score weights.
const (
	weightExercise = 0.4
	weightReps     = 0.3
	weightLoad     = 0.3
	weightMemory   = 0.2
	weightCurrent  = 0.1
)

// sticky reasons survive a high-confidence result.
var sticky = map[string]bool{
	ReasonWeightUnusuallyHigh: true,
	ReasonHighReps:            true,
	ReasonWeightOnBodyweight:  true,
	ReasonNewExercise:         true,
}

// Input describes one parsed set.
type Input struct {
	Fields extract.Fields

	ExerciseResolved   bool
	NewCandidate       bool
	CurrentExercise    bool
	BodyweightExercise bool

	// HasPreviousSet is true when a last logged set was available to memory
	// keywords.
	HasPreviousSet bool
}

// Decision is the policy outcome.
type Decision struct {
	// Reasons lists why the caller must confirm, in evaluation order.
	// Empty means the set may be committed automatically.
	Reasons []string

	Score float64
	High  bool
}

// NeedsConfirmation reports whether any reason remains.
func (d Decision) NeedsConfirmation() bool { return len(d.Reasons) > 0 }

// Evaluate applies the confirmation rules and the additive score.
func Evaluate(in Input) Decision {
	f := in.Fields
	reasons := []string{}

	hasReps := f.Reps != nil && *f.Reps > 0
	hasLoad := f.Bodyweight || (f.Weight != nil && *f.Weight > 0)

	if f.Reps == nil {
		reasons = append(reasons, ReasonMissingReps)
	} else if *f.Reps > MaxReps {
		reasons = append(reasons, ReasonHighReps)
	}

	if f.Weight == nil && !f.Bodyweight {
		reasons = append(reasons, ReasonMissingWeight)
	}
	if f.Weight != nil {
		w := *f.Weight
		if in.BodyweightExercise && f.ExplicitWeight && !f.Bodyweight && w > MaxBodyweightAddload {
			reasons = append(reasons, ReasonWeightOnBodyweight)
		}
		if !f.Bodyweight && w > MaxWeight {
			reasons = append(reasons, ReasonWeightUnusuallyHigh)
		}
		if w == 0 && !in.BodyweightExercise {
			reasons = append(reasons, ReasonWeightZero)
		}
	}
	if f.Memory.Any() && !in.HasPreviousSet {
		reasons = append(reasons, ReasonNoPreviousSet)
	}
	if in.NewCandidate {
		reasons = append(reasons, ReasonNewExercise)
	}

	var score float64
	if in.ExerciseResolved {
		score += weightExercise
	}
	if hasReps {
		score += weightReps
	}
	if hasLoad {
		score += weightLoad
	}
	if f.Memory.Any() && in.HasPreviousSet {
		score += weightMemory
	}
	if in.CurrentExercise {
		score += weightCurrent
	}
	score = math.Round(score*100) / 100

	high := score >= HighThreshold && in.ExerciseResolved && hasReps && hasLoad
	if high {
		reasons = slices.DeleteFunc(reasons, func(r string) bool { return !sticky[r] })
	}
	return Decision{Reasons: reasons, Score: score, High: high}
}
