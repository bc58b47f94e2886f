// Package extract pulls weight, reps, sets, the bodyweight flag and memory
// references out of a normalized utterance, then back-fills missing fields
// from session context.
//
// Every back-fill that fires appends a note (for example
// "using_target_weight" or "memory_same_all") so that confirmation decisions
// can be audited.
package extract

import (
	"math"
	"slices"
	"strings"

	"github.com/MrWong99/voicelift/internal/workout"
)

// Notes appended by [Extract].
const (
	NoteBodyweight        = "bodyweight"
	NoteRelativeIncrease  = "relative_increase"
	NoteRelativeDecrease  = "relative_decrease"
	NoteRelativeNoBase    = "relative_no_base"
	NoteUnitLbs           = "unit_lbs"
	NoteMemorySameAll     = "memory_same_all"
	NoteMemorySameWeight  = "memory_same_weight"
	NoteMemorySameReps    = "memory_same_reps"
	NoteSameWeightLast    = "same_weight_last"
	NoteMemoryLastWeight  = "memory_last_set_weight"
	NoteUsingLastWeight   = "using_last_weight"
	NoteUsingTargetWeight = "using_target_weight"
	NoteSameRepsLast      = "same_reps_last"
	NoteMemoryLastReps    = "memory_last_set_reps"
	NoteUsingLastReps     = "using_last_reps"
	NoteUsingTargetReps   = "using_target_reps"
	NoteAutoBodyweight    = "auto_bodyweight"
)

// Context is the slice of session state the extractor reads. Pointer fields
// are nil when unknown.
type Context struct {
	LastSet      *workout.LoggedSet
	LastWeight   *float64
	LastReps     *int
	TargetWeight *float64
	TargetReps   *int
	IsFirstSet   bool

	// BodyweightExercise is true when the resolved exercise is flagged as
	// bodyweight in the library.
	BodyweightExercise bool
}

// Memory records which memory keywords the utterance used.
type Memory struct {
	SameWeight bool
	SameReps   bool
	SameAll    bool
}

// Any reports whether any memory keyword was used.
func (m Memory) Any() bool {
	return m.SameWeight || m.SameReps || m.SameAll
}

// Fields is the extractor's output.
type Fields struct {
	Weight     *float64
	Reps       *int
	Sets       int
	Bodyweight bool

	// Unit is the unit Weight was spoken in.
	Unit string

	// ExplicitWeight is true when the utterance itself stated a weight,
	// absolute or relative.
	ExplicitWeight bool

	// RelativeBlocked is true when a relative adjustment had no base weight.
	RelativeBlocked bool

	Memory Memory
	Notes  []string
}

// HasNote reports whether note was recorded.
func (f Fields) HasNote(note string) bool {
	return slices.Contains(f.Notes, note)
}

func (f *Fields) note(n string) {
	if !f.HasNote(n) {
		f.Notes = append(f.Notes, n)
	}
}

func (f *Fields) setWeight(v float64) {
	f.Weight = &v
}

func (f *Fields) setReps(v int) {
	f.Reps = &v
}

// Extract runs the weight, reps and memory rules over normalized and fills
// the gaps from ctx.
func Extract(normalized string, ctx Context) Fields {
	text := FoldNumbers(strings.TrimSpace(normalized))
	f := Fields{Sets: 1, Unit: UnitKg}

	if bodyweightRE.MatchString(text) {
		f.Bodyweight = true
		f.setWeight(0)
		f.note(NoteBodyweight)
	}

	if !f.Bodyweight {
		extractWeight(text, ctx, &f)
	}
	if r, ok := reps(text); ok {
		f.setReps(r)
	}
	if s, ok := sets(text); ok {
		f.Sets = s
	}

	f.Memory = Memory{
		SameWeight: sameWeightRE.MatchString(text),
		SameReps:   sameRepsRE.MatchString(text),
		SameAll:    sameAllRE.MatchString(text),
	}

	applyMemory(ctx, &f)
	backfillWeight(ctx, &f)
	backfillReps(ctx, &f)

	if f.Weight == nil && !f.Bodyweight && !f.RelativeBlocked && ctx.BodyweightExercise && f.Reps != nil {
		f.Bodyweight = true
		f.note(NoteAutoBodyweight)
	}
	if f.Bodyweight {
		f.setWeight(0)
	}
	return f
}

func extractWeight(text string, ctx Context, f *Fields) {
	if m := increaseRE.FindStringSubmatch(text); m != nil {
		relative(m[1], +1, NoteRelativeIncrease, ctx, f)
		return
	}
	if m := decreaseRE.FindStringSubmatch(text); m != nil {
		relative(m[1], -1, NoteRelativeDecrease, ctx, f)
		return
	}
	if w, unit, ok := absoluteWeight(text); ok {
		f.setWeight(w)
		f.Unit = unit
		f.ExplicitWeight = true
		if unit == UnitLbs {
			f.note(NoteUnitLbs)
		}
	}
}

func relative(num string, sign float64, note string, ctx Context, f *Fields) {
	f.ExplicitWeight = true
	delta, err := parseFloat(num)
	if err != nil {
		return
	}
	if ctx.LastWeight == nil {
		f.RelativeBlocked = true
		f.note(NoteRelativeNoBase)
		return
	}
	f.setWeight(math.Max(0, *ctx.LastWeight+sign*delta))
	f.note(note)
}

// applyMemory back-fills from the last logged set for explicit memory
// keywords.
func applyMemory(ctx Context, f *Fields) {
	last := ctx.LastSet
	if last == nil {
		return
	}
	m := f.Memory
	if (m.SameAll || m.SameWeight) && f.Weight == nil && !f.Bodyweight && !f.RelativeBlocked {
		f.setWeight(last.Weight)
		f.Bodyweight = last.Bodyweight
		if m.SameAll {
			f.note(NoteMemorySameAll)
		} else {
			f.note(NoteMemorySameWeight)
		}
	}
	if (m.SameAll || m.SameReps) && f.Reps == nil {
		f.setReps(last.Reps)
		if m.SameAll {
			f.note(NoteMemorySameAll)
		} else {
			f.note(NoteMemorySameReps)
		}
	}
}

func backfillWeight(ctx Context, f *Fields) {
	if f.Weight != nil || f.Bodyweight || f.RelativeBlocked {
		return
	}
	var (
		w          float64
		bodyweight bool
	)
	switch {
	case f.Memory.SameWeight && ctx.LastWeight != nil:
		w = *ctx.LastWeight
		f.note(NoteSameWeightLast)
	case f.Memory.Any() && ctx.LastSet != nil:
		w, bodyweight = ctx.LastSet.Weight, ctx.LastSet.Bodyweight
		f.note(NoteMemoryLastWeight)
	case !ctx.IsFirstSet && ctx.LastWeight != nil:
		w = *ctx.LastWeight
		f.note(NoteUsingLastWeight)
	case ctx.TargetWeight != nil:
		w = *ctx.TargetWeight
		f.note(NoteUsingTargetWeight)
	default:
		return
	}
	f.setWeight(w)
	if bodyweight || (w == 0 && ctx.BodyweightExercise) {
		f.Bodyweight = true
	}
}

func backfillReps(ctx Context, f *Fields) {
	if f.Reps != nil {
		return
	}
	switch {
	case f.Memory.SameReps && ctx.LastReps != nil:
		f.setReps(*ctx.LastReps)
		f.note(NoteSameRepsLast)
	case f.Memory.Any() && ctx.LastSet != nil:
		f.setReps(ctx.LastSet.Reps)
		f.note(NoteMemoryLastReps)
	case !ctx.IsFirstSet && ctx.LastReps != nil:
		f.setReps(*ctx.LastReps)
		f.note(NoteUsingLastReps)
	case ctx.TargetReps != nil:
		f.setReps(*ctx.TargetReps)
		f.note(NoteUsingTargetReps)
	}
}
