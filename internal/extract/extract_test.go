package extract_test

import (
	"slices"
	"testing"

	"github.com/MrWong99/voicelift/internal/extract"
	"github.com/MrWong99/voicelift/internal/workout"
)

func TestFoldNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"bench eighty kilos for 8", "bench 80 kilos for 8"},
		{"twenty 2 reps", "22 reps"},
		{"twenty two reps", "22 reps"},
		{"1 hundred twenty 5 kg", "125 kg"},
		{"a hundred and ten", "110"},
		{"hundred kg", "100 kg"},
		{"a set", "a set"},
		{"fourteen reps", "14 reps"},
		{"80 kg for 8", "80 kg for 8"},
	}
	for _, tt := range tests {
		if got := extract.FoldNumbers(tt.in); got != tt.want {
			t.Errorf("FoldNumbers(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func weightOf(f extract.Fields) float64 {
	if f.Weight == nil {
		return -1
	}
	return *f.Weight
}

func repsOf(f extract.Fields) int {
	if f.Reps == nil {
		return -1
	}
	return *f.Reps
}

func TestExtract_Explicit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		wantWeight float64
		wantReps   int
		wantSets   int
		wantUnit   string
	}{
		{"kg for", "bench press 80 kg for 8", 80, 8, 1, extract.UnitKg},
		{"kilos reps", "squat 100 kilos 5 reps", 100, 5, 1, extract.UnitKg},
		{"lbs", "curl 25 lbs 12 reps", 25, 12, 1, extract.UnitLbs},
		{"decimal", "lateral raise 7.5 kg for 15", 7.5, 15, 1, extract.UnitKg},
		{"at", "8 reps at 60", 60, 8, 1, extract.UnitKg},
		{"with", "with 40 for 10", 40, 10, 1, extract.UnitKg},
		{"fused x", "80x8", 80, 8, 1, extract.UnitKg},
		{"spaced by", "100 by 5", 100, 5, 1, extract.UnitKg},
		{"times", "60 kg 10 times", 60, 10, 1, extract.UnitKg},
		{"ate artifact", "70 kg ate 12", 70, 12, 1, extract.UnitKg},
		{"sets of", "3 sets of 10 at 50", 50, 10, 3, extract.UnitKg},
		{"number words", "eighty kilos for twelve", 80, 12, 1, extract.UnitKg},
		{"bare integer reps", "12", -1, 12, 1, extract.UnitKg},
		{"for kg is not reps", "squat for 100 kg", 100, -1, 1, extract.UnitKg},
		{"at reps is not weight", "squat at 8 reps", -1, 8, 1, extract.UnitKg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := extract.Extract(tt.text, extract.Context{IsFirstSet: true})
			if got := weightOf(f); got != tt.wantWeight {
				t.Errorf("weight = %v, want %v", got, tt.wantWeight)
			}
			if got := repsOf(f); got != tt.wantReps {
				t.Errorf("reps = %v, want %v", got, tt.wantReps)
			}
			if f.Sets != tt.wantSets {
				t.Errorf("sets = %d, want %d", f.Sets, tt.wantSets)
			}
			if f.Unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", f.Unit, tt.wantUnit)
			}
		})
	}
}

func TestExtract_Bodyweight(t *testing.T) {
	t.Parallel()

	f := extract.Extract("pull up bodyweight for 10", extract.Context{LastWeight: ptrF(20)})
	if !f.Bodyweight || weightOf(f) != 0 || repsOf(f) != 10 {
		t.Errorf("got bodyweight=%v weight=%v reps=%v, want true 0 10", f.Bodyweight, weightOf(f), repsOf(f))
	}
	if f.ExplicitWeight {
		t.Error("ExplicitWeight = true for bodyweight marker")
	}
}

func TestExtract_AutoBodyweight(t *testing.T) {
	t.Parallel()

	f := extract.Extract("dip 12 reps", extract.Context{IsFirstSet: true, BodyweightExercise: true})
	if !f.Bodyweight || weightOf(f) != 0 || !f.HasNote(extract.NoteAutoBodyweight) {
		t.Errorf("got %+v, want auto bodyweight", f)
	}
}

func TestExtract_Relative(t *testing.T) {
	t.Parallel()

	ctx := extract.Context{LastWeight: ptrF(80), TargetReps: ptrI(8), IsFirstSet: false}

	f := extract.Extract("add 10 kg", ctx)
	if weightOf(f) != 90 || !f.HasNote(extract.NoteRelativeIncrease) {
		t.Errorf("add: weight=%v notes=%v, want 90 with relative_increase", weightOf(f), f.Notes)
	}
	if repsOf(f) != 8 || !f.HasNote(extract.NoteUsingTargetReps) {
		t.Errorf("add: reps=%v notes=%v, want target reps 8", repsOf(f), f.Notes)
	}

	f = extract.Extract("down to 100", ctx)
	if weightOf(f) != 0 {
		t.Errorf("down to 100 from 80: weight=%v, want clamped 0", weightOf(f))
	}

	f = extract.Extract("subtract 5", ctx)
	if weightOf(f) != 75 {
		t.Errorf("subtract 5: weight=%v, want 75", weightOf(f))
	}
}

func TestExtract_RelativeWithoutBase(t *testing.T) {
	t.Parallel()

	f := extract.Extract("add 10 kg", extract.Context{TargetWeight: ptrF(60), TargetReps: ptrI(5)})
	if f.Weight != nil {
		t.Errorf("weight = %v, want nil (back-fill blocked)", *f.Weight)
	}
	if !f.RelativeBlocked || !f.HasNote(extract.NoteRelativeNoBase) {
		t.Errorf("RelativeBlocked=%v notes=%v", f.RelativeBlocked, f.Notes)
	}
}

func TestExtract_Memory(t *testing.T) {
	t.Parallel()

	last := &workout.LoggedSet{Exercise: "Squat", Weight: 100, Reps: 10}

	f := extract.Extract("same", extract.Context{LastSet: last})
	if weightOf(f) != 100 || repsOf(f) != 10 || !f.HasNote(extract.NoteMemorySameAll) {
		t.Errorf("same: weight=%v reps=%v notes=%v", weightOf(f), repsOf(f), f.Notes)
	}
	if !f.Memory.SameAll {
		t.Error("same: Memory.SameAll = false")
	}

	f = extract.Extract("same weight 12 reps", extract.Context{LastSet: last})
	if weightOf(f) != 100 || repsOf(f) != 12 || !f.HasNote(extract.NoteMemorySameWeight) {
		t.Errorf("same weight: weight=%v reps=%v notes=%v", weightOf(f), repsOf(f), f.Notes)
	}

	f = extract.Extract("same reps 110 kg", extract.Context{LastSet: last})
	if weightOf(f) != 110 || repsOf(f) != 10 || !f.HasNote(extract.NoteMemorySameReps) {
		t.Errorf("same reps: weight=%v reps=%v notes=%v", weightOf(f), repsOf(f), f.Notes)
	}

	bw := &workout.LoggedSet{Exercise: "Pull Up", Reps: 8, Bodyweight: true}
	f = extract.Extract("repeat", extract.Context{LastSet: bw})
	if !f.Bodyweight || weightOf(f) != 0 || repsOf(f) != 8 {
		t.Errorf("repeat bodyweight: %+v", f)
	}
}

func TestExtract_MemoryWithoutLastSet(t *testing.T) {
	t.Parallel()

	f := extract.Extract("same weight", extract.Context{LastWeight: ptrF(70), IsFirstSet: true})
	if weightOf(f) != 70 || !f.HasNote(extract.NoteSameWeightLast) {
		t.Errorf("weight=%v notes=%v, want 70 via same_weight_last", weightOf(f), f.Notes)
	}
}

func TestExtract_BackfillChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ctx        extract.Context
		wantWeight float64
		wantNote   string
	}{
		{
			name:       "last weight when not first set",
			ctx:        extract.Context{LastWeight: ptrF(85), TargetWeight: ptrF(80)},
			wantWeight: 85,
			wantNote:   extract.NoteUsingLastWeight,
		},
		{
			name:       "target on first set",
			ctx:        extract.Context{IsFirstSet: true, LastWeight: ptrF(85), TargetWeight: ptrF(80)},
			wantWeight: 80,
			wantNote:   extract.NoteUsingTargetWeight,
		},
		{
			name:       "nothing known",
			ctx:        extract.Context{IsFirstSet: true},
			wantWeight: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := extract.Extract("8 reps", tt.ctx)
			if got := weightOf(f); got != tt.wantWeight {
				t.Errorf("weight = %v, want %v", got, tt.wantWeight)
			}
			if tt.wantNote != "" && !slices.Contains(f.Notes, tt.wantNote) {
				t.Errorf("notes = %v, want %q", f.Notes, tt.wantNote)
			}
		})
	}
}

func TestExtract_BackfillBodyweightSource(t *testing.T) {
	t.Parallel()

	f := extract.Extract("10 reps", extract.Context{TargetWeight: ptrF(0), IsFirstSet: true, BodyweightExercise: true})
	if !f.Bodyweight || weightOf(f) != 0 {
		t.Errorf("got bodyweight=%v weight=%v, want re-flagged bodyweight", f.Bodyweight, weightOf(f))
	}
}
