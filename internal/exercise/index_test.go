package exercise_test

import (
	"testing"

	"github.com/MrWong99/voicelift/internal/exercise"
)

func TestCore_FilledIn(t *testing.T) {
	t.Parallel()

	core := exercise.Core()
	if len(core) < 40 {
		t.Fatalf("len(Core()) = %d, want at least 40", len(core))
	}
	seen := make(map[string]bool)
	for _, d := range core {
		if d.Origin != exercise.OriginCore {
			t.Errorf("%q: Origin = %q, want core", d.Name, d.Origin)
		}
		if d.Group == "" {
			t.Errorf("%q: Group is empty", d.Name)
		}
		if err := exercise.Validate(d); err != nil {
			t.Errorf("%q: Validate() = %v", d.Name, err)
		}
		if seen[d.Name] {
			t.Errorf("duplicate core name %q", d.Name)
		}
		seen[d.Name] = true
	}
}

func TestCore_ReturnsCopy(t *testing.T) {
	t.Parallel()

	a := exercise.Core()
	a[0].Aliases[0] = "mutated"
	b := exercise.Core()
	if b[0].Aliases[0] == "mutated" {
		t.Error("Core() shares alias slices between calls")
	}
}

func TestIndex_Lookups(t *testing.T) {
	t.Parallel()

	idx := exercise.NewIndex(exercise.Core(), nil)

	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"bench press", "Bench Press", true},
		{"BENCH", "Bench Press", true},
		{"  rdl ", "Romanian Deadlift", true},
		{"ohp", "Overhead Press", true},
		{"zumba", "", false},
	}
	for _, tt := range tests {
		got, ok := idx.ResolveAlias(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveAlias(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}

	if !idx.Exists("squat") {
		t.Error(`Exists("squat") = false, want true`)
	}
	if idx.Exists("back squat") {
		t.Error(`Exists("back squat") = true, want false (alias, not canonical)`)
	}
	if !idx.IsBodyweight("Pull Up") {
		t.Error(`IsBodyweight("Pull Up") = false, want true`)
	}
	if idx.IsBodyweight("Bench Press") {
		t.Error(`IsBodyweight("Bench Press") = true, want false`)
	}
}

func TestIndex_CustomOverridesCore(t *testing.T) {
	t.Parallel()

	core := exercise.Core()
	custom := []exercise.Definition{
		{Name: "Landmine Press", Aliases: []string{"bench"}, Group: exercise.GroupShoulders},
		{Name: "bench press", Aliases: []string{"my bench"}, Bodyweight: true},
	}
	idx := exercise.NewIndex(core, custom)

	if got, _ := idx.ResolveAlias("bench"); got != "Landmine Press" {
		t.Errorf(`ResolveAlias("bench") = %q, want custom "Landmine Press"`, got)
	}
	if idx.Len() != len(core)+1 {
		t.Errorf("Len() = %d, want %d (same-name custom replaces core)", idx.Len(), len(core)+1)
	}
	d, ok := idx.Lookup("Bench Press")
	if !ok || d.Origin != exercise.OriginCustom {
		t.Fatalf("Lookup(Bench Press) = %+v, %v; want custom entry", d, ok)
	}
	if idx.Entries()[0].Name != "bench press" {
		t.Errorf("Entries()[0].Name = %q, want replacement kept in catalog position", idx.Entries()[0].Name)
	}
	if !idx.IsBodyweight("Bench Press") {
		t.Error("IsBodyweight(Bench Press) = false, want custom flag to win")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		def     exercise.Definition
		wantErr bool
	}{
		{"valid", exercise.Definition{Name: "Zercher Squat"}, false},
		{"empty name", exercise.Definition{Name: "  "}, true},
		{"leading digit", exercise.Definition{Name: "3 Point Row"}, true},
		{"empty alias", exercise.Definition{Name: "Row", Aliases: []string{""}}, true},
		{"bad origin", exercise.Definition{Name: "Row", Origin: "imported"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := exercise.Validate(tt.def); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
