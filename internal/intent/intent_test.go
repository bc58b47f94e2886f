package intent_test

import (
	"testing"

	"github.com/MrWong99/voicelift/internal/intent"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		hasActive bool
		want      intent.Kind
	}{
		{"bare done without active", "done", false, intent.Complete},
		{"bare phrase", "that's it", false, intent.Complete},
		{"multi word phrase", "all done", true, intent.Complete},
		{"embedded needs active", "ok i'm done now", false, intent.None},
		{"embedded with active", "ok i'm done now", true, intent.Complete},
		{"no substring match", "undone", true, intent.None},
		{"skip set", "skip this set", true, intent.SkipSet},
		{"next set", "next set please", false, intent.SkipSet},
		{"skip exercise", "skip exercise", true, intent.SkipExercise},
		{"go to next", "go to next", true, intent.SkipExercise},
		{"bare next", "next", false, intent.SkipExercise},
		{"completion before navigation", "done next", true, intent.Complete},
		{"set utterance", "bench press 80 kg for 8", true, intent.None},
		{"empty", "  ", true, intent.None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := intent.Classify(tt.text, tt.hasActive); got != tt.want {
				t.Errorf("Classify(%q, %v) = %v, want %v", tt.text, tt.hasActive, got, tt.want)
			}
		})
	}
}

func TestRules_OrderedCompletionFirst(t *testing.T) {
	t.Parallel()

	r := intent.Rules()
	if len(r) == 0 || r[0].Kind != intent.Complete {
		t.Fatalf("first rule kind = %v, want complete", r[0].Kind)
	}
	r[0].Kind = intent.SkipSet
	if intent.Rules()[0].Kind != intent.Complete {
		t.Error("Rules() returned the internal table")
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	for k, want := range map[intent.Kind]string{
		intent.None:         "log",
		intent.Complete:     "complete",
		intent.SkipSet:      "skip_set",
		intent.SkipExercise: "skip_exercise",
	} {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
	if !intent.SkipSet.IsNavigation() || intent.Complete.IsNavigation() {
		t.Error("IsNavigation mismatch")
	}
}
