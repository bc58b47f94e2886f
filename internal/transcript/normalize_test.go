package transcript_test

import (
	"testing"

	"github.com/MrWong99/voicelift/internal/transcript"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace unchanged", in: "   ", want: "   "},
		{name: "lowercase and punctuation", in: "Bench Press, 80 KG!", want: "bench press 80 kg"},
		{name: "homophone digits", in: "squat one hundred for eight", want: "squat 1 hundred for 8"},
		{name: "standalone to becomes digit", in: "to sets", want: "2 sets"},
		{name: "fourteen untouched", in: "fourteen reps", want: "fourteen reps"},
		{name: "for kept before number", in: "bench 80 kg for 8", want: "bench 80 kg for 8"},
		{name: "ate kept before number", in: "ate 10", want: "ate 10"},
		{name: "up to kept", in: "up to 100", want: "up to 100"},
		{name: "trailing for", in: "curl for", want: "curl 4"},
		{name: "decimal kept", in: "22.5 kg.", want: "22.5 kg"},
		{name: "hyphen splits", in: "pull-ups", want: "pull up"},
		{name: "plural smoothing", in: "Squats for 5", want: "squat for 5"},
		{name: "presses", in: "shoulder presses", want: "shoulder press"},
		{name: "apostrophe kept", in: "That's it.", want: "that's it"},
		{name: "curly apostrophe", in: "that’s it", want: "that's it"},
		{name: "times sign kept", in: "80×8", want: "80×8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := transcript.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Bench press eighty kilos for eight",
		"to for 8",
		"for to",
		"skip to the next one",
		"pull ups for ten",
		"one arm dumbbell rows, ate 12",
		"same as before",
		"22.5 kg x 10",
	}
	for _, in := range inputs {
		once := transcript.Normalize(in)
		twice := transcript.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestLexical(t *testing.T) {
	t.Parallel()

	if got, want := transcript.Lexical("  Go to NEXT!  "), "go to next"; got != want {
		t.Errorf("Lexical() = %q, want %q", got, want)
	}
	if got, want := transcript.Lexical("3.5.kg"), "3.5 kg"; got != want {
		t.Errorf("Lexical() = %q, want %q", got, want)
	}
}
