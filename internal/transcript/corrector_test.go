package transcript_test

import (
	"testing"

	"github.com/MrWong99/voicelift/internal/transcript"
	"github.com/MrWong99/voicelift/internal/transcript/phonetic"
)

func newCorrector(t *testing.T) *transcript.Corrector {
	t.Helper()
	return transcript.NewCorrector(phonetic.New(), []string{"Deadlift", "Bench Press", "Squat", "Romanian Deadlift"})
}

func TestCorrector_MergesSplitWord(t *testing.T) {
	t.Parallel()

	got := newCorrector(t).Correct("dead lift 140 kg")
	if got.Text != "deadlift 140 kg" {
		t.Errorf("Text = %q, want %q", got.Text, "deadlift 140 kg")
	}
	if len(got.Corrections) != 1 {
		t.Fatalf("len(Corrections) = %d, want 1", len(got.Corrections))
	}
	if got.Corrections[0].Original != "dead lift" {
		t.Errorf("Original = %q, want %q", got.Corrections[0].Original, "dead lift")
	}
}

func TestCorrector_LeavesKnownAndReservedWords(t *testing.T) {
	t.Parallel()

	c := newCorrector(t)
	for _, in := range []string{"bench press 80 kg for 8", "same weight", "done", "skip exercise"} {
		got := c.Correct(in)
		if len(got.Corrections) != 0 {
			t.Errorf("Correct(%q) made corrections %+v, want none", in, got.Corrections)
		}
		if got.Corrections == nil {
			t.Errorf("Correct(%q).Corrections is nil, want empty slice", in)
		}
	}
}

func TestCorrector_SingleToken(t *testing.T) {
	t.Parallel()

	got := newCorrector(t).Correct("bench pres 80")
	if got.Text != "bench press 80" {
		t.Errorf("Text = %q, want %q", got.Text, "bench press 80")
	}
}

func TestCorrector_ReservedOption(t *testing.T) {
	t.Parallel()

	c := transcript.NewCorrector(phonetic.New(), []string{"Squat"}, transcript.WithReserved("squatt"))
	if got := c.Correct("squatt"); got.Text != "squatt" {
		t.Errorf("Text = %q, want reserved word untouched", got.Text)
	}
}
