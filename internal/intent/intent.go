// Package intent recognises command utterances (completion and navigation)
// before any exercise matching happens, so "done" is never fuzzy-matched to
// an exercise name.
package intent

import (
	"regexp"
	"strings"
)

// Kind is the command family an utterance belongs to.
type Kind int

const (
	// None means the utterance should be parsed as a set.
	None Kind = iota

	// Complete logs the current exercise's target weight and reps.
	Complete

	// SkipSet moves past the current set without logging.
	SkipSet

	// SkipExercise moves to the next plan entry.
	SkipExercise
)

// String returns the wire name of k.
func (k Kind) String() string {
	switch k {
	case Complete:
		return "complete"
	case SkipSet:
		return "skip_set"
	case SkipExercise:
		return "skip_exercise"
	default:
		return "log"
	}
}

// MarshalText encodes k by its wire name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsNavigation reports whether k is a skip command.
func (k Kind) IsNavigation() bool {
	return k == SkipSet || k == SkipExercise
}

const completionAlternation = `done|completed|finished that|finished|finish|got it|complete|all done|that's it`

// Rule is one (pattern, outcome) row of the classification table.
type Rule struct {
	Pattern *regexp.Regexp
	Kind    Kind

	// RequiresActive restricts the rule to sessions with a current exercise.
	RequiresActive bool
}

// rules are evaluated top to bottom; the first match wins. Completion beats
// navigation and skip-set beats skip-exercise, so "skip set" never advances
// the whole exercise.
var rules = []Rule{
	{Pattern: regexp.MustCompile(`^(?:` + completionAlternation + `)$`), Kind: Complete},
	{Pattern: regexp.MustCompile(`\b(?:` + completionAlternation + `)\b`), Kind: Complete, RequiresActive: true},
	{Pattern: regexp.MustCompile(`\b(?:skip set|skip this set|next set)\b`), Kind: SkipSet},
	{Pattern: regexp.MustCompile(`\b(?:skip exercise|skip this exercise|next exercise|go to next|move to next|next one|skip it|skip|next)\b`), Kind: SkipExercise},
}

// Rules returns a copy of the classification table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify returns the command kind of a lexical (lowercased, punctuation
// free, homophones untouched) utterance. hasActive reports whether the
// session has a current exercise.
func Classify(lexical string, hasActive bool) Kind {
	text := strings.TrimSpace(lexical)
	if text == "" {
		return None
	}
	for _, r := range rules {
		if r.RequiresActive && !hasActive {
			continue
		}
		if r.Pattern.MatchString(text) {
			return r.Kind
		}
	}
	return None
}
