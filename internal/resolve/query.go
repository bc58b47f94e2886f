package resolve

import (
	"regexp"
	"sort"
	"strings"
)

// relativePhrase matches weight adjustments so their verbs and numbers do
// not leak into the exercise query ("add 10 kg", "down to 60").
var relativePhrase = regexp.MustCompile(`\b(?:add|plus|up to|up by|subtract|minus|down to|down by)\s+[\d.]+\s*(?:kg|kgs|kilos?|kilograms?|lbs?|pounds?)?\b`)

// numericToken matches bare numbers and fused forms such as "80kg", "80x8"
// and "3x10".
var numericToken = regexp.MustCompile(`^[\d.]+(?:[a-z×]+[\d.]*)?$`)

// stopWords are removed from the utterance before fuzzy matching.
var stopWords = toSet(
	// units
	"kg", "kgs", "kilo", "kilos", "kilogram", "kilograms", "lb", "lbs", "pound", "pounds",
	// reps and sets
	"rep", "reps", "times", "revs", "wraps", "set", "sets", "x", "×", "by",
	// prepositions and articles
	"at", "with", "for", "of", "and", "the", "a", "an", "to", "ate", "on",
	// memory words
	"same", "weight", "as", "before", "repeat", "again", "last", "time",
	// bodyweight markers
	"bodyweight", "body", "bw", "wt",
	// fillers
	"um", "uh", "like", "okay", "ok", "please", "just", "then", "so", "now",
	"let's", "lets", "do", "did", "i", "i'm", "im", "my", "make", "it", "that",
	"this", "log", "logged", "another", "more", "got",
	// number words the normalizer leaves in place
	"zero", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen", "twenty", "thirty",
	"forty", "fifty", "sixty", "seventy", "eighty", "ninety", "hundred",
)

// StopWords returns the words dropped from exercise queries, sorted.
func StopWords() []string {
	out := make([]string, 0, len(stopWords))
	for w := range stopWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Query strips numbers, units, rep words, memory words, fillers and relative
// weight phrases from a normalized utterance, leaving the words that may name
// an exercise. The result is empty when nothing is left.
func Query(normalized string) string {
	text := relativePhrase.ReplaceAllString(normalized, " ")
	var kept []string
	for _, tok := range strings.Fields(text) {
		if stopWords[tok] || numericToken.MatchString(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
