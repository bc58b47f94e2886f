// Package phonetic corrects misheard exercise vocabulary using Double
// Metaphone encoding combined with Jaro-Winkler similarity.
//
// Speech-to-text engines regularly split or mangle gym words ("dead lift",
// "skull crushers", "pres"). The matcher compares a spoken word or short
// phrase against a [Vocabulary] of known words in two passes:
//
//  1. Phonetic candidates: a vocabulary word whose Double Metaphone codes
//     overlap the input's codes is accepted when its Jaro-Winkler score
//     reaches the phonetic threshold (default 0.80).
//
//  2. Fuzzy fallback: with no phonetic candidate, a vocabulary word is
//     accepted on Jaro-Winkler alone at the stricter fuzzy threshold
//     (default 0.90).
//
// Multi-token input is also compared with its spaces removed so that
// "dead lift" can land on "deadlift".
package phonetic

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultPhoneticThreshold = 0.80
	defaultFuzzyThreshold    = 0.90
)

// Option configures a [Matcher].
type Option func(*Matcher)

// WithPhoneticThreshold sets the minimum Jaro-Winkler score for a
// phonetically overlapping word. Default: 0.80.
func WithPhoneticThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.phoneticThreshold = threshold
	}
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score used when no
// phonetic candidate exists. Default: 0.90.
func WithFuzzyThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.fuzzyThreshold = threshold
	}
}

// Matcher is read-only after construction and safe for concurrent use.
type Matcher struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
}

// New returns a [Matcher] configured with opts.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// entry is one vocabulary word with its precomputed phonetic codes.
type entry struct {
	word  string
	codes map[string]struct{}
}

// Vocabulary is a precomputed set of known words. Build it once per library
// snapshot with [NewVocabulary]; it is immutable afterwards.
type Vocabulary struct {
	entries []entry
	known   map[string]struct{}
}

// NewVocabulary lowercases, deduplicates and encodes words. Empty strings
// and words shorter than three letters are skipped because their metaphone
// codes are too coarse to be useful.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{known: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) < 3 {
			continue
		}
		if _, dup := v.known[w]; dup {
			continue
		}
		v.known[w] = struct{}{}
		v.entries = append(v.entries, entry{word: w, codes: codesFor([]string{w})})
	}
	return v
}

// Contains reports whether word (case-insensitive) is already a vocabulary
// word.
func (v *Vocabulary) Contains(word string) bool {
	if v == nil {
		return false
	}
	_, ok := v.known[strings.ToLower(word)]
	return ok
}

// Len returns the number of distinct vocabulary words.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// Match finds the vocabulary word closest to phrase.
//
// When matched is false, corrected equals phrase unchanged and confidence
// is 0.
func (m *Matcher) Match(phrase string, vocab *Vocabulary) (corrected string, confidence float64, matched bool) {
	if vocab.Len() == 0 || strings.TrimSpace(phrase) == "" {
		return phrase, 0, false
	}

	lower := strings.ToLower(strings.TrimSpace(phrase))
	tokens := strings.Fields(lower)
	joined := strings.Join(tokens, "")
	inputCodes := codesFor(append(tokens, joined))

	var (
		best         string
		bestScore    float64
		bestPhonetic bool
	)
	for _, e := range vocab.entries {
		score := matchr.JaroWinkler(lower, e.word, false)
		if len(tokens) > 1 {
			if s := matchr.JaroWinkler(joined, e.word, false); s > score {
				score = s
			}
		}

		if overlaps(inputCodes, e.codes) {
			if score < m.phoneticThreshold {
				continue
			}
			if !bestPhonetic || score > bestScore {
				best, bestScore, bestPhonetic = e.word, score, true
			}
			continue
		}
		if bestPhonetic || score < m.fuzzyThreshold || score <= bestScore {
			continue
		}
		best, bestScore = e.word, score
	}

	if best == "" {
		return phrase, 0, false
	}
	return best, bestScore, true
}

// codesFor returns the union of Double Metaphone codes of tokens, skipping
// the empty codes produced for vowel-only input.
func codesFor(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		p, s := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

func overlaps(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for c := range a {
		if _, ok := b[c]; ok {
			return true
		}
	}
	return false
}
