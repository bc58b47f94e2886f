package transcript

import (
	"strings"
	"unicode"

	"github.com/MrWong99/voicelift/internal/transcript/phonetic"
)

// minCorrectLen is the shortest token the corrector will touch. Shorter
// words carry too little phonetic signal and are mostly numbers and units.
const minCorrectLen = 4

// reservedWords are command, memory and unit words that must never be
// rewritten into exercise vocabulary. Callers add the words of their own
// pattern tables with [WithReserved] and [PatternWords].
var reservedWords = []string{
	"done", "completed", "finished", "finish", "complete", "that's",
	"skip", "next", "move", "exercise",
	"same", "weight", "reps", "rep", "repeat", "again", "before",
	"body", "bodyweight",
	"kilo", "kilos", "kilogram", "kilograms", "pounds", "pound",
	"times", "revs", "wraps", "sets", "with", "plus", "minus", "down", "subtract",
	"this", "that", "then", "just", "okay", "please", "like", "make",
	"hundred", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
	"eighty", "ninety", "eleven", "twelve",
}

// Correction captures a single substitution made by the [Corrector].
type Correction struct {
	// Original is the word or phrase as produced by speech-to-text.
	Original string `json:"original"`

	// Corrected is the vocabulary word that replaced it.
	Corrected string `json:"corrected"`

	// Confidence is the matcher's score in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Corrected is the output of [Corrector.Correct].
type Corrected struct {
	// Text is the lexical text with all substitutions applied.
	Text string

	// Corrections lists the substitutions in transcript order. It is empty
	// (non-nil) when nothing changed.
	Corrections []Correction
}

// CorrectorOption configures a [Corrector].
type CorrectorOption func(*Corrector)

// WithReserved adds words that must never be corrected.
func WithReserved(words ...string) CorrectorOption {
	return func(c *Corrector) {
		for _, w := range words {
			c.reserved[strings.ToLower(w)] = struct{}{}
		}
	}
}

// Corrector repairs misheard exercise vocabulary in front of [Normalize].
// It scans two-token windows first so split words ("dead lift") can merge,
// then single tokens. Only alphabetic tokens that are not already known
// vocabulary are candidates.
//
// A Corrector is immutable after construction and safe for concurrent use.
type Corrector struct {
	matcher  *phonetic.Matcher
	vocab    *phonetic.Vocabulary
	reserved map[string]struct{}
}

// NewCorrector builds a corrector over the words contained in names. Each
// name is split into tokens and the joined multi-word form is added too.
func NewCorrector(matcher *phonetic.Matcher, names []string, opts ...CorrectorOption) *Corrector {
	var words []string
	for _, n := range names {
		toks := strings.Fields(Lexical(n))
		words = append(words, toks...)
		if len(toks) > 1 {
			words = append(words, strings.Join(toks, ""))
		}
	}
	c := &Corrector{
		matcher:  matcher,
		vocab:    phonetic.NewVocabulary(words),
		reserved: make(map[string]struct{}, len(reservedWords)),
	}
	for _, w := range reservedWords {
		c.reserved[w] = struct{}{}
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Correct applies vocabulary corrections to the lexical form of text.
func (c *Corrector) Correct(text string) Corrected {
	tokens := strings.Fields(Lexical(text))
	out := make([]string, 0, len(tokens))
	corrections := []Correction{}

	for i := 0; i < len(tokens); {
		if i+1 < len(tokens) && c.candidate(tokens[i]) && c.candidate(tokens[i+1]) {
			phrase := tokens[i] + " " + tokens[i+1]
			if fixed, conf, ok := c.matcher.Match(phrase, c.vocab); ok {
				out = append(out, fixed)
				corrections = append(corrections, Correction{Original: phrase, Corrected: fixed, Confidence: conf})
				i += 2
				continue
			}
		}
		tok := tokens[i]
		if c.candidate(tok) {
			if fixed, conf, ok := c.matcher.Match(tok, c.vocab); ok && fixed != tok {
				out = append(out, fixed)
				corrections = append(corrections, Correction{Original: tok, Corrected: fixed, Confidence: conf})
				i++
				continue
			}
		}
		out = append(out, tok)
		i++
	}
	return Corrected{Text: strings.Join(out, " "), Corrections: corrections}
}

func (c *Corrector) candidate(tok string) bool {
	if len(tok) < minCorrectLen || c.vocab.Contains(tok) {
		return false
	}
	if _, ok := c.reserved[tok]; ok {
		return false
	}
	if _, ok := homophones[tok]; ok {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
