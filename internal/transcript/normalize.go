// Package transcript cleans raw speech-to-text output before the engine
// interprets it.
//
// [Normalize] is the lexical stage every utterance passes through: lowercase,
// punctuation stripped, standalone number homophones turned into digits and
// spoken plurals of common movements made singular. An optional [Corrector]
// can run in front of it to repair misheard exercise vocabulary using the
// phonetic matcher.
package transcript

import (
	"strings"
	"unicode"
)

// homophones maps standalone spoken number homophones to digits. Only
// single-digit values are handled here; multi-word numbers ("eighty") are
// folded later by the field extractor.
var homophones = map[string]string{
	"won":   "1",
	"one":   "1",
	"to":    "2",
	"too":   "2",
	"two":   "2",
	"three": "3",
	"for":   "4",
	"four":  "4",
	"five":  "5",
	"six":   "6",
	"seven": "7",
	"ate":   "8",
	"eight": "8",
	"nine":  "9",
}

// prepositional homophones stay as words when a number follows them, so
// "for 8", "ate 10" and "up to 100" keep their meaning.
var prepositional = map[string]bool{
	"for": true,
	"to":  true,
	"ate": true,
}

// numberWords are spoken numbers the normalizer leaves alone but treats as
// numeric when deciding whether to keep a prepositional homophone.
var numberWords = map[string]bool{
	"zero": true, "one": true, "two": true, "three": true, "four": true,
	"five": true, "six": true, "seven": true, "eight": true, "nine": true,
	"ten": true, "eleven": true, "twelve": true, "thirteen": true,
	"fourteen": true, "fifteen": true, "sixteen": true, "seventeen": true,
	"eighteen": true, "nineteen": true, "twenty": true, "thirty": true,
	"forty": true, "fifty": true, "sixty": true, "seventy": true,
	"eighty": true, "ninety": true, "hundred": true,
}

// plurals singularises spoken plurals. Multi-word keys are matched on whole
// token sequences.
var plurals = []struct {
	from []string
	to   []string
}{
	{[]string{"pull", "ups"}, []string{"pull", "up"}},
	{[]string{"pullups"}, []string{"pull", "up"}},
	{[]string{"push", "ups"}, []string{"push", "up"}},
	{[]string{"pushups"}, []string{"push", "up"}},
	{[]string{"chin", "ups"}, []string{"chin", "up"}},
	{[]string{"chinups"}, []string{"chin", "up"}},
	{[]string{"sit", "ups"}, []string{"sit", "up"}},
	{[]string{"situps"}, []string{"sit", "up"}},
	{[]string{"squats"}, []string{"squat"}},
	{[]string{"curls"}, []string{"curl"}},
	{[]string{"presses"}, []string{"press"}},
	{[]string{"flies"}, []string{"fly"}},
	{[]string{"flys"}, []string{"fly"}},
	{[]string{"dips"}, []string{"dip"}},
	{[]string{"lunges"}, []string{"lunge"}},
	{[]string{"rows"}, []string{"row"}},
	{[]string{"raises"}, []string{"raise"}},
	{[]string{"extensions"}, []string{"extension"}},
	{[]string{"deadlifts"}, []string{"deadlift"}},
	{[]string{"crunches"}, []string{"crunch"}},
	{[]string{"shrugs"}, []string{"shrug"}},
	{[]string{"kickbacks"}, []string{"kickback"}},
	{[]string{"pulldowns"}, []string{"pulldown"}},
	{[]string{"pushdowns"}, []string{"pushdown"}},
	{[]string{"dumbbells"}, []string{"dumbbell"}},
	{[]string{"barbells"}, []string{"barbell"}},
	{[]string{"thrusts"}, []string{"thrust"}},
	{[]string{"planks"}, []string{"plank"}},
}

// Lexical lowercases raw and strips punctuation. Hyphens become spaces;
// apostrophes, the multiplication sign and decimal points between digits are
// kept. Runs of whitespace collapse to one space.
func Lexical(raw string) string {
	runes := []rune(strings.ToLower(raw))
	var b strings.Builder
	b.Grow(len(raw))
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '×':
			b.WriteRune(r)
		case r == '\'' || r == '’':
			b.WriteRune('\'')
		case r == '.' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Normalize returns the lexical form of raw with number homophones replaced
// by digits and plurals singularised. Empty or whitespace-only input is
// returned unchanged. Normalize is idempotent.
func Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	tokens := strings.Fields(Lexical(raw))
	tokens = replaceHomophones(tokens)
	tokens = singularise(tokens)
	return strings.Join(tokens, " ")
}

func replaceHomophones(tokens []string) []string {
	out := make([]string, len(tokens))
	copy(out, tokens)

	// Unambiguous homophones first so the lookahead below sees digits.
	for i, t := range out {
		if d, ok := homophones[t]; ok && !prepositional[t] {
			out[i] = d
		}
	}
	for i, t := range out {
		if !prepositional[t] {
			continue
		}
		if i+1 < len(out) && isNumeric(out[i+1]) {
			continue
		}
		out[i] = homophones[t]
	}
	return out
}

func isNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	if tok[0] >= '0' && tok[0] <= '9' {
		return true
	}
	return numberWords[tok]
}

func singularise(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		replaced := false
		for _, p := range plurals {
			if hasPrefixTokens(tokens[i:], p.from) {
				out = append(out, p.to...)
				i += len(p.from)
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}

func hasPrefixTokens(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if tokens[i] != p {
			return false
		}
	}
	return true
}
