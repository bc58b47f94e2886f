package resolve

import (
	"regexp"
	"strings"
	"unicode"
)

// maxCandidateWords bounds the length of a heuristic exercise name.
const maxCandidateWords = 3

// completionWord rejects utterances that are more likely commands.
var completionWord = regexp.MustCompile(`\b(?:done|completed?|finish(?:ed)?|skip|next)\b`)

// denyList guards against transcription noise from unrelated conversation.
var denyList = regexp.MustCompile(`\b(?:money|dollars?|euros?|cash|price|cost|pay|payment|bank|banking|stocks?|shares|credit|debit|loan|mortgage|invest(?:ment|ing)?|bitcoin|crypto|tax(?:es)?|budget|salary|invoice|account)\b`)

// exerciseKeywords are body-part and movement words. A heuristic candidate
// must contain at least one of them.
var exerciseKeywords = toSet(
	// movements
	"press", "curl", "row", "squat", "lunge", "raise", "fly", "extension",
	"pull", "push", "dip", "deadlift", "thrust", "bridge", "shrug", "crunch",
	"plank", "carry", "walk", "swing", "clean", "snatch", "jerk", "kickback",
	"pulldown", "pushdown", "pullover", "step", "twist", "rollout", "hold",
	"hinge", "chop", "throw", "jump", "climb", "sprint", "rotation", "abduction",
	"adduction", "flye",
	// body parts
	"chest", "back", "leg", "legs", "shoulder", "shoulders", "arm", "arms",
	"bicep", "biceps", "tricep", "triceps", "calf", "calves", "glute", "glutes",
	"hamstring", "hamstrings", "quad", "quads", "ab", "abs", "core", "lat",
	"lats", "delt", "delts", "hip", "hips", "trap", "traps", "pec", "pecs",
	"forearm", "wrist", "neck", "oblique",
	// equipment and variations
	"cable", "machine", "dumbbell", "barbell", "kettlebell", "landmine",
	"smith", "sled", "band", "incline", "decline", "hack", "sumo", "zercher",
	"goblet", "trap-bar", "ez",
)

// Candidate proposes a new exercise name from the utterance when nothing in
// the plan, session or library matched. normalized is the full utterance and
// query its stripped form from [Query].
func Candidate(normalized, query string) (string, bool) {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" || query == "" {
		return "", false
	}
	if completionWord.MatchString(normalized) || denyList.MatchString(normalized) {
		return "", false
	}
	if r := []rune(normalized)[0]; unicode.IsDigit(r) {
		return "", false
	}

	words := strings.Fields(query)
	if len(words) > maxCandidateWords {
		words = words[:maxCandidateWords]
	}
	hasKeyword := false
	for _, w := range words {
		if exerciseKeywords[w] {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return "", false
	}
	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, " "), true
}

func titleCase(w string) string {
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// bareDumbbell are the lone words a "done" is most often misheard as.
var bareDumbbell = toSet("dumb", "dumbbell", "dumb bell")

// MisheardCompletion reports whether resolving text to name is the known
// "done" → "dumbbell" false positive: the name mentions "dumb" and the whole
// utterance is just that word with no movement qualifier. Callers discard
// the match only when a current exercise with targets exists.
func MisheardCompletion(name, normalized string) bool {
	return strings.Contains(strings.ToLower(name), "dumb") && bareDumbbell[strings.TrimSpace(normalized)]
}
