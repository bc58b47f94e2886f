package transcript

import (
	"regexp"
	"sort"
	"strings"
)

var (
	regexEscape = regexp.MustCompile(`\\.`)
	regexWord   = regexp.MustCompile(`[a-z']+(\?)?`)
)

// PatternWords lists the literal words the given patterns match on, so they
// can be passed to [WithReserved]. An optional trailing letter ("reps?")
// yields both forms. Escapes such as \b and \d are not words.
func PatternWords(patterns ...*regexp.Regexp) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(w string) {
		w = strings.Trim(w, "'")
		if w != "" && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	for _, p := range patterns {
		src := regexEscape.ReplaceAllString(p.String(), " ")
		for _, m := range regexWord.FindAllStringSubmatch(src, -1) {
			w := strings.TrimSuffix(m[0], "?")
			add(w)
			if m[1] != "" && len(w) > 1 {
				add(w[:len(w)-1])
			}
		}
	}
	sort.Strings(out)
	return out
}
