package extract

import (
	"regexp"
	"strconv"
)

// Units a weight can be stated in.
const (
	UnitKg  = "kg"
	UnitLbs = "lbs"
)

const (
	numberRE = `(\d+(?:\.\d+)?)`
	kgRE     = `(?:kg|kgs|kilos?|kilograms?)`
	lbsRE    = `(?:lbs?|pounds?)`

	// A trailing group that, when it matches, disqualifies the row.
	repsGuardRE   = `(\s*(?:reps?|times)\b)?`
	weightGuardRE = `(\.\d+|\s*(?:` + kgRE + `|` + lbsRE + `)\b)?`
)

// weightRule is one row of the absolute weight table.
type weightRule struct {
	name string
	re   *regexp.Regexp
	unit string
}

// weightRules are tried in order; the first positive value wins.
var weightRules = []weightRule{
	{name: "kg", re: regexp.MustCompile(numberRE + `\s*` + kgRE + `\b`), unit: UnitKg},
	{name: "lbs", re: regexp.MustCompile(numberRE + `\s*` + lbsRE + `\b`), unit: UnitLbs},
	{name: "at", re: regexp.MustCompile(`\bat\s+` + numberRE + `\b` + repsGuardRE)},
	{name: "with", re: regexp.MustCompile(`\bwith\s+` + numberRE + `\b` + repsGuardRE)},
	{name: "kg_by_reps", re: regexp.MustCompile(numberRE + `\s*` + kgRE + `\s*(?:×|x|for)`), unit: UnitKg},
	{name: "weight_by_reps", re: regexp.MustCompile(numberRE + `\s*(?:×|x|by|for)\s*\d+\b`)},
}

// repsRule is one row of the reps table. A match whose number is directly
// followed by a weight unit is skipped so "for 80 kg" is not read as reps.
type repsRule struct {
	name string
	re   *regexp.Regexp
}

var repsRules = []repsRule{
	{name: "reps", re: regexp.MustCompile(`(\d+)\s*reps?\b`)},
	{name: "times", re: regexp.MustCompile(`(\d+)\s*(?:times|revs|wraps)\b`)},
	{name: "for", re: regexp.MustCompile(`\bfor\s+(\d+)\b` + weightGuardRE)},
	{name: "ate", re: regexp.MustCompile(`\bate\s+(\d+)\b` + weightGuardRE)},
	{name: "reps_at", re: regexp.MustCompile(`(\d+)\s*reps?\s+(?:at|with)\b`)},
	{name: "x", re: regexp.MustCompile(`(?:^|[\d\s])(?:×|x)\s*(\d+)\b`)},
	{name: "by", re: regexp.MustCompile(`\d\s*by\s+(\d+)\b`)},
	{name: "sets_of", re: regexp.MustCompile(`\bsets? of\s+(\d+)\b`)},
	{name: "bare", re: regexp.MustCompile(`^(\d+)$`)},
}

var (
	bodyweightRE = regexp.MustCompile(`\b(?:bodyweight|body weight|bw|body wt)\b`)
	setsRE       = regexp.MustCompile(`(\d+)\s*sets?\b`)

	increaseRE = regexp.MustCompile(`\b(?:add|plus|up to|up by)\s+` + numberRE + `\s*(?:` + kgRE + `|` + lbsRE + `)?`)
	decreaseRE = regexp.MustCompile(`\b(?:subtract|minus|down to|down by)\s+` + numberRE + `\s*(?:` + kgRE + `|` + lbsRE + `)?`)

	sameWeightRE = regexp.MustCompile(`\bsame weight\b`)
	sameRepsRE   = regexp.MustCompile(`\bsame reps?\b`)
	sameAllRE    = regexp.MustCompile(`\b(?:same as before|repeat|again)\b|^same$`)
)

// Patterns returns every pattern the extractor matches on.
func Patterns() []*regexp.Regexp {
	out := []*regexp.Regexp{
		bodyweightRE, setsRE, increaseRE, decreaseRE,
		sameWeightRE, sameRepsRE, sameAllRE,
	}
	for _, r := range weightRules {
		out = append(out, r.re)
	}
	for _, r := range repsRules {
		out = append(out, r.re)
	}
	return out
}

// absoluteWeight returns the first positive weight and its unit.
func absoluteWeight(text string) (float64, string, bool) {
	for _, r := range weightRules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			if len(m) > 2 && m[2] != "" {
				continue
			}
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil || v <= 0 {
				continue
			}
			unit := r.unit
			if unit == "" {
				unit = UnitKg
			}
			return v, unit, true
		}
	}
	return 0, "", false
}

// reps returns the first positive reps value.
func reps(text string) (int, bool) {
	for _, r := range repsRules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			if len(m) > 2 && m[2] != "" {
				continue
			}
			v, err := strconv.Atoi(m[1])
			if err != nil || v <= 0 {
				continue
			}
			return v, true
		}
	}
	return 0, false
}

// sets returns an explicit "N sets" count.
func sets(text string) (int, bool) {
	for _, m := range setsRE.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
			return v, true
		}
	}
	return 0, false
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
