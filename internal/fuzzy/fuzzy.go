// Package fuzzy scores free-text queries against exercise names.
//
// [Score] is a deliberately simple tiered heuristic rather than an edit
// distance, so its results are easy to reason about in tests:
//
//	1.0  exact case-insensitive match
//	0.8  target contains query
//	0.6  every significant query token overlaps a target token
//	0.4f a fraction f of the significant query tokens overlap
//	0.3r in-order character alignment ratio r
//
// [Suggest] is separate: it ranks names by Jaro-Winkler similarity and is
// used to offer alternatives for an unrecognised exercise.
package fuzzy

import (
	"cmp"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	scoreExact    = 1.0
	scoreContains = 0.8
	scoreTokens   = 0.6
	scorePartial  = 0.4
	scoreAlign    = 0.3
)

// minTokenLen: query tokens this short or shorter are ignored by the token
// stage.
const minTokenLen = 2

// Candidate is one scorable target: a display name plus its aliases.
type Candidate struct {
	Name    string
	Aliases []string
}

// Match is a scored candidate.
type Match struct {
	Name  string
	Score float64

	// Index is the candidate's position in the input slice.
	Index int
}

// Score returns the similarity of query to target in [0, 1].
func Score(query, target string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(strings.TrimSpace(target))
	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return scoreExact
	}
	if strings.Contains(t, q) {
		return scoreContains
	}
	if s, ok := tokenScore(q, t); ok {
		return s
	}
	return alignScore(q, t)
}

func tokenScore(q, t string) (float64, bool) {
	targetTokens := strings.Fields(t)
	var total, matched int
	for _, qt := range strings.Fields(q) {
		if len(qt) <= minTokenLen {
			continue
		}
		total++
		for _, tt := range targetTokens {
			if strings.Contains(tt, qt) || (len(tt) > minTokenLen && strings.Contains(qt, tt)) {
				matched++
				break
			}
		}
	}
	switch {
	case matched == 0:
		return 0, false
	case matched == total:
		return scoreTokens, true
	default:
		return scorePartial * float64(matched) / float64(total), true
	}
}

// alignScore walks target and advances a cursor through query whenever the
// next query character appears.
func alignScore(q, t string) float64 {
	qr, tr := []rune(q), []rune(t)
	n := 0
	for _, r := range tr {
		if n < len(qr) && qr[n] == r {
			n++
		}
	}
	return float64(n) / float64(max(len(qr), len(tr))) * scoreAlign
}

// ScoreCandidate returns the best score of query against c's name and every
// alias.
func ScoreCandidate(query string, c Candidate) float64 {
	best := Score(query, c.Name)
	for _, a := range c.Aliases {
		if best == scoreExact {
			break
		}
		best = max(best, Score(query, a))
	}
	return best
}

// FindBestMatches returns every candidate scoring at least threshold, best
// first. Equal scores keep input order.
func FindBestMatches(query string, candidates []Candidate, threshold float64) []Match {
	var out []Match
	for i, c := range candidates {
		if s := ScoreCandidate(query, c); s > 0 && s >= threshold {
			out = append(out, Match{Name: c.Name, Score: s, Index: i})
		}
	}
	slices.SortStableFunc(out, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

// FindBestMatch returns the top match from [FindBestMatches].
func FindBestMatch(query string, candidates []Candidate, threshold float64) (Match, bool) {
	m := FindBestMatches(query, candidates, threshold)
	if len(m) == 0 {
		return Match{}, false
	}
	return m[0], true
}

// minSuggestSimilarity is the Jaro-Winkler floor for [Suggest].
const minSuggestSimilarity = 0.7

// Suggest returns up to n names most similar to query by Jaro-Winkler
// similarity, best first.
func Suggest(query string, names []string, n int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || n <= 0 {
		return nil
	}
	type scored struct {
		name  string
		score float64
	}
	var ranked []scored
	for _, name := range names {
		s := matchr.JaroWinkler(q, strings.ToLower(name), false)
		if s >= minSuggestSimilarity {
			ranked = append(ranked, scored{name, s})
		}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	out := make([]string, 0, min(n, len(ranked)))
	for _, r := range ranked[:min(n, len(ranked))] {
		out = append(out, r.name)
	}
	return out
}
