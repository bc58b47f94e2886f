// Package resolve decides which exercise an utterance refers to.
//
// Resolution is an ordered [Chain] of strategies; the first one that returns
// a match wins:
//
//  1. plan: fuzzy match against the active workout plan's entry names.
//  2. recent_high: quick-start only, session-recent exercises scoring 0.85+.
//  3. recent: quick-start only, session-recent exercises at the mode threshold.
//  4. library: the merged core and custom exercise index.
//  5. candidate: quick-start only, a heuristic new-exercise proposal.
//
// Guided mode never proposes new exercises.
package resolve

import (
	"strings"

	"github.com/MrWong99/voicelift/internal/exercise"
	"github.com/MrWong99/voicelift/internal/fuzzy"
	"github.com/MrWong99/voicelift/internal/workout"
)

// Thresholds used by the default chain.
const (
	QuickStartThreshold     = 0.5
	GuidedThreshold         = 0.6
	RecentLooseThreshold    = 0.4
	RecentHighConfidence    = 0.85
	QuickStartLibraryCutoff = 0.4
)

// Strategy names reported in [Match.Strategy].
const (
	StrategyPlan       = "plan"
	StrategyRecentHigh = "recent_high"
	StrategyRecent     = "recent"
	StrategyLibrary    = "library"
	StrategyCandidate  = "candidate"
)

// Input is everything a strategy may look at.
type Input struct {
	// Text is the full normalized utterance.
	Text string

	// Query is the exercise-bearing part of Text, see [Query].
	Query string

	Mode    workout.Mode
	Plan    []string
	Recent  []string
	Library *exercise.Index
}

// Match is a resolved exercise.
type Match struct {
	Name  string
	Score float64

	// PlanIndex is the position in Input.Plan, or -1.
	PlanIndex int

	FromRecent   bool
	FromLibrary  bool
	NewCandidate bool

	Strategy string
}

// InPlan reports whether the match refers to a plan entry.
func (m Match) InPlan() bool { return m.PlanIndex >= 0 }

// Strategy is one step of the resolution chain.
type Strategy interface {
	Name() string
	Resolve(in Input) (Match, bool)
}

// Chain tries strategies in order.
type Chain []Strategy

// DefaultChain returns the standard five-step chain.
func DefaultChain() Chain {
	return Chain{
		PlanStrategy{},
		RecentStrategy{Threshold: RecentLooseThreshold, MinScore: RecentHighConfidence, Label: StrategyRecentHigh},
		RecentStrategy{Label: StrategyRecent},
		LibraryStrategy{},
		CandidateStrategy{},
	}
}

// Resolve returns the first strategy hit. An empty query never matches.
func (c Chain) Resolve(in Input) (Match, bool) {
	if strings.TrimSpace(in.Query) == "" {
		return Match{}, false
	}
	for _, s := range c {
		if m, ok := s.Resolve(in); ok {
			if m.Strategy == "" {
				m.Strategy = s.Name()
			}
			if m.PlanIndex < 0 {
				m.PlanIndex = planIndex(in.Plan, m.Name)
			}
			return m, true
		}
	}
	return Match{}, false
}

// ModeThreshold returns the default fuzzy threshold for mode.
func ModeThreshold(mode workout.Mode) float64 {
	if mode == workout.ModeGuided {
		return GuidedThreshold
	}
	return QuickStartThreshold
}

func planIndex(plan []string, name string) int {
	for i, p := range plan {
		if strings.EqualFold(p, name) {
			return i
		}
	}
	return -1
}

func bareCandidates(names []string) []fuzzy.Candidate {
	out := make([]fuzzy.Candidate, len(names))
	for i, n := range names {
		out[i] = fuzzy.Candidate{Name: n}
	}
	return out
}

// PlanStrategy matches the plan's entry names without aliases.
type PlanStrategy struct{}

func (PlanStrategy) Name() string { return StrategyPlan }

func (PlanStrategy) Resolve(in Input) (Match, bool) {
	best, ok := fuzzy.FindBestMatch(in.Query, bareCandidates(in.Plan), ModeThreshold(in.Mode))
	if !ok {
		return Match{}, false
	}
	return Match{Name: best.Name, Score: best.Score, PlanIndex: best.Index}, true
}

// RecentStrategy matches exercises already logged this session. It only
// runs in quick-start mode. A zero Threshold means the mode threshold; a
// non-zero MinScore additionally rejects hits scoring below it.
type RecentStrategy struct {
	Threshold float64
	MinScore  float64
	Label     string
}

func (s RecentStrategy) Name() string { return s.Label }

func (s RecentStrategy) Resolve(in Input) (Match, bool) {
	if in.Mode != workout.ModeQuickStart || len(in.Recent) == 0 {
		return Match{}, false
	}
	threshold := s.Threshold
	if threshold == 0 {
		threshold = ModeThreshold(in.Mode)
	}
	best, ok := fuzzy.FindBestMatch(in.Query, bareCandidates(in.Recent), threshold)
	if !ok || best.Score < s.MinScore {
		return Match{}, false
	}
	return Match{Name: best.Name, Score: best.Score, PlanIndex: -1, FromRecent: true}, true
}

// LibraryStrategy scans every library entry including aliases. In guided mode
// the match must already exist in the library.
type LibraryStrategy struct{}

func (LibraryStrategy) Name() string { return StrategyLibrary }

func (LibraryStrategy) Resolve(in Input) (Match, bool) {
	if in.Library == nil {
		return Match{}, false
	}
	threshold := QuickStartLibraryCutoff
	if in.Mode == workout.ModeGuided {
		threshold = GuidedThreshold
	}

	entries := in.Library.Entries()
	candidates := make([]fuzzy.Candidate, len(entries))
	for i, d := range entries {
		candidates[i] = fuzzy.Candidate{Name: d.Name, Aliases: d.Aliases}
	}
	best, ok := fuzzy.FindBestMatch(in.Query, candidates, threshold)
	if !ok {
		return Match{}, false
	}
	if in.Mode == workout.ModeGuided && !in.Library.Exists(best.Name) {
		return Match{}, false
	}
	return Match{Name: best.Name, Score: best.Score, PlanIndex: -1, FromLibrary: true}, true
}

// CandidateStrategy proposes a new exercise in quick-start mode.
type CandidateStrategy struct{}

func (CandidateStrategy) Name() string { return StrategyCandidate }

func (CandidateStrategy) Resolve(in Input) (Match, bool) {
	if in.Mode != workout.ModeQuickStart {
		return Match{}, false
	}
	name, ok := Candidate(in.Text, in.Query)
	if !ok {
		return Match{}, false
	}
	return Match{Name: name, PlanIndex: -1, NewCandidate: true}, true
}
