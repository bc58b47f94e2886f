// Package engine turns one raw transcript plus a session snapshot into a
// [Result]: a set ready to commit, a set that needs confirmation, a
// completion or navigation command, or a parse failure.
//
// The pipeline is normalize → classify intent → resolve exercise → extract
// fields → score confidence. [Engine.Parse] never returns a Go error and
// never mutates its inputs; committing the result and updating the session
// is the caller's job (see [session.Tracker]).
package engine

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/MrWong99/voicelift/internal/confidence"
	"github.com/MrWong99/voicelift/internal/exercise"
	"github.com/MrWong99/voicelift/internal/extract"
	"github.com/MrWong99/voicelift/internal/fuzzy"
	"github.com/MrWong99/voicelift/internal/intent"
	"github.com/MrWong99/voicelift/internal/observe"
	"github.com/MrWong99/voicelift/internal/resolve"
	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/transcript"
	"github.com/MrWong99/voicelift/internal/transcript/phonetic"
	"github.com/MrWong99/voicelift/internal/workout"
)

// Notes added by the engine on top of the extractor's notes.
const (
	NoteQuickComplete       = "quick_complete"
	NoteRepeatLastSet       = "repeat_last_set"
	NoteExerciseFromContext = "exercise_from_context"
	NoteMisheardCompletion  = "misheard_completion"
	NotePhoneticCorrection  = "phonetic_correction"
)

// StrategyContext is reported when the utterance named no exercise and the
// session's current exercise was used.
const StrategyContext = "context"

// DefaultSuggestions is the number of library suggestions attached to a new
// exercise candidate.
const DefaultSuggestions = 3

// Option configures an [Engine].
type Option func(*Engine)

// WithChain replaces the resolver chain. Default: [resolve.DefaultChain].
func WithChain(c resolve.Chain) Option {
	return func(e *Engine) {
		e.chain = c
	}
}

// WithPhonetic enables vocabulary correction of the transcript with m. The
// vocabulary follows the library and is rebuilt whenever it changes.
func WithPhonetic(m *phonetic.Matcher) Option {
	return func(e *Engine) {
		e.matcher = m
	}
}

// WithMetrics sets the metrics sink. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithSuggestions sets how many suggestions a new candidate carries.
func WithSuggestions(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.suggestions = n
		}
	}
}

// correctorCache pairs a corrector with the index snapshot it was built from.
type correctorCache struct {
	idx *exercise.Index
	c   *transcript.Corrector
}

// Engine interprets utterances against an exercise library. It holds no
// per-session state and is safe for concurrent use; callers serialise calls
// per session themselves.
type Engine struct {
	lib         *exercise.Library
	chain       resolve.Chain
	matcher     *phonetic.Matcher
	metrics     *observe.Metrics
	suggestions int

	corrector atomic.Pointer[correctorCache]
}

// New creates an engine over lib.
func New(lib *exercise.Library, opts ...Option) *Engine {
	e := &Engine{
		lib:         lib,
		chain:       resolve.DefaultChain(),
		suggestions: DefaultSuggestions,
	}
	for _, o := range opts {
		o(e)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	return e
}

// Parse interprets raw against st.
func (e *Engine) Parse(ctx context.Context, raw string, st session.State) Result {
	start := time.Now()
	ctx, span := observe.StartSpan(ctx, "engine.Parse")
	defer span.End()

	res := e.parse(raw, st)

	outcome := res.Outcome()
	span.SetAttributes(
		attribute.String("voicelift.intent", res.Intent.String()),
		attribute.String("voicelift.outcome", outcome),
		attribute.String("voicelift.strategy", res.Strategy),
	)
	if res.Err != nil && !IsSoft(res.Err) {
		span.SetStatus(codes.Error, res.Err.Error())
	}

	e.metrics.ParseDuration.Record(ctx, time.Since(start).Seconds())
	e.metrics.RecordUtterance(ctx, outcome)
	e.metrics.RecordConfirmationReasons(ctx, res.NeedsConfirmation...)
	if res.Strategy != "" {
		e.metrics.RecordResolverHit(ctx, res.Strategy)
	}

	log := observe.Logger(ctx)
	if res.Err != nil {
		log.Debug("engine: utterance rejected", "text", raw, "intent", res.Intent.String(), "err", res.Err)
	} else {
		log.Debug("engine: utterance parsed",
			"text", raw,
			"intent", res.Intent.String(),
			"exercise", res.Exercise,
			"strategy", res.Strategy,
			"outcome", outcome,
			"confidence", res.Confidence,
			"reasons", res.NeedsConfirmation,
		)
	}
	return res
}

func (e *Engine) parse(raw string, st session.State) Result {
	res := Result{
		RawText:           raw,
		Sets:              1,
		NeedsConfirmation: []string{},
		Notes:             []string{},
	}
	if strings.TrimSpace(raw) == "" {
		return res.fail(ErrEmptyTranscript)
	}

	idx := e.index()
	lex := transcript.Lexical(raw)
	if c := e.correctorFor(idx); c != nil {
		fixed := c.Correct(lex)
		if len(fixed.Corrections) > 0 {
			lex = fixed.Text
			res.Corrections = fixed.Corrections
			res.note(NotePhoneticCorrection)
		}
	}
	if lex == "" {
		return res.fail(ErrEmptyTranscript)
	}
	norm := transcript.Normalize(lex)

	res.Intent = intent.Classify(lex, st.HasActive())
	switch res.Intent {
	case intent.Complete:
		return complete(res, st, idx)
	case intent.SkipSet, intent.SkipExercise:
		return navigate(res, st)
	}

	match, ok := e.resolve(norm, st, idx)
	if !ok {
		return res.fail(ErrNoExercise)
	}
	if match.Strategy == StrategyContext {
		res.note(NoteExerciseFromContext)
	}

	// A lone "dumbbell" is far more often a misheard "done" than an
	// exercise name.
	if resolve.MisheardCompletion(match.Name, norm) && st.HasTargets() {
		res.Intent = intent.Complete
		res.note(NoteMisheardCompletion)
		return complete(res, st, idx)
	}

	res.Exercise = match.Name
	res.Strategy = match.Strategy
	res.Candidate = match.NewCandidate

	bodyweight := idx.IsBodyweight(match.Name)
	xctx := extractContext(st, match, bodyweight)
	f := extract.Extract(norm, xctx)

	res.Weight = f.Weight
	res.Reps = f.Reps
	res.Sets = f.Sets
	res.Bodyweight = f.Bodyweight
	res.Unit = f.Unit
	res.Notes = append(res.Notes, f.Notes...)

	decision := confidence.Evaluate(confidence.Input{
		Fields:             f,
		ExerciseResolved:   true,
		NewCandidate:       match.NewCandidate,
		CurrentExercise:    st.IsCurrent(match.Name),
		BodyweightExercise: bodyweight,
		HasPreviousSet:     xctx.LastSet != nil,
	})
	res.NeedsConfirmation = decision.Reasons
	res.Confidence = decision.Score
	res.HighConfidence = decision.High

	if match.NewCandidate && e.suggestions > 0 {
		res.Suggestions = fuzzy.Suggest(match.Name, canonicalNames(idx), e.suggestions)
	}

	// Every path leaving reps unset records a reason; keep the guard anyway.
	if res.Reps == nil && !decision.NeedsConfirmation() {
		return res.fail(ErrMissingReps)
	}
	return res
}

// resolve finds the exercise the utterance refers to. An utterance without
// exercise words targets the session's current exercise.
func (e *Engine) resolve(norm string, st session.State, idx *exercise.Index) (resolve.Match, bool) {
	q := resolve.Query(norm)
	if q == "" {
		name := st.CurrentExercise
		if name == "" && st.LastSet != nil {
			name = st.LastSet.Exercise
		}
		if name == "" {
			return resolve.Match{}, false
		}
		return resolve.Match{
			Name:      name,
			Score:     1,
			PlanIndex: planIndex(st, name),
			Strategy:  StrategyContext,
		}, true
	}
	return e.chain.Resolve(resolve.Input{
		Text:    norm,
		Query:   q,
		Mode:    st.Mode,
		Plan:    st.PlanNames(),
		Recent:  st.Recent,
		Library: idx,
	})
}

// extractContext narrows the session to what back-fill may use for the
// resolved exercise. Last and target values only belong to the current
// exercise; another plan entry contributes its own targets.
func extractContext(st session.State, m resolve.Match, bodyweight bool) extract.Context {
	c := extract.Context{IsFirstSet: true, BodyweightExercise: bodyweight}
	switch {
	case st.IsCurrent(m.Name):
		c.LastWeight, c.LastReps = st.LastWeight, st.LastReps
		c.TargetWeight, c.TargetReps = st.TargetWeight, st.TargetReps
		c.IsFirstSet = st.IsFirstSet
	case m.InPlan():
		if entry, ok := st.PlanEntry(m.PlanIndex); ok {
			c.TargetWeight, c.TargetReps = entry.TargetWeight, entry.TargetReps
		}
	}
	if st.LastSet != nil && strings.EqualFold(st.LastSet.Exercise, m.Name) {
		c.LastSet = st.LastSet
	}
	return c
}

// complete answers a completion command with the current exercise's targets.
func complete(res Result, st session.State, idx *exercise.Index) Result {
	res.Intent = intent.Complete
	if !st.HasActive() {
		if st.Mode != workout.ModeQuickStart || st.LastSet == nil {
			return res.fail(ErrNoActiveExercise)
		}
		last := st.LastSet
		res.Exercise = last.Exercise
		res.Weight = workout.Float(last.Weight)
		res.Reps = workout.Int(last.Reps)
		res.Bodyweight = last.Bodyweight
		res.note(NoteRepeatLastSet)
		return quickComplete(res)
	}

	bodyweight := idx.IsBodyweight(st.CurrentExercise)
	weight := st.TargetWeight
	if weight == nil && bodyweight {
		weight = workout.Float(0)
	}
	if weight == nil || st.TargetReps == nil {
		return res.fail(ErrMissingTargets)
	}
	res.Exercise = st.CurrentExercise
	res.Weight = workout.Float(*weight)
	res.Reps = workout.Int(*st.TargetReps)
	res.Bodyweight = bodyweight && *weight == 0
	return quickComplete(res)
}

func quickComplete(res Result) Result {
	res.QuickComplete = true
	res.Unit = extract.UnitKg
	res.Confidence = 1
	res.HighConfidence = true
	res.NeedsConfirmation = []string{}
	res.note(NoteQuickComplete)
	return res
}

// navigate answers skip commands.
func navigate(res Result, st session.State) Result {
	var (
		nav session.Navigation
		err error
	)
	if res.Intent == intent.SkipSet {
		nav, err = st.PlanSkipSet()
	} else {
		nav, err = st.PlanSkipExercise()
	}
	if err != nil {
		return res.fail(err)
	}
	res.Navigation = &nav
	res.Exercise = nav.Exercise
	return res
}

func (e *Engine) index() *exercise.Index {
	if e.lib == nil {
		return exercise.NewIndex(exercise.Core(), nil)
	}
	return e.lib.Index()
}

// commandWords are the words the intent, extractor and query tables match
// on. Correcting one of them into exercise vocabulary would stop the rule
// from firing ("5 revs" must not become "5 reverse").
var commandWords = sync.OnceValue(func() []string {
	var patterns []*regexp.Regexp
	for _, r := range intent.Rules() {
		patterns = append(patterns, r.Pattern)
	}
	patterns = append(patterns, extract.Patterns()...)
	return append(transcript.PatternWords(patterns...), resolve.StopWords()...)
})

// correctorFor returns the phonetic corrector for idx, rebuilding it when
// the library snapshot changed.
func (e *Engine) correctorFor(idx *exercise.Index) *transcript.Corrector {
	if e.matcher == nil {
		return nil
	}
	if cc := e.corrector.Load(); cc != nil && cc.idx == idx {
		return cc.c
	}
	c := transcript.NewCorrector(e.matcher, idx.Names(), transcript.WithReserved(commandWords()...))
	e.corrector.Store(&correctorCache{idx: idx, c: c})
	return c
}

func canonicalNames(idx *exercise.Index) []string {
	entries := idx.Entries()
	names := make([]string, len(entries))
	for i, d := range entries {
		names[i] = d.Name
	}
	return names
}

func planIndex(st session.State, name string) int {
	for i, e := range st.Plan {
		if strings.EqualFold(e.Name, name) {
			return i
		}
	}
	return -1
}
