package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/MrWong99/voicelift/internal/api"
	"github.com/MrWong99/voicelift/internal/engine"
	"github.com/MrWong99/voicelift/internal/exercise"
	"github.com/MrWong99/voicelift/internal/feedback"
	"github.com/MrWong99/voicelift/internal/health"
	"github.com/MrWong99/voicelift/internal/observe"
	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/workout"
)

type fixture struct {
	srv     *httptest.Server
	reader  *sdkmetric.ManualReader
	journal *session.MemJournal
}

func newFixture(t *testing.T, opts ...api.Option) *fixture {
	t.Helper()
	ctx := context.Background()

	lib, err := exercise.NewLibrary(ctx, exercise.NewMemStore())
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	journal := &session.MemJournal{}
	eng := engine.New(lib, engine.WithMetrics(m))
	opts = append([]api.Option{api.WithMetrics(m), api.WithJournal(journal)}, opts...)
	s := api.New(eng, lib, session.NewManager(), opts...)

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, reader: reader, journal: journal}
}

func (f *fixture) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (f *fixture) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := f.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			var total int64
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

type sessionBody struct {
	ID    string `json:"id"`
	State struct {
		Mode            string  `json:"mode"`
		CurrentExercise string  `json:"current_exercise"`
		ActiveIndex     int     `json:"active_index"`
		SetsDone        int     `json:"sets_done"`
		LastWeight      float64 `json:"last_weight"`
		Recent          []string
	} `json:"state"`
}

type utteranceBody struct {
	Result struct {
		Intent            string   `json:"intent"`
		Exercise          string   `json:"exercise"`
		Weight            *float64 `json:"weight"`
		Reps              *int     `json:"reps"`
		NeedsConfirmation []string `json:"needs_confirmation"`
		Candidate         bool     `json:"candidate"`
	} `json:"result"`
	Outcome   string             `json:"outcome"`
	Error     string             `json:"error"`
	Soft      bool               `json:"soft"`
	Committed *workout.LoggedSet `json:"committed"`
	State     struct {
		CurrentExercise string `json:"current_exercise"`
		ActiveIndex     int    `json:"active_index"`
		SetsDone        int    `json:"sets_done"`
	} `json:"state"`
}

func TestQuickStartSession_AutoCommit(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var sess sessionBody
	if code := f.do(t, http.MethodPost, "/v1/sessions", map[string]any{}, &sess); code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}
	if sess.ID == "" || sess.State.Mode != "quick_start" {
		t.Fatalf("session = %+v", sess)
	}

	var u utteranceBody
	code := f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/utterances", map[string]any{"text": "bench press 80 kg for 8"}, &u)
	if code != http.StatusOK {
		t.Fatalf("utterance status = %d", code)
	}
	if u.Outcome != engine.OutcomeCommitted || u.Committed == nil {
		t.Fatalf("outcome = %q, committed = %v", u.Outcome, u.Committed)
	}
	if u.Committed.Exercise != "Bench Press" || u.Committed.Weight != 80 || u.Committed.Reps != 8 || u.Committed.ID == "" {
		t.Errorf("committed = %+v", *u.Committed)
	}
	if u.State.CurrentExercise != "Bench Press" {
		t.Errorf("current exercise = %q", u.State.CurrentExercise)
	}

	// Memory back-fill against the session's own state.
	u = utteranceBody{}
	code = f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/utterances", map[string]any{"text": "same"}, &u)
	if code != http.StatusOK || u.Committed == nil || u.Committed.Weight != 80 || u.Committed.Reps != 8 {
		t.Fatalf("same: status %d, body %+v", code, u)
	}

	var sets []workout.LoggedSet
	if code := f.do(t, http.MethodGet, "/v1/sessions/"+sess.ID+"/sets", nil, &sets); code != http.StatusOK {
		t.Fatalf("list sets status = %d", code)
	}
	if len(sets) != 2 {
		t.Errorf("journal holds %d sets, want 2", len(sets))
	}
	if got := f.counter(t, "voicelift.sets.committed"); got != 2 {
		t.Errorf("sets committed metric = %d, want 2", got)
	}
}

func TestUtterance_NoAutoCommit(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var sess sessionBody
	f.do(t, http.MethodPost, "/v1/sessions", nil, &sess)

	var u utteranceBody
	f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/utterances",
		map[string]any{"text": "squat 100 kg for 5", "auto_commit": false}, &u)
	if u.Committed != nil {
		t.Error("set committed although auto_commit was false")
	}
	if u.Result.Exercise != "Squat" {
		t.Errorf("exercise = %q", u.Result.Exercise)
	}
}

func TestGuidedSession_CompleteAndSkip(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	plan := workout.Plan{Name: "Legs", Exercises: []workout.PlanEntry{
		{Name: "Squat", TargetSets: 3, TargetReps: workout.Int(5), TargetWeight: workout.Float(100)},
		{Name: "Bench Press", TargetSets: 3, TargetReps: workout.Int(8), TargetWeight: workout.Float(80)},
	}}
	var sess sessionBody
	if code := f.do(t, http.MethodPost, "/v1/sessions", map[string]any{"mode": "guided", "plan": plan}, &sess); code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}
	if sess.State.CurrentExercise != "Squat" || sess.State.ActiveIndex != 0 {
		t.Fatalf("state = %+v", sess.State)
	}

	var u utteranceBody
	f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/utterances", map[string]any{"text": "done"}, &u)
	if u.Outcome != engine.OutcomeComplete || u.Committed == nil || u.Committed.Weight != 100 || u.Committed.Reps != 5 {
		t.Fatalf("done: %+v", u)
	}
	if u.State.SetsDone != 1 {
		t.Errorf("sets done = %d, want 1", u.State.SetsDone)
	}

	u = utteranceBody{}
	f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/utterances", map[string]any{"text": "skip exercise"}, &u)
	if u.Outcome != engine.OutcomeNavigation || u.State.CurrentExercise != "Bench Press" || u.State.ActiveIndex != 1 {
		t.Fatalf("skip: %+v", u)
	}

	// Nowhere left to go: a soft failure is still a 200.
	u = utteranceBody{}
	code := f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/utterances", map[string]any{"text": "skip"}, &u)
	if code != http.StatusOK || !u.Soft || u.Error == "" {
		t.Errorf("last skip: status %d, soft %v, error %q", code, u.Soft, u.Error)
	}
}

func TestCandidateConfirmation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var sess sessionBody
	f.do(t, http.MethodPost, "/v1/sessions", nil, &sess)

	var u utteranceBody
	f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/utterances", map[string]any{"text": "zottman curl 12 kg for 8"}, &u)
	if u.Outcome != engine.OutcomeConfirm || !u.Result.Candidate || u.Committed != nil {
		t.Fatalf("candidate: %+v", u)
	}

	var confirmed struct {
		Set   workout.LoggedSet    `json:"set"`
		Saved *exercise.Definition `json:"saved_exercise"`
	}
	code := f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/sets", map[string]any{
		"exercise":      u.Result.Exercise,
		"weight":        *u.Result.Weight,
		"reps":          *u.Result.Reps,
		"save_exercise": true,
		"group":         "arms",
	}, &confirmed)
	if code != http.StatusCreated {
		t.Fatalf("confirm status = %d", code)
	}
	if confirmed.Saved == nil || confirmed.Saved.Origin != exercise.OriginCustom {
		t.Errorf("saved = %+v", confirmed.Saved)
	}
	if confirmed.Set.Exercise != "Zottman Curl" || confirmed.Set.Reps != 8 {
		t.Errorf("set = %+v", confirmed.Set)
	}

	// Now a library exercise: the next utterance commits without asking.
	u = utteranceBody{}
	f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/utterances", map[string]any{"text": "zottman curl 12 kg for 8"}, &u)
	if u.Result.Candidate {
		t.Error("saved exercise still proposed as candidate")
	}

	var defs []exercise.Definition
	f.do(t, http.MethodGet, "/v1/exercises?group=arms", nil, &defs)
	found := false
	for _, d := range defs {
		if d.Name == "Zottman Curl" {
			found = true
		}
	}
	if !found {
		t.Error("Zottman Curl missing from /v1/exercises?group=arms")
	}
	if got := f.counter(t, "voicelift.custom_exercises.saved"); got != 1 {
		t.Errorf("custom exercises metric = %d, want 1", got)
	}
}

func TestExercises_Add(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"new", map[string]any{"name": "Spider Curl", "group": "arms"}, http.StatusCreated},
		{"duplicate of custom", map[string]any{"name": "spider curl"}, http.StatusConflict},
		{"duplicate of core", map[string]any{"name": "Bench Press"}, http.StatusConflict},
		{"invalid", map[string]any{"name": "21s"}, http.StatusBadRequest},
		{"unknown field", map[string]any{"name": "Curl", "tempo": 3}, http.StatusBadRequest},
	}
	// Sequential: later cases depend on earlier ones.
	for _, tc := range tests {
		var out map[string]any
		if got := f.do(t, http.MethodPost, "/v1/exercises", tc.body, &out); got != tc.want {
			t.Errorf("%s: status = %d, want %d (%v)", tc.name, got, tc.want, out)
		}
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var sess sessionBody
	f.do(t, http.MethodPost, "/v1/sessions", nil, &sess)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown session", http.MethodGet, "/v1/sessions/nope", nil, http.StatusNotFound},
		{"unknown session utterance", http.MethodPost, "/v1/sessions/nope/utterances", map[string]any{"text": "done"}, http.StatusNotFound},
		{"bad mode", http.MethodPost, "/v1/sessions", map[string]any{"mode": "circuit"}, http.StatusBadRequest},
		{"guided without plan", http.MethodPost, "/v1/sessions", map[string]any{"mode": "guided"}, http.StatusBadRequest},
		{"invalid plan", http.MethodPost, "/v1/sessions", map[string]any{"plan": map[string]any{"exercises": []any{}}}, http.StatusBadRequest},
		{"unparseable utterance", http.MethodPost, "/v1/sessions/" + sess.ID + "/utterances", map[string]any{"text": "hello world"}, http.StatusUnprocessableEntity},
		{"empty utterance", http.MethodPost, "/v1/sessions/" + sess.ID + "/utterances", map[string]any{"text": "  "}, http.StatusUnprocessableEntity},
		{"set without reps", http.MethodPost, "/v1/sessions/" + sess.ID + "/sets", map[string]any{"exercise": "Squat"}, http.StatusBadRequest},
		{"negative weight", http.MethodPost, "/v1/sessions/" + sess.ID + "/sets", map[string]any{"exercise": "Squat", "reps": 5, "weight": -1}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out map[string]any
			if got := f.do(t, tc.method, tc.path, tc.body, &out); got != tc.want {
				t.Errorf("status = %d, want %d (%v)", got, tc.want, out)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var sess sessionBody
	f.do(t, http.MethodPost, "/v1/sessions", nil, &sess)
	if code := f.do(t, http.MethodDelete, "/v1/sessions/"+sess.ID, nil, nil); code != http.StatusNoContent {
		t.Errorf("delete status = %d", code)
	}
	if code := f.do(t, http.MethodDelete, "/v1/sessions/"+sess.ID, nil, nil); code != http.StatusNotFound {
		t.Errorf("second delete status = %d", code)
	}
}

func TestProbesAndMetrics(t *testing.T) {
	t.Parallel()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# HELP voicelift_up\n"))
	})
	f := newFixture(t,
		api.WithHealth(health.New(health.Backlog("journal", func() int { return 0 }, 10))),
		api.WithMetricsHandler(metrics),
	)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, err := http.Get(f.srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
	}

	resp, err := http.Get(f.srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "voicelift_up") {
		t.Errorf("/metrics body = %q", buf.String())
	}
}

func TestFeedback(t *testing.T) {
	t.Parallel()

	fs := feedback.NewFileStore(filepath.Join(t.TempDir(), "feedback.jsonl"))
	f := newFixture(t, api.WithFeedback(fs))

	var sess sessionBody
	f.do(t, http.MethodPost, "/v1/sessions", nil, &sess)

	var rec feedback.Record
	code := f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/feedback", map[string]any{
		"text":     "zottman curl 12 kg for 8",
		"expected": "Hammer Curl",
	}, &rec)
	if code != http.StatusCreated {
		t.Fatalf("feedback status = %d, want 201", code)
	}
	if rec.Outcome != engine.OutcomeConfirm || rec.Exercise != "Zottman Curl" || rec.Mode != "quick_start" {
		t.Errorf("record = %+v", rec)
	}

	// Reporting never commits.
	var sets []workout.LoggedSet
	f.do(t, http.MethodGet, "/v1/sessions/"+sess.ID+"/sets", nil, &sets)
	if len(sets) != 0 {
		t.Errorf("sets = %d, want 0", len(sets))
	}

	if code := f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/feedback", map[string]any{"text": " "}, nil); code != http.StatusBadRequest {
		t.Errorf("empty feedback status = %d, want 400", code)
	}

	recs, err := fs.Records()
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	if len(recs) != 1 || recs[0].Expected != "Hammer Curl" || recs[0].SessionID != sess.ID {
		t.Errorf("stored records = %+v", recs)
	}
}

func TestFeedback_DisabledByDefault(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var sess sessionBody
	f.do(t, http.MethodPost, "/v1/sessions", nil, &sess)

	code := f.do(t, http.MethodPost, "/v1/sessions/"+sess.ID+"/feedback", map[string]any{"text": "squat 5"}, nil)
	if code != http.StatusNotFound && code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 404 or 405", code)
	}
}

// brokenJournal rejects every append, like a database that is down.
type brokenJournal struct{}

func (brokenJournal) Append(context.Context, string, workout.LoggedSet) error {
	return errors.New("disk full")
}

func (brokenJournal) List(context.Context, string) ([]workout.LoggedSet, error) {
	return []workout.LoggedSet{}, nil
}

func TestCommit_JournalFailureLeavesSessionUnchanged(t *testing.T) {
	t.Parallel()
	f := newFixture(t, api.WithJournal(brokenJournal{}))

	var sess sessionBody
	f.do(t, http.MethodPost, "/v1/sessions", nil, &sess)
	path := "/v1/sessions/" + sess.ID

	tests := []struct {
		name string
		path string
		body map[string]any
	}{
		{name: "auto-committed utterance", path: path + "/utterances", body: map[string]any{"text": "bench press 80 kg for 8"}},
		{name: "confirmed set", path: path + "/sets", body: map[string]any{"exercise": "Bench Press", "weight": 80, "reps": 8}},
	}
	for _, tc := range tests {
		var body struct {
			Error string `json:"error"`
		}
		if code := f.do(t, http.MethodPost, tc.path, tc.body, &body); code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d, want 500", tc.name, code)
		}
		if !strings.Contains(body.Error, "disk full") {
			t.Errorf("%s: error = %q", tc.name, body.Error)
		}

		var got sessionBody
		f.do(t, http.MethodGet, path, nil, &got)
		if got.State.SetsDone != 0 || got.State.CurrentExercise != "" || len(got.State.Recent) != 0 {
			t.Errorf("%s: session changed after failed commit: %+v", tc.name, got.State)
		}
	}
	if got := f.counter(t, "voicelift.sets.committed"); got != 0 {
		t.Errorf("sets committed metric = %d, want 0", got)
	}
}
