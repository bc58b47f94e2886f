package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrWong99/voicelift/internal/engine"
	"github.com/MrWong99/voicelift/internal/exercise"
	"github.com/MrWong99/voicelift/internal/feedback"
	"github.com/MrWong99/voicelift/internal/observe"
	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/workout"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	mode := s.defaultMode
	if req.Mode != "" {
		m, ok := workout.ParseMode(req.Mode)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Errorf("unknown mode %q", req.Mode))
			return
		}
		mode = m
	}

	var plan []workout.PlanEntry
	if req.Plan != nil {
		if err := workout.ValidatePlan(req.Plan); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		plan = req.Plan.Exercises
	}
	if mode == workout.ModeGuided && len(plan) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("guided sessions need a plan"))
		return
	}

	sess := s.sessions.Create(mode, plan)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Created: sess.Created, State: viewState(sess.State())})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, Created: sess.Created, State: viewState(sess.State())})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUtterance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req utteranceRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	autoCommit := req.AutoCommit == nil || *req.AutoCommit

	ctx := observe.WithSession(r.Context(), sess.ID)
	var resp utteranceResponse
	err := sess.Do(func(t *session.Tracker) error {
		res := s.engine.Parse(ctx, req.Text, t.State())
		resp = utteranceResponse{Result: res, Outcome: res.Outcome()}

		switch {
		case res.Err != nil:
			resp.Error = res.Err.Error()
			resp.Soft = engine.IsSoft(res.Err)
		case res.Navigation != nil:
			t.Navigate(*res.Navigation)
		case autoCommit && res.AutoCommit():
			set, _ := res.Set()
			committed, err := s.commit(ctx, sess.ID, t, set)
			if err != nil {
				return err
			}
			resp.Committed = &committed
		}
		resp.State = viewState(t.State())
		return nil
	})
	if err != nil {
		observe.Logger(ctx).Error("api: commit failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusOK
	if resp.Error != "" && !resp.Soft {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleCommitSet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req commitSetRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Exercise = strings.TrimSpace(req.Exercise)
	if req.Exercise == "" || req.Reps <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("exercise and positive reps are required"))
		return
	}
	if req.Weight != nil && *req.Weight < 0 {
		writeError(w, http.StatusBadRequest, errors.New("weight must not be negative"))
		return
	}

	ctx := observe.WithSession(r.Context(), sess.ID)
	resp := commitSetResponse{}
	if req.SaveExercise {
		def, err := s.addExercise(ctx, exercise.Definition{
			Name:       req.Exercise,
			Aliases:    req.Aliases,
			Group:      req.Group,
			Bodyweight: req.Bodyweight,
		})
		switch {
		case errors.Is(err, exercise.ErrDuplicate):
			// Saved by an earlier confirmation; log the set anyway.
		case err != nil:
			writeError(w, statusFor(err), err)
			return
		default:
			resp.Saved = &def
		}
	}

	set := workout.LoggedSet{Exercise: req.Exercise, Reps: req.Reps, Bodyweight: req.Bodyweight}
	if req.Weight != nil {
		set.Weight = *req.Weight
	}

	err := sess.Do(func(t *session.Tracker) error {
		committed, err := s.commit(ctx, sess.ID, t, set)
		if err != nil {
			return err
		}
		resp.Set = committed
		resp.State = viewState(t.State())
		return nil
	})
	switch {
	case errors.Is(err, session.ErrInvalidSet):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		observe.Logger(ctx).Error("api: commit failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sets, err := s.journal.List(r.Context(), sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

// handleFeedback re-interprets the reported utterance against the current
// session state, without committing, and stores the report.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req feedbackRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := observe.WithSession(r.Context(), sess.ID)
	st := sess.State()
	res := s.engine.Parse(ctx, req.Text, st)
	rec := feedback.Record{
		SessionID:       sess.ID,
		Transcript:      req.Text,
		Mode:            st.Mode.String(),
		CurrentExercise: st.CurrentExercise,
		Outcome:         res.Outcome(),
		Exercise:        res.Exercise,
		Reasons:         res.NeedsConfirmation,
		Expected:        req.Expected,
		Comments:        req.Comments,
	}
	saved, err := s.feedback.Save(rec)
	switch {
	case errors.Is(err, feedback.ErrEmptyTranscript):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		observe.Logger(ctx).Error("api: save feedback", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	group := strings.ToLower(r.URL.Query().Get("group"))
	out := []exercise.Definition{}
	for _, d := range s.library.Index().Entries() {
		if group == "" || strings.ToLower(d.Group) == group {
			out = append(out, d)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var def exercise.Definition
	if err := decode(w, r, &def); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	saved, err := s.addExercise(r.Context(), def)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// commit journals set and then records it in the tracker. Caller holds the
// session.
func (s *Server) commit(ctx context.Context, sessionID string, t *session.Tracker, set workout.LoggedSet) (workout.LoggedSet, error) {
	committed, err := t.CommitTo(ctx, s.journal, sessionID, set)
	if err != nil {
		return workout.LoggedSet{}, err
	}
	s.metrics.SetsCommitted.Add(ctx, 1)
	return committed, nil
}

func (s *Server) addExercise(ctx context.Context, def exercise.Definition) (exercise.Definition, error) {
	saved, err := s.library.Add(ctx, def)
	if err != nil {
		return exercise.Definition{}, err
	}
	s.metrics.CustomExercisesSaved.Add(ctx, 1)
	return saved, nil
}

// session resolves the {id} URL parameter, writing 404 when unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return sess, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, exercise.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, exercise.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
