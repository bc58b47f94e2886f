// Package api exposes the engine over HTTP. Clients create a workout session,
// post transcribed utterances to it and confirm sets the engine could not
// commit on its own.
//
// Routes:
//
//	POST   /v1/sessions                  start a session (optional plan)
//	GET    /v1/sessions/{id}             session state
//	DELETE /v1/sessions/{id}             end a session
//	POST   /v1/sessions/{id}/utterances  interpret one utterance
//	POST   /v1/sessions/{id}/sets        commit a confirmed set
//	GET    /v1/sessions/{id}/sets        logged sets
//	POST   /v1/sessions/{id}/feedback    report a misinterpreted utterance
//	GET    /v1/exercises                 exercise library
//	POST   /v1/exercises                 add a custom exercise
//	GET    /healthz, /readyz, /metrics
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrWong99/voicelift/internal/engine"
	"github.com/MrWong99/voicelift/internal/exercise"
	"github.com/MrWong99/voicelift/internal/feedback"
	"github.com/MrWong99/voicelift/internal/health"
	"github.com/MrWong99/voicelift/internal/observe"
	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/workout"
)

// maxBodyBytes caps request bodies; utterances and plans are small.
const maxBodyBytes = 64 << 10

// Option configures a [Server].
type Option func(*Server)

// WithJournal persists committed sets. Default: an in-memory journal.
func WithJournal(j session.Journal) Option {
	return func(s *Server) { s.journal = j }
}

// WithMetrics overrides [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithHealth mounts /healthz and /readyz served by h.
func WithHealth(h *health.Handler) Option {
	return func(s *Server) { s.health = h }
}

// WithMetricsHandler mounts h (usually promhttp.Handler) at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// WithFeedback enables the feedback route, writing reports to fs.
func WithFeedback(fs *feedback.FileStore) Option {
	return func(s *Server) { s.feedback = fs }
}

// WithDefaultMode sets the mode of sessions created without one.
func WithDefaultMode(m workout.Mode) Option {
	return func(s *Server) { s.defaultMode = m }
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	engine   *engine.Engine
	library  *exercise.Library
	sessions *session.Manager

	journal        session.Journal
	metrics        *observe.Metrics
	health         *health.Handler
	metricsHandler http.Handler
	feedback       *feedback.FileStore
	defaultMode    workout.Mode

	router chi.Router
}

// New wires the routes.
func New(eng *engine.Engine, lib *exercise.Library, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:   eng,
		library:  lib,
		sessions: sessions,
		router:   chi.NewRouter(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.journal == nil {
		s.journal = &session.MemJournal{}
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	if s.health == nil {
		s.health = health.New()
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(observe.Middleware(s.metrics))

	s.health.Register(s.router)
	if s.metricsHandler != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metricsHandler)
	}

	s.router.Route("/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/utterances", s.handleUtterance)
				r.Post("/sets", s.handleCommitSet)
				r.Get("/sets", s.handleListSets)
				if s.feedback != nil {
					r.Post("/feedback", s.handleFeedback)
				}
			})
		})
		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleAddExercise)
	})
}
