// Package app wires all voicelift subsystems into a running application.
//
// The App struct owns the full lifecycle: New opens storage and builds the
// engine, session registry and HTTP surface, Run serves until the context is
// cancelled, and Shutdown tears everything down in order.
//
// For testing, inject doubles via functional options (WithExerciseStore,
// WithJournal, WithMetrics). When an option is not provided, New creates real
// implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/voicelift/internal/api"
	"github.com/MrWong99/voicelift/internal/config"
	"github.com/MrWong99/voicelift/internal/engine"
	"github.com/MrWong99/voicelift/internal/exercise"
	"github.com/MrWong99/voicelift/internal/feedback"
	"github.com/MrWong99/voicelift/internal/health"
	"github.com/MrWong99/voicelift/internal/observe"
	"github.com/MrWong99/voicelift/internal/resilience"
	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/storage/postgres"
	"github.com/MrWong99/voicelift/internal/storage/sqlite"
	"github.com/MrWong99/voicelift/internal/transcript/phonetic"
	"github.com/MrWong99/voicelift/internal/workout"
)

const (
	// spoolLimit is the number of spooled sets after which /readyz reports
	// the journal as not ready.
	spoolLimit = 1000

	// flushInterval is how often spooled sets are retried.
	flushInterval = 5 * time.Second
)

// App owns all subsystem lifetimes.
type App struct {
	cfg *config.Config

	store    exercise.Store
	journal  session.Journal
	guarded  *resilience.GuardedJournal
	library  *exercise.Library
	engine   *engine.Engine
	sessions *session.Manager
	metrics  *observe.Metrics
	feedback *feedback.FileStore
	server   *api.Server
	checkers []health.Checker

	httpServer *http.Server
	listener   net.Listener

	// closers are called in order during Shutdown.
	closers []func() error

	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithExerciseStore injects a custom exercise store instead of opening the
// configured driver. Combine with WithJournal.
func WithExerciseStore(s exercise.Store) Option {
	return func(a *App) { a.store = s }
}

// WithJournal injects a logged-set journal instead of opening the configured
// driver.
func WithJournal(j session.Journal) Option {
	return func(a *App) { a.journal = j }
}

// WithMetrics sets the metrics sink. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithListener serves on l instead of listening on cfg.Server.ListenAddr.
func WithListener(l net.Listener) Option {
	return func(a *App) { a.listener = l }
}

// New creates an App from cfg. It performs all initialisation synchronously:
// storage connection, library load, engine and session registry
// construction, and HTTP route assembly. Nothing is served until Run.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}

	if err := a.initStorage(ctx); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("app: init storage: %w", err)
	}

	lib, err := exercise.NewLibrary(ctx, a.store)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("app: load library: %w", err)
	}
	a.library = lib

	a.engine = engine.New(lib, a.engineOptions()...)

	if path := cfg.Storage.FeedbackFile; path != "" {
		a.feedback = feedback.NewFileStore(path)
	}

	a.sessions = session.NewManager(
		session.WithIdleTimeout(cfg.Engine.SessionIdleTimeout),
		session.WithTrackerOptions(session.WithRecentLimit(cfg.Engine.RecentLimit)),
		session.WithObserver(func(delta int64) {
			a.metrics.ActiveSessions.Add(context.Background(), delta)
		}),
	)

	a.server = api.New(a.engine, a.library, a.sessions, a.apiOptions()...)
	return a, nil
}

// initStorage opens the configured driver unless both collaborators were
// injected.
func (a *App) initStorage(ctx context.Context) error {
	if a.store != nil && a.journal != nil {
		return nil
	}
	st := a.cfg.Storage
	switch st.Driver {
	case config.StorageMemory, "":
		a.setDefaults(exercise.NewMemStore(), &session.MemJournal{})
	case config.StorageFile:
		fs, err := exercise.OpenFileStore(st.ExercisesFile)
		if err != nil {
			return err
		}
		a.setDefaults(fs, &session.MemJournal{})
	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, st.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		a.checkers = append(a.checkers, health.Ping("sqlite", db))
		a.setDefaults(db, db)
	case config.StoragePostgres:
		db, err := postgres.Open(ctx, st.PostgresDSN)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		a.checkers = append(a.checkers, health.Ping("postgres", db))
		if a.journal == nil {
			a.guarded = resilience.NewGuardedJournal(db, resilience.BreakerConfig{Name: "postgres-journal"})
			a.checkers = append(a.checkers, health.Backlog("journal", a.guarded.Spooled, spoolLimit))
		}
		a.setDefaults(db, a.guarded)
	default:
		return fmt.Errorf("unknown storage driver %q", st.Driver)
	}
	slog.Info("app: storage ready", "driver", st.Driver)
	return nil
}

// setDefaults fills whichever collaborator was not injected.
func (a *App) setDefaults(store exercise.Store, journal session.Journal) {
	if a.store == nil {
		a.store = store
	}
	if a.journal == nil {
		a.journal = journal
	}
}

func (a *App) engineOptions() []engine.Option {
	ec := a.cfg.Engine
	opts := []engine.Option{
		engine.WithMetrics(a.metrics),
		engine.WithSuggestions(ec.Suggestions),
	}
	if ec.Phonetic.IsEnabled() {
		var popts []phonetic.Option
		if ec.Phonetic.PhoneticThreshold > 0 {
			popts = append(popts, phonetic.WithPhoneticThreshold(ec.Phonetic.PhoneticThreshold))
		}
		if ec.Phonetic.FuzzyThreshold > 0 {
			popts = append(popts, phonetic.WithFuzzyThreshold(ec.Phonetic.FuzzyThreshold))
		}
		opts = append(opts, engine.WithPhonetic(phonetic.New(popts...)))
	}
	return opts
}

func (a *App) apiOptions() []api.Option {
	opts := []api.Option{
		api.WithJournal(a.journal),
		api.WithMetrics(a.metrics),
		api.WithHealth(health.New(a.checkers...)),
	}
	if mode, ok := workout.ParseMode(a.cfg.Engine.DefaultMode); ok {
		opts = append(opts, api.WithDefaultMode(mode))
	}
	if a.feedback != nil {
		opts = append(opts, api.WithFeedback(a.feedback))
	}
	if a.cfg.Telemetry.MetricsEnabled() {
		opts = append(opts, api.WithMetricsHandler(promhttp.Handler()))
	}
	return opts
}

// Engine returns the utterance engine.
func (a *App) Engine() *engine.Engine { return a.engine }

// Library returns the exercise library.
func (a *App) Library() *exercise.Library { return a.library }

// Journal returns the logged-set journal.
func (a *App) Journal() session.Journal { return a.journal }

// Sessions returns the session registry.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Feedback returns the feedback store, or nil when feedback is disabled.
func (a *App) Feedback() *feedback.FileStore { return a.feedback }

// Handler returns the HTTP surface.
func (a *App) Handler() http.Handler { return a.server }

// Run serves HTTP and runs the background loops (idle-session sweeping and,
// for the postgres driver, spooled-set flushing). It blocks until ctx is
// cancelled or the server fails, then stops the server gracefully.
func (a *App) Run(ctx context.Context) error {
	ln := a.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", a.cfg.Server.ListenAddr)
		if err != nil {
			return fmt.Errorf("app: listen: %w", err)
		}
	}
	a.httpServer = &http.Server{
		Handler:           a.server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.sessions.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("app: serving", "addr", ln.Addr().String(), "tls", a.cfg.Server.TLS != nil)
		var err error
		if tls := a.cfg.Server.TLS; tls != nil {
			err = a.httpServer.ServeTLS(ln, tls.CertFile, tls.KeyFile)
		} else {
			err = a.httpServer.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.httpServer.Shutdown(sctx)
	})
	if a.guarded != nil {
		g.Go(func() error { return a.guarded.Run(gctx, flushInterval) })
	}

	err := g.Wait()
	if err != nil {
		return err
	}
	return ctx.Err()
}

// Shutdown tears down all subsystems. It respects the context deadline: if
// ctx expires before all closers finish, remaining closers are skipped and
// the context error is returned. Spooled sets get one last flush attempt.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		slog.Info("app: shutting down", "closers", len(a.closers))

		if a.sessions != nil {
			a.sessions.Stop()
		}
		if a.guarded != nil && a.guarded.Spooled() > 0 {
			if err := a.guarded.Flush(ctx); err != nil {
				slog.Warn("app: spooled sets lost", "spooled", a.guarded.Spooled(), "err", err)
			}
		}

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("app: shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("app: closer error", "index", i, "err", err)
			}
		}

		slog.Info("app: shutdown complete")
	})
	return shutdownErr
}

// closeAll releases whatever New opened before failing.
func (a *App) closeAll() {
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
}
