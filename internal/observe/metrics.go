// Package observe provides observability primitives for voicelift:
// OpenTelemetry metrics, tracing, trace-aware structured logging and HTTP
// middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. [InitProvider]
// installs a Prometheus exporter bridge so they can be scraped from /metrics.
// A package-level default [Metrics] instance ([DefaultMetrics]) is provided
// for convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all voicelift metrics.
const meterName = "github.com/MrWong99/voicelift"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use.
type Metrics struct {
	// ParseDuration tracks the time to interpret one utterance.
	ParseDuration metric.Float64Histogram

	// Utterances counts parsed utterances. Use with attribute:
	//   attribute.String("outcome", ...) : committed, confirm, failed,
	//   navigation or complete.
	Utterances metric.Int64Counter

	// ConfirmationReasons counts confirmation reasons. Use with attribute:
	//   attribute.String("reason", ...)
	ConfirmationReasons metric.Int64Counter

	// ResolverHits counts exercise resolutions by strategy. Use with attribute:
	//   attribute.String("strategy", ...)
	ResolverHits metric.Int64Counter

	// SetsCommitted counts sets written to a session.
	SetsCommitted metric.Int64Counter

	// CustomExercisesSaved counts custom exercises added to the library.
	CustomExercisesSaved metric.Int64Counter

	// ActiveSessions tracks the number of live workout sessions.
	ActiveSessions metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("route", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// parseBuckets are histogram boundaries (seconds) for in-process parsing,
// which normally finishes well under a millisecond.
var parseBuckets = []float64{
	0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05,
}

// httpBuckets are histogram boundaries (seconds) for HTTP requests.
var httpBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ParseDuration, err = m.Float64Histogram("voicelift.parse.duration",
		metric.WithDescription("Latency of interpreting one utterance."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(parseBuckets...),
	); err != nil {
		return nil, err
	}

	if met.Utterances, err = m.Int64Counter("voicelift.utterances",
		metric.WithDescription("Total parsed utterances by outcome."),
	); err != nil {
		return nil, err
	}
	if met.ConfirmationReasons, err = m.Int64Counter("voicelift.confirmation.reasons",
		metric.WithDescription("Total confirmation reasons raised by reason."),
	); err != nil {
		return nil, err
	}
	if met.ResolverHits, err = m.Int64Counter("voicelift.resolver.hits",
		metric.WithDescription("Total exercise resolutions by strategy."),
	); err != nil {
		return nil, err
	}
	if met.SetsCommitted, err = m.Int64Counter("voicelift.sets.committed",
		metric.WithDescription("Total sets committed to workout sessions."),
	); err != nil {
		return nil, err
	}
	if met.CustomExercisesSaved, err = m.Int64Counter("voicelift.custom_exercises.saved",
		metric.WithDescription("Total custom exercises added to the library."),
	); err != nil {
		return nil, err
	}

	if met.ActiveSessions, err = m.Int64UpDownCounter("voicelift.active_sessions",
		metric.WithDescription("Number of live workout sessions."),
	); err != nil {
		return nil, err
	}

	if met.HTTPRequestDuration, err = m.Float64Histogram("voicelift.http.request.duration",
		metric.WithDescription("HTTP request latency by method and route."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(httpBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Panics if instrument creation
// fails (should not happen with the global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordUtterance increments the utterance counter for outcome.
func (m *Metrics) RecordUtterance(ctx context.Context, outcome string) {
	m.Utterances.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordConfirmationReasons increments the reason counter once per reason.
func (m *Metrics) RecordConfirmationReasons(ctx context.Context, reasons ...string) {
	for _, r := range reasons {
		m.ConfirmationReasons.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", r)))
	}
}

// RecordResolverHit increments the resolver counter for strategy.
func (m *Metrics) RecordResolverHit(ctx context.Context, strategy string) {
	m.ResolverHits.Add(ctx, 1, metric.WithAttributes(attribute.String("strategy", strategy)))
}
