package observe

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// installTracer registers an in-memory tracer provider for the test.
func installTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	orig := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(orig)
		_ = tp.Shutdown(context.Background())
	})
	return exp
}

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(orig) })
	return &buf
}

func TestTraceID(t *testing.T) {
	installTracer(t)

	if got := TraceID(context.Background()); got != "" {
		t.Errorf("TraceID(background) = %q, want empty", got)
	}

	ctx, span := StartSpan(context.Background(), "parse")
	defer span.End()
	id := TraceID(ctx)
	if len(id) != 32 || strings.Trim(id, "0123456789abcdef") != "" {
		t.Errorf("TraceID = %q, want 32 hex chars", id)
	}
}

func TestStartSpan_TagsSession(t *testing.T) {
	exp := installTracer(t)

	ctx := WithSession(context.Background(), "sess-42")
	_, span := StartSpan(ctx, "engine.Parse")
	span.End()
	_, plain := StartSpan(context.Background(), "bare")
	plain.End()

	spans := exp.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}
	if spans[0].Name != "engine.Parse" {
		t.Errorf("span name = %q", spans[0].Name)
	}
	tagged := false
	for _, kv := range spans[0].Attributes {
		if kv.Key == "voicelift.session_id" && kv.Value.AsString() == "sess-42" {
			tagged = true
		}
	}
	if !tagged {
		t.Error("session span missing voicelift.session_id")
	}
	if len(spans[1].Attributes) != 0 {
		t.Errorf("bare span attributes = %v, want none", spans[1].Attributes)
	}
}

func TestSessionID(t *testing.T) {
	t.Parallel()

	if got := SessionID(context.Background()); got != "" {
		t.Errorf("SessionID(background) = %q", got)
	}
	if got := SessionID(WithSession(context.Background(), "abc")); got != "abc" {
		t.Errorf("SessionID = %q, want abc", got)
	}
}

func TestLogger(t *testing.T) {
	installTracer(t)
	buf := captureLogs(t, slog.LevelInfo)

	Logger(context.Background()).Info("plain")
	plain := buf.String()
	if strings.Contains(plain, "trace_id") || strings.Contains(plain, "session_id") {
		t.Errorf("plain log carries context attrs: %s", plain)
	}
	buf.Reset()

	ctx, span := StartSpan(WithSession(context.Background(), "s1"), "log")
	defer span.End()
	Logger(ctx).Info("set logged")
	got := buf.String()
	for _, want := range []string{"trace_id=", "span_id=", "session_id=s1"} {
		if !strings.Contains(got, want) {
			t.Errorf("log output missing %q: %s", want, got)
		}
	}
}

func TestSampler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "AlwaysOnSampler"},
		{1, "AlwaysOnSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tc := range tests {
		desc := sampler(tc.ratio).Description()
		if !strings.Contains(desc, tc.want) {
			t.Errorf("sampler(%v).Description() = %q, want it to contain %q", tc.ratio, desc, tc.want)
		}
	}
}
