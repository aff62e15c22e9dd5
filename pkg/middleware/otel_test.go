package middleware

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/vango-dev/lfnd/pkg/dispatch"
	"github.com/vango-dev/lfnd/pkg/qntree"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingSpan captures what the middleware writes to a span.
type recordingSpan struct {
	noop.Span
	mu     sync.Mutex
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	ended  bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordingSpan) SetStatus(code codes.Code, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

func (s *recordingSpan) End(...trace.SpanEndOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}

type recordingTracer struct {
	noop.Tracer
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &recordingSpan{name: name, attrs: map[attribute.Key]attribute.Value{}}
	span.SetAttributes(cfg.Attributes()...)
	t.spans = append(t.spans, span)
	return trace.ContextWithSpan(ctx, span), span
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{tracer: &recordingTracer{}}
}

func TestOpenTelemetryRecordsSpan(t *testing.T) {
	tp := newRecordingProvider()

	var handlerSpan trace.Span
	r := dispatch.New()
	r.Handle("/users/:id", func(ctx context.Context, p qntree.Params) dispatch.Response {
		handlerSpan = trace.SpanFromContext(ctx)
		return dispatch.Text(p["id"])
	})
	r.Use(OpenTelemetry(WithTracerProvider(tp), WithParamAttributes(true)))

	r.Resolve(context.Background(), "/users/42")

	if len(tp.tracer.spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(tp.tracer.spans))
	}
	span := tp.tracer.spans[0]
	if span.name != SpanName {
		t.Errorf("span name = %q, want %q", span.name, SpanName)
	}
	if !span.ended {
		t.Error("span was not ended")
	}
	if handlerSpan != trace.Span(span) {
		t.Error("handler context does not carry the dispatch span")
	}

	want := map[attribute.Key]string{
		"lfnd.path":     "/users/42",
		"lfnd.outcome":  "matched",
		"lfnd.param.id": "42",
	}
	for k, v := range want {
		if got := span.attrs[k].AsString(); got != v {
			t.Errorf("attr %s = %q, want %q", k, got, v)
		}
	}
	if got := span.attrs["lfnd.status"].AsInt64(); got != http.StatusOK {
		t.Errorf("lfnd.status = %d, want 200", got)
	}
	if span.status != codes.Ok {
		t.Errorf("status = %v, want Ok", span.status)
	}
}

func TestOpenTelemetryParamsOffByDefault(t *testing.T) {
	tp := newRecordingProvider()
	r := newTestRouter()
	r.Use(OpenTelemetry(WithTracerProvider(tp)))

	r.Resolve(context.Background(), "/users/42")

	if _, ok := tp.tracer.spans[0].attrs["lfnd.param.id"]; ok {
		t.Error("parameter recorded without WithParamAttributes")
	}
}

func TestOpenTelemetryServerErrorStatus(t *testing.T) {
	tp := newRecordingProvider()
	r := dispatch.New()
	r.Handle("/fail", func(context.Context, qntree.Params) dispatch.Response {
		return dispatch.Response{Status: http.StatusBadGateway}
	})
	r.Use(OpenTelemetry(WithTracerProvider(tp)))

	r.Resolve(context.Background(), "/fail")

	if tp.tracer.spans[0].status != codes.Error {
		t.Errorf("status = %v, want Error", tp.tracer.spans[0].status)
	}
}

func TestOpenTelemetryFilterSkipsTracing(t *testing.T) {
	tp := newRecordingProvider()
	r := newTestRouter()
	r.Use(OpenTelemetry(
		WithTracerProvider(tp),
		WithTracerName("custom"),
		WithFilter(func(path string) bool { return path != "/healthz" }),
	))

	out := r.Resolve(context.Background(), "/healthz")
	if out.Kind != qntree.NotFound {
		t.Errorf("Kind = %v, want NotFound", out.Kind)
	}
	if len(tp.tracer.spans) != 0 {
		t.Errorf("spans = %d, want 0", len(tp.tracer.spans))
	}
}

func TestOpenTelemetryGlobalProvider(t *testing.T) {
	r := newTestRouter()
	r.Use(OpenTelemetry())

	if out := r.Resolve(context.Background(), "/users/7"); out.Response.Body != "7" {
		t.Errorf("Body = %q, want 7", out.Response.Body)
	}
}
