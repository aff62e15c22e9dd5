package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vango-dev/lfnd/pkg/dispatch"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for lfnd.
const defaultTracerName = "lfnd"

// SpanName is the name of the span created for each resolution.
const SpanName = "lfnd.dispatch"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "lfnd").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// ParamAttributes records captured parameters as lfnd.param.<name>.
	// Parameters may contain user data, so this is off by default.
	ParamAttributes bool

	// Filter determines which paths to trace. If nil, all paths are traced.
	Filter func(path string) bool
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithParamAttributes enables recording captured parameters on spans.
func WithParamAttributes(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.ParamAttributes = include
	}
}

// WithFilter sets a filter function for paths.
func WithFilter(filter func(path string) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// OpenTelemetry creates middleware that traces every resolution.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main() before serving:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) dispatch.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return func(next dispatch.ResolveFunc) dispatch.ResolveFunc {
		return func(ctx context.Context, path string) dispatch.Outcome {
			if config.Filter != nil && !config.Filter(path) {
				return next(ctx, path)
			}

			ctx, span := tracer.Start(ctx, SpanName,
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("lfnd.path", path)),
			)
			defer span.End()

			out := next(ctx, path)

			attrs := []attribute.KeyValue{
				attribute.String("lfnd.outcome", out.Kind.String()),
			}
			if out.Response.Status != 0 {
				attrs = append(attrs, attribute.Int("lfnd.status", out.Response.Status))
			}
			if config.ParamAttributes {
				for name, value := range out.Params {
					attrs = append(attrs, attribute.String("lfnd.param."+name, value))
				}
			}
			span.SetAttributes(attrs...)

			if out.Response.Status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, "status "+strconv.Itoa(out.Response.Status))
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return out
		}
	}
}
