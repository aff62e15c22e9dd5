// Package middleware provides observability middleware for dispatch routers.
//
// This package includes:
//   - OpenTelemetry tracing of every resolution
//   - Prometheus metrics for resolutions and navigation sessions
//   - Structured request logging with log/slog
//
// # OpenTelemetry Middleware
//
//	r := dispatch.New()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithFilter(func(path string) bool {
//	        return path != "/healthz"
//	    }),
//	))
//
// The span is stored in the context handed to the route handler, so handlers
// can add attributes with trace.SpanFromContext(ctx).
//
// # Prometheus Metrics
//
//	m := middleware.NewMetrics(middleware.WithNamespace("myapp"))
//	r.Use(m.Middleware())
//	http.Handle("/metrics", promhttp.Handler())
//
// Labels never include raw paths; resolutions are labelled by outcome
// (matched, no_handler, not_found) to keep cardinality bounded.
package middleware
