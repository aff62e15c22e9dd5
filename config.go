package lfnd

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/lfnd/pkg/dispatch"
	"github.com/vango-dev/lfnd/pkg/server"
)

// DefaultMetricsPath is where metrics are served when Metrics is enabled.
const DefaultMetricsPath = "/metrics"

// Config is the application configuration.
type Config struct {
	// Server configures the HTTP/WebSocket server. Logger and Recorder are
	// filled in by New when unset. With Metrics enabled, an empty MetricsPath
	// becomes DefaultMetricsPath and Gatherer comes from MetricsRegistry.
	Server server.Config

	// DisableMetricsEndpoint keeps collecting metrics without serving them.
	DisableMetricsEndpoint bool

	// NotFound replaces dispatch.DefaultNotFound when set.
	NotFound *dispatch.Response

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// AccessLog logs every resolution at info level.
	AccessLog bool

	// Metrics enables Prometheus collectors for resolutions and navigation
	// channels.
	Metrics bool

	// MetricsNamespace defaults to "lfnd".
	MetricsNamespace string

	// MetricsRegistry defaults to prometheus.DefaultRegisterer. When it also
	// implements prometheus.Gatherer (as *prometheus.Registry does) the
	// metrics endpoint serves it.
	MetricsRegistry prometheus.Registerer

	// Tracing enables an OpenTelemetry span per resolution.
	Tracing bool

	// TracerName defaults to "lfnd".
	TracerName string

	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}
