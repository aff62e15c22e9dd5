package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/lfnd/pkg/dispatch"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "lfnd").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolution duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "lfnd",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for one registry.
type Metrics struct {
	dispatchTotal     *prometheus.CounterVec
	dispatchDuration  *prometheus.HistogramVec
	navigationsTotal  *prometheus.CounterVec
	activeNavigators  prometheus.Gauge
	navigatorFailures *prometheus.CounterVec
}

// metricsKey identifies a set of collectors. Collectors are cached per
// registerer and name prefix so that building the middleware twice against
// the same registry does not panic on duplicate registration.
type metricsKey struct {
	registry  prometheus.Registerer
	namespace string
	subsystem string
}

var (
	metricsMu    sync.Mutex
	metricsCache = map[metricsKey]*Metrics{}
)

// NewMetrics returns the metrics registered with the configured registry
// under the configured namespace and subsystem, creating them on first use.
// Buckets and const labels of a cached set are those of its first use.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	metricsMu.Lock()
	defer metricsMu.Unlock()

	key := metricsKey{registry: config.Registry, namespace: config.Namespace, subsystem: config.Subsystem}
	if m, ok := metricsCache[key]; ok {
		return m
	}
	m := initMetrics(config)
	metricsCache[key] = m
	return m
}

func initMetrics(config MetricsConfig) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_total",
			Help:        "Total number of path resolutions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Path resolution duration in seconds, handler included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"outcome"}),

		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total navigation commands received over WebSocket by action",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		activeNavigators: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_navigators",
			Help:        "Number of open WebSocket navigation channels",
			ConstLabels: config.ConstLabels,
		}),

		navigatorFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigator_errors_total",
			Help:        "Total WebSocket navigation channel errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Middleware returns a dispatch middleware recording every resolution.
func (m *Metrics) Middleware() dispatch.Middleware {
	return func(next dispatch.ResolveFunc) dispatch.ResolveFunc {
		return func(ctx context.Context, path string) dispatch.Outcome {
			start := time.Now()
			out := next(ctx, path)

			outcome := out.Kind.String()
			m.dispatchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
			m.dispatchTotal.WithLabelValues(outcome).Inc()
			return out
		}
	}
}

// NavigatorOpened records a new navigation channel.
func (m *Metrics) NavigatorOpened() {
	m.activeNavigators.Inc()
}

// NavigatorClosed records a closed navigation channel.
func (m *Metrics) NavigatorClosed() {
	m.activeNavigators.Dec()
}

// Navigation records one navigation command.
func (m *Metrics) Navigation(action string) {
	m.navigationsTotal.WithLabelValues(action).Inc()
}

// NavigatorError records a navigation channel error of the given type
// (e.g. "read", "write", "decode").
func (m *Metrics) NavigatorError(kind string) {
	m.navigatorFailures.WithLabelValues(kind).Inc()
}

// Prometheus creates middleware that collects resolution metrics.
//
// Metrics collected:
//   - lfnd_dispatch_total: Counter of resolutions by outcome
//   - lfnd_dispatch_duration_seconds: Histogram of resolution duration
//
// Example:
//
//	r.Use(middleware.Prometheus(middleware.WithNamespace("myapp")))
func Prometheus(opts ...MetricsOption) dispatch.Middleware {
	return NewMetrics(opts...).Middleware()
}
