package lfnd

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/lfnd/pkg/dispatch"
	"github.com/vango-dev/lfnd/pkg/manifest"
	"github.com/vango-dev/lfnd/pkg/middleware"
	"github.com/vango-dev/lfnd/pkg/navigator"
	"github.com/vango-dev/lfnd/pkg/server"
)

// App bundles a router, its middleware and the server in front of it.
// It implements http.Handler.
type App struct {
	router  *dispatch.Router
	server  *server.Server
	metrics *middleware.Metrics

	config Config
	logger *slog.Logger
}

// New creates an application. Middleware is installed in the order
// tracing, metrics, access log, so the span covers the whole resolution.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := []dispatch.Option{dispatch.WithLogger(logger)}
	if cfg.NotFound != nil {
		opts = append(opts, dispatch.WithNotFound(*cfg.NotFound))
	}

	app := &App{
		router: dispatch.New(opts...),
		config: cfg,
		logger: logger,
	}

	if cfg.Tracing {
		otelOpts := []middleware.OTelOption{}
		if cfg.TracerName != "" {
			otelOpts = append(otelOpts, middleware.WithTracerName(cfg.TracerName))
		}
		if cfg.TracerProvider != nil {
			otelOpts = append(otelOpts, middleware.WithTracerProvider(cfg.TracerProvider))
		}
		app.router.Use(middleware.OpenTelemetry(otelOpts...))
	}

	if cfg.Metrics {
		metricsOpts := []middleware.MetricsOption{}
		if cfg.MetricsNamespace != "" {
			metricsOpts = append(metricsOpts, middleware.WithNamespace(cfg.MetricsNamespace))
		}
		if cfg.MetricsRegistry != nil {
			metricsOpts = append(metricsOpts, middleware.WithRegistry(cfg.MetricsRegistry))
		}
		app.metrics = middleware.NewMetrics(metricsOpts...)
		app.router.Use(app.metrics.Middleware())
	}

	if cfg.AccessLog {
		app.router.Use(middleware.Logging(logger))
	}

	serverCfg := cfg.Server
	if serverCfg.Logger == nil {
		serverCfg.Logger = logger
	}
	if app.metrics != nil {
		if serverCfg.Recorder == nil {
			serverCfg.Recorder = app.metrics
		}
		if serverCfg.MetricsPath == "" && !cfg.DisableMetricsEndpoint {
			serverCfg.MetricsPath = DefaultMetricsPath
		}
		if serverCfg.Gatherer == nil {
			if g, ok := cfg.MetricsRegistry.(prometheus.Gatherer); ok {
				serverCfg.Gatherer = g
			}
		}
	}
	if cfg.DisableMetricsEndpoint {
		serverCfg.MetricsPath = ""
	}
	app.server = server.New(app.router, serverCfg)

	return app
}

// Handle registers h under the qualified name. The name is normalized;
// segments starting with ':' capture parameters.
func (a *App) Handle(name string, h dispatch.HandlerFunc) {
	a.router.Handle(name, h)
}

// Use appends resolution middleware.
func (a *App) Use(mw ...dispatch.Middleware) {
	a.router.Use(mw...)
}

// NotFound sets the fallback response.
func (a *App) NotFound(resp dispatch.Response) {
	a.router.NotFound(resp)
}

// Resolve resolves path through the middleware chain.
func (a *App) Resolve(ctx context.Context, path string) dispatch.Outcome {
	return a.router.Resolve(ctx, path)
}

// LoadManifest loads a manifest from src and registers its routes.
func (a *App) LoadManifest(ctx context.Context, src manifest.Source) error {
	m, err := manifest.Load(ctx, src)
	if err != nil {
		return err
	}
	m.Register(a.router)
	a.logger.Info("manifest loaded", "source", src.String(), "routes", len(m.Routes))
	return nil
}

// Navigator returns a new navigator positioned at start.
func (a *App) Navigator(start string) *navigator.Navigator {
	return navigator.New(a.router, start)
}

// Router returns the underlying router.
func (a *App) Router() *dispatch.Router {
	return a.router
}

// Routes returns the registered patterns.
func (a *App) Routes() []string {
	return a.router.Routes()
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.server.ServeHTTP(w, r)
}

// Run serves until ctx is done.
func (a *App) Run(ctx context.Context) error {
	return a.server.ListenAndServe(ctx)
}
