package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/lfnd/pkg/dispatch"
	"github.com/vango-dev/lfnd/pkg/qntree"
)

const (
	// RoutesPath lists registered patterns.
	RoutesPath = "/_lfnd/routes"

	// WebSocketPath is the navigation channel endpoint.
	WebSocketPath = "/_lfnd/ws"

	// HealthPath is the liveness probe.
	HealthPath = "/healthz"
)

// Router is the part of *dispatch.Router the server needs.
type Router interface {
	Resolve(ctx context.Context, path string) dispatch.Outcome
	Routes() []string
}

// Server serves a Router over HTTP and WebSocket.
type Server struct {
	router   Router
	config   Config
	logger   *slog.Logger
	mux      chi.Router
	upgrader websocket.Upgrader
}

// New creates a server for router.
func New(router Router, cfg Config) *Server {
	cfg = cfg.withDefaults()

	s := &Server{
		router: router,
		config: cfg,
		logger: cfg.Logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get(HealthPath, s.handleHealth)
	r.Get(RoutesPath, s.handleRoutes)
	r.Get(WebSocketPath, s.handleWebSocket)
	if cfg.MetricsPath != "" {
		r.Method(http.MethodGet, cfg.MetricsPath, promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Handle("/*", http.HandlerFunc(s.handleResolve))

	s.mux = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Config returns the effective configuration.
func (s *Server) Config() Config {
	return s.config
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: s.config.ShutdownTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	routes := s.router.Routes()
	if routes == nil {
		routes = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(routes); err != nil {
		s.logger.Error("encode routes", "error", err)
	}
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	out := s.router.Resolve(r.Context(), r.URL.Path)

	if out.Kind == qntree.NoHandler {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeResponse(w, r, out.Response)
}

func writeResponse(w http.ResponseWriter, r *http.Request, resp dispatch.Response) {
	if resp.Location != "" {
		status := resp.Status
		if status < 300 || status > 399 {
			status = http.StatusFound
		}
		http.Redirect(w, r, resp.Location, status)
		return
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if resp.Body != "" {
		ct := resp.ContentType
		if ct == "" {
			ct = "text/plain; charset=utf-8"
		}
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(status)
	if resp.Body != "" && r.Method != http.MethodHead {
		_, _ = w.Write([]byte(resp.Body))
	}
}
