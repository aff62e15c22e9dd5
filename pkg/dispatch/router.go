package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/lfnd/pkg/qntree"
)

// bound is a handler with its captured parameters applied.
type bound func(ctx context.Context) Response

// Router is a concurrency-safe qualified-name router.
type Router struct {
	mu         sync.RWMutex
	tree       *qntree.Tree[bound]
	notFound   Response
	middleware []Middleware
	logger     *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. Registrations and resolutions are logged at
// debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithNotFound sets the response returned when nothing matches.
func WithNotFound(resp Response) Option {
	return func(r *Router) {
		r.notFound = resp
	}
}

// New creates a router.
func New(opts ...Option) *Router {
	r := &Router{
		tree:     qntree.New[bound](),
		notFound: DefaultNotFound,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle registers h under the qualified name. A handler already registered
// under the same canonical name is replaced.
func (r *Router) Handle(name string, h HandlerFunc) {
	r.mu.Lock()
	r.tree.Patch(name, func(p qntree.Params) bound {
		return func(ctx context.Context) Response { return h(ctx, p) }
	})
	r.mu.Unlock()

	r.logger.Debug("route registered", "name", name)
}

// NotFound replaces the not-found response.
func (r *Router) NotFound(resp Response) {
	r.mu.Lock()
	r.notFound = resp
	r.mu.Unlock()
}

// Use appends middleware. The first middleware added runs outermost.
func (r *Router) Use(mw ...Middleware) {
	r.mu.Lock()
	r.middleware = append(r.middleware, mw...)
	r.mu.Unlock()
}

// Resolve runs path through the middleware chain and the trie.
func (r *Router) Resolve(ctx context.Context, path string) Outcome {
	r.mu.RLock()
	chain := make([]Middleware, len(r.middleware))
	copy(chain, r.middleware)
	r.mu.RUnlock()

	resolve := r.resolve
	for i := len(chain) - 1; i >= 0; i-- {
		resolve = chain[i](resolve)
	}
	return resolve(ctx, path)
}

// resolve looks the path up under the read lock and invokes the handler
// after releasing it, so handlers may register routes.
func (r *Router) resolve(ctx context.Context, path string) Outcome {
	r.mu.RLock()
	res := r.tree.Lookup(path)
	notFound := r.notFound
	r.mu.RUnlock()

	out := Outcome{Path: path, Kind: res.Kind, Params: res.Params}
	switch res.Kind {
	case qntree.Matched:
		out.Response = res.Value(ctx)
	case qntree.NotFound:
		out.Response = notFound
	}

	r.logger.Debug("path resolved", "path", path, "outcome", res.Kind.String())
	return out
}

// Routes returns the canonical patterns of all registered routes.
func (r *Router) Routes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var routes []string
	r.tree.Walk(func(pattern string, _ *qntree.Node[bound]) bool {
		routes = append(routes, pattern)
		return true
	})
	return routes
}

// Len returns the number of registered routes.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.Len()
}
