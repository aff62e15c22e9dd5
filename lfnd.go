// Package lfnd wires the qualified-name trie into a small navigation
// service: a dispatch router with observability middleware, an optional
// route manifest and an HTTP/WebSocket server.
//
// Usage:
//
//	app := lfnd.New(lfnd.Config{Metrics: true})
//	app.Handle("/users/:id", func(ctx context.Context, p qntree.Params) dispatch.Response {
//	    return dispatch.Text("user " + p.Get("id"))
//	})
//	http.ListenAndServe(":8080", app)
//
// Lower-level building blocks live in pkg/: qname (name normalization),
// qntree (the trie), dispatch, navigator, manifest, middleware and server.
package lfnd

import (
	"github.com/vango-dev/lfnd/pkg/dispatch"
	"github.com/vango-dev/lfnd/pkg/qntree"
)

// Re-exported types for the common case of importing only the root package.
type (
	// Response is what a handler produces.
	Response = dispatch.Response

	// HandlerFunc handles a resolved path.
	HandlerFunc = dispatch.HandlerFunc

	// Middleware wraps resolution.
	Middleware = dispatch.Middleware

	// ResolveFunc resolves a path.
	ResolveFunc = dispatch.ResolveFunc

	// Outcome describes one resolution.
	Outcome = dispatch.Outcome

	// Params holds captured parametric segments.
	Params = qntree.Params
)

// Text returns a 200 text/plain response.
func Text(body string) Response {
	return dispatch.Text(body)
}

// Redirect returns a redirect response.
func Redirect(status int, location string) Response {
	return dispatch.Redirect(status, location)
}
