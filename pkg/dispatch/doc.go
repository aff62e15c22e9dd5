// Package dispatch wraps a qntree.Tree for use by concurrent hosts such as
// the navigation server.
//
// A Router guards the trie with a read/write lock, passes a context to
// handlers, runs resolutions through a middleware chain and reports every
// resolution as an Outcome that keeps the three trie outcomes apart:
//
//	r := dispatch.New(dispatch.WithLogger(logger))
//	r.Handle("/users/:id", func(ctx context.Context, p qntree.Params) dispatch.Response {
//	    return dispatch.Text("user " + p["id"])
//	})
//	r.Use(middleware.Prometheus())
//
//	out := r.Resolve(ctx, "/users/42")
//	// out.Kind == qntree.Matched, out.Response.Body == "user 42"
//
// When no node matches, the outcome carries the router's not-found response
// as is. When the path names a node without a handler the outcome carries
// the zero Response.
package dispatch
