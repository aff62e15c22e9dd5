// Package qntree implements a path-segment trie that maps qualified names to
// handlers and resolves incoming paths to the best matching handler.
//
// Each node has a set of literal children keyed by exact segment text and at
// most one parametric child for ":name" segments:
//
//	t := qntree.New[string]()
//	t.Patch("/users", listUsers)
//	t.Patch("/users/:id", showUser)
//	t.Patch("/users/:id/posts", listPosts)
//
//	v, ok := t.Match("/users/42", "not found")
//
// # Parameter names are sticky
//
// The first parametric registration at a position names that position for
// good. Registering "/base/:param" and then "/base/:other/leaf" does not
// rename the node or add a sibling; both routes share the ":param" node and
// a match binds the captured value under "param".
//
// # Precedence
//
// Matching is decided one segment at a time: an exact literal child wins,
// otherwise the parametric child is taken. There is no backtracking. With
// "/a/:x/c" and "/a/b/d" registered, "/a/b/c" does not match because the
// literal "b" is taken and has no "c" child.
//
// # Outcomes
//
// Lookup distinguishes three outcomes. Matched: a handler was reached and
// invoked. NoHandler: every segment was consumed but the node carries no
// handler, as with a prefix of a longer route. NotFound: some segment had
// neither a literal nor a parametric child. Match collapses these to the
// handler result, a zero value with ok=false, or the caller's fallback.
//
// A Tree is not safe for concurrent use. Hosts that register and resolve from
// several goroutines need external locking (see package dispatch).
package qntree
