package qntree

import "github.com/vango-dev/lfnd/pkg/qname"

// Params is the match state: parameter name to captured segment.
type Params map[string]string

// Get returns the value bound to name, or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Handler is invoked with the captured parameters when a path resolves to
// the node it is attached to.
type Handler[R any] func(Params) R

// Kind classifies a lookup.
type Kind int

const (
	// NotFound means a segment had no literal or parametric child.
	NotFound Kind = iota
	// NoHandler means the path was consumed but the node has no handler.
	NoHandler
	// Matched means a handler was reached and invoked.
	Matched
)

// String returns the kind name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case Matched:
		return "matched"
	case NoHandler:
		return "no_handler"
	default:
		return "not_found"
	}
}

// Result is the outcome of Lookup.
type Result[R any] struct {
	Kind Kind

	// Value is the handler's return value when Kind is Matched.
	Value R

	// Params holds the parameters captured up to the point resolution
	// stopped.
	Params Params
}

// Tree is a qualified-name trie. The zero value is not usable; call New.
type Tree[R any] struct {
	root *Node[R]
}

// New creates an empty tree whose root represents "/".
func New[R any]() *Tree[R] {
	return &Tree[R]{root: newNode[R]()}
}

// Root returns the root node.
func (t *Tree[R]) Root() *Node[R] {
	return t.root
}

// Patch attaches h to the node named by name, creating intermediate nodes as
// needed. A handler already registered at that node is replaced.
//
// Parametric segments reuse the existing parametric child of a position
// regardless of the name they carry.
func (t *Tree[R]) Patch(name string, h Handler[R]) {
	t.root.insert(qname.Segments(name)).handler = h
}

// Lookup resolves path and, if a handler is reached, invokes it.
// Handler panics are not recovered.
func (t *Tree[R]) Lookup(path string) Result[R] {
	params := make(Params)
	current := t.root

	for _, seg := range qname.Segments(path) {
		if child, ok := current.children[seg]; ok {
			current = child
		} else if current.parametric != nil {
			current = current.parametric
			params[current.paramName] = seg
		} else {
			return Result[R]{Kind: NotFound, Params: params}
		}
	}

	if current.handler == nil {
		return Result[R]{Kind: NoHandler, Params: params}
	}
	return Result[R]{Kind: Matched, Value: current.handler(params), Params: params}
}

// Match resolves path; defined is false only when path names a node
// without a handler. It is not a "found" flag: a miss returns notFound with
// defined true, and a reached handler returns its result with defined true.
// The fallback is returned as is, never invoked.
func (t *Tree[R]) Match(path string, notFound R) (result R, defined bool) {
	res := t.Lookup(path)
	switch res.Kind {
	case Matched:
		return res.Value, true
	case NotFound:
		return notFound, true
	default:
		var zero R
		return zero, false
	}
}

// Walk calls fn for every node carrying a handler with its canonical
// pattern, e.g. "/users/:id". Parametric positions use their bound name.
// Walk stops when fn returns false.
func (t *Tree[R]) Walk(fn func(pattern string, n *Node[R]) bool) {
	t.root.walk(qname.Root, fn)
}

// Len returns the number of nodes carrying a handler.
func (t *Tree[R]) Len() int {
	count := 0
	t.Walk(func(string, *Node[R]) bool {
		count++
		return true
	})
	return count
}
