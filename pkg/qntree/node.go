package qntree

import (
	"sort"

	"github.com/vango-dev/lfnd/pkg/qname"
)

// Node is one segment boundary in the trie.
type Node[R any] struct {
	// children are literal segment children. Keys never begin with ':'.
	children map[string]*Node[R]

	// parametric is the single parameter child at this position.
	parametric *Node[R]

	// paramName is set on parametric nodes. It is fixed by the first
	// registration that created the node.
	paramName string

	// handler is nil when nothing terminates here.
	handler Handler[R]
}

func newNode[R any]() *Node[R] {
	return &Node[R]{}
}

// Child returns the literal child for segment, or nil.
func (n *Node[R]) Child(segment string) *Node[R] {
	return n.children[segment]
}

// Parametric returns the parametric child, or nil.
func (n *Node[R]) Parametric() *Node[R] {
	return n.parametric
}

// ParamName returns the bound parameter name of a parametric node.
func (n *Node[R]) ParamName() string {
	return n.paramName
}

// Handler returns the handler attached to this node, or nil.
func (n *Node[R]) Handler() Handler[R] {
	return n.handler
}

// addChild returns the literal child for segment, creating it if needed.
func (n *Node[R]) addChild(segment string) *Node[R] {
	if child, ok := n.children[segment]; ok {
		return child
	}
	if n.children == nil {
		n.children = make(map[string]*Node[R])
	}
	child := newNode[R]()
	n.children[segment] = child
	return child
}

// addParamChild returns the parametric child, creating it with name if this
// position has none yet. An existing child keeps its original name.
func (n *Node[R]) addParamChild(name string) *Node[R] {
	if n.parametric != nil {
		return n.parametric
	}
	child := newNode[R]()
	child.paramName = name
	n.parametric = child
	return child
}

// insert walks segments from n, creating nodes on demand, and returns the
// node reached by the last segment.
func (n *Node[R]) insert(segments []string) *Node[R] {
	current := n
	for _, seg := range segments {
		if qname.IsParam(seg) {
			current = current.addParamChild(qname.ParamName(seg))
		} else {
			current = current.addChild(seg)
		}
	}
	return current
}

// walk visits n and its descendants depth first. Literal children are
// visited in sorted order, then the parametric child.
func (n *Node[R]) walk(pattern string, fn func(string, *Node[R]) bool) bool {
	if n.handler != nil && !fn(pattern, n) {
		return false
	}

	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !n.children[k].walk(join(pattern, k), fn) {
			return false
		}
	}
	if n.parametric != nil {
		return n.parametric.walk(join(pattern, string(qname.ParamPrefix)+n.parametric.paramName), fn)
	}
	return true
}

func join(pattern, segment string) string {
	if pattern == qname.Root {
		return pattern + segment
	}
	return pattern + "/" + segment
}
