// Package navigator keeps a navigation history on top of a dispatch router.
//
// A Navigator plays the part of a browser tab: Location pushes an entry and
// dispatches it, Back and Forward move through the history and dispatch the
// entry they land on. Query strings and fragments are stripped before
// dispatch; the router only ever sees paths.
package navigator

import (
	"context"
	"strings"
	"sync"

	"github.com/vango-dev/lfnd/pkg/dispatch"
	"github.com/vango-dev/lfnd/pkg/qname"
)

// Resolver resolves a path. *dispatch.Router implements it.
type Resolver interface {
	Resolve(ctx context.Context, path string) dispatch.Outcome
}

// Navigator is a history stack bound to a resolver. It is safe for
// concurrent use.
type Navigator struct {
	resolver Resolver

	mu      sync.Mutex
	history []string
	index   int
}

// New creates a navigator positioned at start (cleaned). Start is not
// dispatched.
func New(resolver Resolver, start string) *Navigator {
	return &Navigator{
		resolver: resolver,
		history:  []string{clean(start)},
	}
}

// Location pushes path onto the history, discarding any forward entries,
// then dispatches it.
func (n *Navigator) Location(ctx context.Context, path string) dispatch.Outcome {
	path = clean(path)

	n.mu.Lock()
	n.history = append(n.history[:n.index+1], path)
	n.index = len(n.history) - 1
	n.mu.Unlock()

	return n.resolver.Resolve(ctx, path)
}

// Dispatch resolves path without touching the history. An empty path
// dispatches the current location.
func (n *Navigator) Dispatch(ctx context.Context, path string) dispatch.Outcome {
	if path == "" {
		path = n.Current()
	}
	return n.resolver.Resolve(ctx, clean(path))
}

// Back moves one entry back and dispatches it. It reports false when already
// at the oldest entry.
func (n *Navigator) Back(ctx context.Context) (dispatch.Outcome, bool) {
	return n.move(ctx, -1)
}

// Forward moves one entry forward and dispatches it. It reports false when
// already at the newest entry.
func (n *Navigator) Forward(ctx context.Context) (dispatch.Outcome, bool) {
	return n.move(ctx, 1)
}

func (n *Navigator) move(ctx context.Context, delta int) (dispatch.Outcome, bool) {
	n.mu.Lock()
	next := n.index + delta
	if next < 0 || next >= len(n.history) {
		n.mu.Unlock()
		return dispatch.Outcome{}, false
	}
	n.index = next
	path := n.history[next]
	n.mu.Unlock()

	return n.resolver.Resolve(ctx, path), true
}

// Current returns the current location.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history[n.index]
}

// History returns a copy of the history, oldest first.
func (n *Navigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.history))
	copy(out, n.history)
	return out
}

func clean(location string) string {
	path, _ := qname.SplitPathAndQuery(location)
	return qname.Clean(path)
}

// TargetAttr is the attribute naming the dispatch target of a non-anchor
// element.
const TargetAttr = "data-lfnd"

// Link is an element wired to the navigator.
type Link struct {
	// Tag is the element name, e.g. "a" or "div".
	Tag string

	// Href is the anchor's href attribute.
	Href string

	// Target is the data-lfnd attribute.
	Target string
}

// QName returns the cleaned name the link navigates to. Anchors use their
// href; every other element uses its data-lfnd target.
func (l Link) QName() string {
	name := l.Target
	if strings.EqualFold(l.Tag, "a") {
		name = l.Href
	}
	return qname.Clean(name)
}
