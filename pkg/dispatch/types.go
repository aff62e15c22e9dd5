package dispatch

import (
	"context"
	"net/http"

	"github.com/vango-dev/lfnd/pkg/qntree"
)

// Response is what a dispatch target produces.
type Response struct {
	// Status is an HTTP status code. Zero means "no response".
	Status int `json:"status,omitempty"`

	// ContentType defaults to text/plain when Body is set.
	ContentType string `json:"contentType,omitempty"`

	Body string `json:"body,omitempty"`

	// Location is a redirect target.
	Location string `json:"location,omitempty"`
}

// IsZero reports whether r is the empty response.
func (r Response) IsZero() bool {
	return r == Response{}
}

// Text returns a 200 text/plain response.
func Text(body string) Response {
	return Response{Status: http.StatusOK, ContentType: "text/plain; charset=utf-8", Body: body}
}

// Redirect returns a redirect response to location.
func Redirect(status int, location string) Response {
	return Response{Status: status, Location: location}
}

// DefaultNotFound is the response returned when nothing matches and no other
// fallback was configured.
var DefaultNotFound = Response{
	Status:      http.StatusNotFound,
	ContentType: "text/plain; charset=utf-8",
	Body:        "not found",
}

// HandlerFunc handles a resolved path.
type HandlerFunc func(ctx context.Context, params qntree.Params) Response

// Outcome describes one resolution.
type Outcome struct {
	// Path is the resolved path as given by the caller.
	Path string `json:"path"`

	Kind qntree.Kind `json:"-"`

	Response Response `json:"response"`

	// Params are the parameters captured before resolution stopped.
	Params qntree.Params `json:"params,omitempty"`
}

// Matched reports whether a handler produced the response.
func (o Outcome) Matched() bool {
	return o.Kind == qntree.Matched
}

// ResolveFunc resolves a path.
type ResolveFunc func(ctx context.Context, path string) Outcome

// Middleware wraps a ResolveFunc.
type Middleware func(next ResolveFunc) ResolveFunc
