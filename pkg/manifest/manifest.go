package manifest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/vango-dev/lfnd/internal/errors"
	"github.com/vango-dev/lfnd/pkg/dispatch"
	"github.com/vango-dev/lfnd/pkg/qntree"
)

// Manifest is a route table.
type Manifest struct {
	Routes []Route `json:"routes"`

	// NotFound replaces the router's not-found response when set.
	NotFound *Target `json:"notFound,omitempty"`
}

// Route binds a qualified name to a target.
type Route struct {
	Name string `json:"name"`
	Target
}

// Target describes the response a route produces.
type Target struct {
	// Status defaults to 200, or 302 when Redirect is set.
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`

	// Body is a template; "{name}" is replaced by the parameter value.
	Body string `json:"body,omitempty"`

	// Redirect is a template for the redirect location.
	Redirect string `json:"redirect,omitempty"`
}

// Parse decodes and validates a manifest.
func Parse(r io.Reader) (*Manifest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, errors.New("L010").Wrap(err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every route and fills in default statuses.
func (m *Manifest) Validate() error {
	for i := range m.Routes {
		route := &m.Routes[i]
		if strings.TrimSpace(route.Name) == "" {
			return errors.New("L011").
				WithDetailf("route #%d has an empty name", i+1).
				WithSuggestion(`Use "/" to register the root.`)
		}
		if err := route.Target.normalize(); err != nil {
			return errors.New("L011").WithDetailf("route #%d (%s): %s", i+1, route.Name, err.Error())
		}
	}
	if m.NotFound != nil {
		if err := m.NotFound.normalize(); err != nil {
			return errors.New("L011").WithDetailf("notFound: %s", err.Error())
		}
	}
	return nil
}

func (t *Target) normalize() error {
	if t.Status == 0 {
		t.Status = http.StatusOK
		if t.Redirect != "" {
			t.Status = http.StatusFound
		}
	}
	if t.Status < 100 || t.Status > 599 {
		return errors.Newf(errors.CategoryManifest, "status %d out of range", t.Status)
	}
	if t.ContentType == "" && t.Body != "" {
		t.ContentType = "text/plain; charset=utf-8"
	}
	return nil
}

// Register patches every route into r, in order.
func (m *Manifest) Register(r *dispatch.Router) {
	for _, route := range m.Routes {
		r.Handle(route.Name, route.Target.Handler())
	}
	if m.NotFound != nil {
		r.NotFound(m.NotFound.Response(nil))
	}
}

// Handler returns a handler producing the target's response.
func (t Target) Handler() dispatch.HandlerFunc {
	return func(_ context.Context, p qntree.Params) dispatch.Response {
		return t.Response(p)
	}
}

// Response renders the target with the captured parameters.
func (t Target) Response(p qntree.Params) dispatch.Response {
	return dispatch.Response{
		Status:      t.Status,
		ContentType: t.ContentType,
		Body:        expand(t.Body, p),
		Location:    expand(t.Redirect, p),
	}
}

// expand replaces "{name}" placeholders with parameter values. Unknown
// placeholders are left as is.
func expand(tmpl string, p qntree.Params) string {
	if len(p) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(p))
	for name, value := range p {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Load reads and parses the manifest from src.
func Load(ctx context.Context, src Source) (*Manifest, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, errors.FromError(err, "L020")
	}
	defer rc.Close()

	m, err := Parse(rc)
	if err != nil {
		return nil, err
	}
	return m, nil
}
