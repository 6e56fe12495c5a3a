package urls

import (
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// NamespaceSeparator joins namespaces and the route name of a view name.
const NamespaceSeparator = ":"

// Entry is anything a [Table] can resolve a path against.
type Entry interface {
	Resolve(path string) (*Match, bool)
}

// Match is the result of a successful resolution. Every call to Resolve
// returns a fresh Match, so callers may replace Handler.
type Match struct {
	Handler http.Handler

	// Name is the route name without namespaces.
	Name string

	// Namespaces lists the namespaces of the enclosing includes,
	// outermost first.
	Namespaces []string

	// Pattern is the full route pattern including include prefixes.
	Pattern string

	// Params holds the URL parameters captured by the patterns.
	Params chi.RouteParams
}

// ViewName returns the namespaced name, e.g. "library:book:list".
func (m *Match) ViewName() string {
	return strings.Join(append(slices.Clone(m.Namespaces), m.Name), NamespaceSeparator)
}

// Param returns the URL parameter called key.
func (m *Match) Param(key string) string {
	for i := len(m.Params.Keys) - 1; i >= 0; i-- {
		if m.Params.Keys[i] == key {
			return m.Params.Values[i]
		}
	}
	return ""
}

type resolveFunc func(path string) (*Match, bool)

// Route binds a chi pattern, e.g. "/{pk:[0-9]+}/update/", to a handler.
//
// Routes are used by pointer: [Require] replaces their resolution in place.
type Route struct {
	Pattern string
	Handler http.Handler
	Name    string

	resolve resolveFunc

	once sync.Once
	mux  *chi.Mux
}

// NewRoute is a shorthand for a *Route literal.
func NewRoute(pattern string, handler http.Handler, name string) *Route {
	return &Route{Pattern: pattern, Handler: handler, Name: name}
}

// Resolve implements [Entry]. The whole path must match the pattern.
func (r *Route) Resolve(path string) (*Match, bool) {
	return r.resolver()(path)
}

func (r *Route) resolver() resolveFunc {
	if r.resolve != nil {
		return r.resolve
	}
	return r.match
}

func (r *Route) setResolver(fn resolveFunc) {
	r.resolve = fn
}

func (r *Route) match(path string) (*Match, bool) {
	r.once.Do(func() {
		r.mux = patternMux(r.Pattern)
	})

	params, ok := matchPattern(r.mux, path)
	if !ok {
		return nil, false
	}

	return &Match{
		Handler: r.Handler,
		Name:    r.Name,
		Pattern: r.Pattern,
		Params:  params,
	}, true
}

// Include groups entries under Prefix (a chi pattern without trailing
// slash, "" for none) and an optional Namespace.
//
// Includes are used by pointer: [Require] replaces their resolution in
// place.
type Include struct {
	Prefix    string
	Namespace string
	Entries   []Entry

	resolve resolveFunc

	once sync.Once
	mux  *chi.Mux
}

// NewInclude is a shorthand for an *Include literal.
func NewInclude(prefix, namespace string, entries ...Entry) *Include {
	return &Include{Prefix: prefix, Namespace: namespace, Entries: entries}
}

// Resolve implements [Entry]. The prefix is stripped and the remaining path
// is resolved against Entries in order.
func (in *Include) Resolve(path string) (*Match, bool) {
	return in.resolver()(path)
}

func (in *Include) resolver() resolveFunc {
	if in.resolve != nil {
		return in.resolve
	}
	return in.match
}

func (in *Include) setResolver(fn resolveFunc) {
	in.resolve = fn
}

func (in *Include) match(path string) (*Match, bool) {
	prefix := strings.TrimSuffix(in.Prefix, "/")

	rest := path
	var prefixParams chi.RouteParams
	if prefix != "" {
		in.once.Do(func() {
			in.mux = patternMux(prefix + "/*")
		})

		params, ok := matchPattern(in.mux, path)
		if !ok {
			return nil, false
		}
		for i, key := range params.Keys {
			if key == "*" {
				rest = "/" + params.Values[i]
				continue
			}
			prefixParams.Add(key, params.Values[i])
		}
	}

	for _, entry := range in.Entries {
		m, ok := entry.Resolve(rest)
		if !ok {
			continue
		}

		if in.Namespace != "" {
			m.Namespaces = append([]string{in.Namespace}, m.Namespaces...)
		}
		m.Pattern = prefix + m.Pattern
		m.Params = chi.RouteParams{
			Keys:   append(slices.Clone(prefixParams.Keys), m.Params.Keys...),
			Values: append(slices.Clone(prefixParams.Values), m.Params.Values...),
		}
		return m, true
	}

	return nil, false
}

var noop = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// patternMux compiles a single pattern into a chi radix tree.
func patternMux(pattern string) *chi.Mux {
	mux := chi.NewMux()
	mux.Handle(pattern, noop)
	return mux
}

func matchPattern(mux *chi.Mux, path string) (chi.RouteParams, bool) {
	rctx := chi.NewRouteContext()
	if !mux.Match(rctx, http.MethodGet, path) {
		return chi.RouteParams{}, false
	}
	return rctx.URLParams, true
}
