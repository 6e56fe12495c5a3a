package urls

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const (
	matchCtxKey ctxKey = iota
	tableCtxKey
)

// Table is an ordered URL table. It is an [http.Handler] serving the
// handler of the first matching entry.
type Table struct {
	entries []Entry
}

// NewTable returns a table over entries.
func NewTable(entries ...Entry) *Table {
	return &Table{entries: entries}
}

// Add appends entries to the table.
func (t *Table) Add(entries ...Entry) {
	t.entries = append(t.entries, entries...)
}

// Entries returns the root entries.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Resolve returns the match of the first entry resolving path.
func (t *Table) Resolve(path string) (*Match, bool) {
	for _, entry := range t.entries {
		if m, ok := entry.Resolve(path); ok {
			return m, true
		}
	}
	return nil, false
}

// ServeHTTP resolves the request path and serves the matched handler, or
// answers 404. URL parameters are readable with chi.URLParam and the match
// with [MatchFromContext].
func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m, ok := t.Resolve(r.URL.Path)
	if !ok || m.Handler == nil {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	rctx := chi.RouteContext(ctx)
	if rctx == nil {
		rctx = chi.NewRouteContext()
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	for i, key := range m.Params.Keys {
		rctx.URLParams.Add(key, m.Params.Values[i])
	}
	rctx.RoutePatterns = append(rctx.RoutePatterns, m.Pattern)

	ctx = context.WithValue(ctx, matchCtxKey, m)
	ctx = context.WithValue(ctx, tableCtxKey, t)

	m.Handler.ServeHTTP(w, r.WithContext(ctx))
}

// MatchFromContext returns the match of the request being served.
func MatchFromContext(ctx context.Context) (*Match, bool) {
	m, ok := ctx.Value(matchCtxKey).(*Match)
	return m, ok
}

// Reverse reverses name with the table serving the request of ctx.
func Reverse(ctx context.Context, name string, params ...string) (string, error) {
	t, ok := ctx.Value(tableCtxKey).(*Table)
	if !ok {
		return "", ErrNoTable
	}
	return t.Reverse(name, params...)
}

// Reverse builds the path of the route called name ("ns:...:name") from
// key/value parameter pairs, e.g. Reverse("library:book:detail", "pk", "4").
func (t *Table) Reverse(name string, params ...string) (string, error) {
	if len(params)%2 != 0 {
		return "", fmt.Errorf("%w: %s: odd number of parameters", ErrNoReverseMatch, name)
	}
	values := make(map[string]string, len(params)/2)
	for i := 0; i < len(params); i += 2 {
		values[params[i]] = params[i+1]
	}

	parts := strings.Split(name, NamespaceSeparator)
	pattern, ok := findPattern(t.entries, parts[:len(parts)-1], parts[len(parts)-1])
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoReverseMatch, name)
	}

	path, err := fillPattern(pattern, values)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNoReverseMatch, name, err)
	}
	return path, nil
}

// findPattern walks entries depth-first for a route called name nested
// in exactly the given namespaces. Includes without namespace are
// transparent.
func findPattern(entries []Entry, namespaces []string, name string) (string, bool) {
	for _, entry := range entries {
		switch e := entry.(type) {
		case *Route:
			if len(namespaces) == 0 && e.Name == name {
				return e.Pattern, true
			}
		case *Include:
			prefix := strings.TrimSuffix(e.Prefix, "/")
			rest := namespaces
			if e.Namespace != "" {
				if len(namespaces) == 0 || namespaces[0] != e.Namespace {
					continue
				}
				rest = namespaces[1:]
			}
			if pattern, ok := findPattern(e.Entries, rest, name); ok {
				return prefix + pattern, true
			}
		}
	}
	return "", false
}

// fillPattern substitutes "{key}" and "{key:regexp}" placeholders.
func fillPattern(pattern string, values map[string]string) (string, error) {
	var b strings.Builder
	for {
		start := strings.IndexByte(pattern, '{')
		if start < 0 {
			break
		}
		end := closingBrace(pattern, start)
		if end < 0 {
			return "", fmt.Errorf("unbalanced pattern %q", pattern)
		}

		b.WriteString(pattern[:start])
		key, expr, hasExpr := strings.Cut(pattern[start+1:end], ":")
		value, ok := values[key]
		if !ok {
			return "", fmt.Errorf("missing parameter %q", key)
		}
		if hasExpr {
			re, err := regexp.Compile("^(?:" + expr + ")$")
			if err != nil {
				return "", fmt.Errorf("parameter %q: %w", key, err)
			}
			if !re.MatchString(value) {
				return "", fmt.Errorf("parameter %q=%q does not match %s", key, value, expr)
			}
		}
		b.WriteString(value)
		pattern = pattern[end+1:]
	}

	if strings.Contains(pattern, "*") {
		return "", fmt.Errorf("wildcard pattern cannot be reversed")
	}
	b.WriteString(pattern)
	return b.String(), nil
}

func closingBrace(pattern string, start int) int {
	depth := 0
	for i := start; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
