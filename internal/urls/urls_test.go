package urls

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, body)
	})
}

// tag returns a decorator appending name before and after the response of
// the wrapped handler.
func tag(name string) Decorator {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, name+"(")
			next.ServeHTTP(w, r)
			io.WriteString(w, ")")
		})
	}
}

func serve(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, rec.Body.String()
}

func libraryTable() *Table {
	book := NewInclude("/book", "book",
		NewRoute("/", text("list"), "list"),
		NewRoute("/new/", text("create"), "create"),
		NewRoute("/{pk:[0-9]+}/", text("detail"), "detail"),
		NewRoute("/{pk:[0-9]+}/update/", text("update"), "update"),
	)
	return NewTable(
		NewRoute("/", text("home"), "home"),
		NewInclude("/library", "library", book),
	)
}

func TestTable_Resolve(t *testing.T) {
	table := libraryTable()

	tests := []struct {
		path     string
		viewName string
		pattern  string
		pk       string
		ok       bool
	}{
		{path: "/", viewName: "home", pattern: "/", ok: true},
		{path: "/library/book/", viewName: "library:book:list", pattern: "/library/book/", ok: true},
		{path: "/library/book/new/", viewName: "library:book:create", pattern: "/library/book/new/", ok: true},
		{path: "/library/book/12/", viewName: "library:book:detail", pattern: "/library/book/{pk:[0-9]+}/", pk: "12", ok: true},
		{path: "/library/book/12/update/", viewName: "library:book:update", pk: "12", pattern: "/library/book/{pk:[0-9]+}/update/", ok: true},
		{path: "/library/book/abc/"},
		{path: "/library/book"},
		{path: "/library/author/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, ok := table.Resolve(tt.path)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.viewName, m.ViewName())
			assert.Equal(t, tt.pattern, m.Pattern)
			assert.Equal(t, tt.pk, m.Param("pk"))
		})
	}
}

func TestInclude_PrefixParams(t *testing.T) {
	in := NewInclude("/{shelf}", "",
		NewRoute("/{pk}/", text("x"), "detail"),
	)

	m, ok := in.Resolve("/sci-fi/7/")
	require.True(t, ok)
	assert.Equal(t, []string{"shelf", "pk"}, m.Params.Keys)
	assert.Equal(t, []string{"sci-fi", "7"}, m.Params.Values)
	assert.Equal(t, "detail", m.ViewName())
}

func TestTable_ServeHTTP(t *testing.T) {
	var gotPK string
	var gotName string
	detail := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPK = chi.URLParam(r, "pk")
		m, ok := MatchFromContext(r.Context())
		require.True(t, ok)
		gotName = m.ViewName()

		self, err := Reverse(r.Context(), m.ViewName(), "pk", gotPK)
		require.NoError(t, err)
		io.WriteString(w, self)
	})

	table := NewTable(NewInclude("/book", "book", NewRoute("/{pk}/", detail, "detail")))

	code, body := serve(t, table, "/book/3/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "3", gotPK)
	assert.Equal(t, "book:detail", gotName)
	assert.Equal(t, "/book/3/", body)

	code, _ = serve(t, table, "/nothing/")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTable_ServeHTTP_UnderChi(t *testing.T) {
	table := NewTable(NewRoute("/items/{id}/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chi.URLParam(r, "id"))
	}), "item"))

	router := chi.NewRouter()
	router.Handle("/*", table)

	_, body := serve(t, router, "/items/abc/")
	assert.Equal(t, "abc", body)
}

func TestTable_Reverse(t *testing.T) {
	table := libraryTable()

	tests := []struct {
		name    string
		params  []string
		want    string
		wantErr bool
	}{
		{name: "home", want: "/"},
		{name: "library:book:list", want: "/library/book/"},
		{name: "library:book:detail", params: []string{"pk", "5"}, want: "/library/book/5/"},
		{name: "library:book:update", params: []string{"pk", "5"}, want: "/library/book/5/update/"},
		{name: "library:book:detail", params: []string{"pk", "five"}, wantErr: true},
		{name: "library:book:detail", wantErr: true},
		{name: "library:book:detail", params: []string{"pk"}, wantErr: true},
		{name: "book:list", wantErr: true},
		{name: "library:book:missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name+strings.Join(tt.params, ","), func(t *testing.T) {
			got, err := table.Reverse(tt.name, tt.params...)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoReverseMatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReverse_NoTable(t *testing.T) {
	_, err := Reverse(context.Background(), "home")
	assert.ErrorIs(t, err, ErrNoTable)
}

// foreignEntry is an Entry implementation Require does not know about.
type foreignEntry struct{ route *Route }

func (f foreignEntry) Resolve(path string) (*Match, bool) { return f.route.Resolve(path) }

func TestRequire(t *testing.T) {
	t.Run("first decorator is outermost", func(t *testing.T) {
		table := NewTable(Require([]Entry{NewRoute("/", text("h"), "home")}, tag("A"), tag("B"))...)

		_, body := serve(t, table, "/")
		assert.Equal(t, "A(B(h))", body)
	})

	t.Run("applies to every route of an include", func(t *testing.T) {
		table := NewTable(Require([]Entry{libraryTable().Entries()[1]}, tag("auth"))...)

		_, body := serve(t, table, "/library/book/")
		assert.Equal(t, "auth(list)", body)
		_, body = serve(t, table, "/library/book/4/")
		assert.Equal(t, "auth(detail)", body)
	})

	t.Run("each resolution is wrapped once", func(t *testing.T) {
		table := NewTable(Require([]Entry{NewRoute("/", text("h"), "home")}, tag("A"))...)

		serve(t, table, "/")
		_, body := serve(t, table, "/")
		assert.Equal(t, "A(h)", body)
	})

	t.Run("nested requirements", func(t *testing.T) {
		inner := Require([]Entry{NewRoute("/x/", text("h"), "x")}, tag("inner"))
		outer := Require([]Entry{NewInclude("/api", "api", inner...)}, tag("outer"))

		_, body := serve(t, NewTable(outer...), "/api/x/")
		assert.Equal(t, "outer(inner(h))", body)
	})

	t.Run("modifies entries in place", func(t *testing.T) {
		route := NewRoute("/", text("h"), "home")
		Require([]Entry{route}, tag("A"))

		_, body := serve(t, NewTable(route), "/")
		assert.Equal(t, "A(h)", body)
	})

	t.Run("foreign entries pass through", func(t *testing.T) {
		foreign := foreignEntry{route: NewRoute("/", text("h"), "home")}
		entries := Require([]Entry{foreign}, tag("A"))

		require.Len(t, entries, 1)
		assert.Equal(t, foreign, entries[0])
		_, body := serve(t, NewTable(entries...), "/")
		assert.Equal(t, "h", body)
	})

	t.Run("unresolved paths are untouched", func(t *testing.T) {
		table := NewTable(Require([]Entry{NewRoute("/", text("h"), "home")}, tag("A"))...)

		code, _ := serve(t, table, "/missing/")
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestChain(t *testing.T) {
	code, body := serve(t, Chain(text("h"), tag("A"), tag("B"), tag("C")), "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "A(B(C(h)))", body)

	_, body = serve(t, Chain(text("h")), "/")
	assert.Equal(t, "h", body)
}

func TestPageFromRequest(t *testing.T) {
	tests := map[string]int{
		"/":          1,
		"/?page=3":   3,
		"/?page=0":   1,
		"/?page=-2":  1,
		"/?page=two": 1,
	}

	for target, want := range tests {
		t.Run(target, func(t *testing.T) {
			assert.Equal(t, want, PageFromRequest(httptest.NewRequest(http.MethodGet, target, nil)))
		})
	}
}
