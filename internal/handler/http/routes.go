package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/internal/urls"
	"github.com/MKhiriev/go-duct-tape/internal/views"
	"github.com/MKhiriev/go-duct-tape/models"
)

// appPath is the namespace of the library models, in the JSON API and in
// the pages alike.
const appPath = "library"

// Init builds the router:
//
//	/api/auth/register/            POST
//	/api/auth/login/               POST
//	/api/version/                  GET
//	/api/library/books/[{id}/]     JSON resource of books
//	/api/library/bookac/           book autocomplete
//	/api/library/authors/[{id}/]   JSON resource of authors
//	/api/library/writerac/         author autocomplete
//	/library/book/...              generated book pages
//	/library/writer/...            generated author pages
//
// Everything under /api/library and /library requires a token.
func (h *Handler) Init() (*chi.Mux, error) {
	table, err := h.urlTable()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	if timeout := h.cfg.Server.RequestTimeout; timeout > 0 {
		router.Use(middleware.Timeout(timeout))
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/"+appPath+"/book/", http.StatusFound)
	})
	router.Handle("/*", table)

	return router, nil
}

func (h *Handler) urlTable() (*urls.Table, error) {
	api := urls.NewInclude("/api", "api",
		urls.NewInclude("/auth", "auth",
			urls.NewRoute("/register/", http.HandlerFunc(h.register), "register"),
			urls.NewRoute("/login/", http.HandlerFunc(h.login), "login"),
		),
		urls.NewRoute("/version/", http.HandlerFunc(h.getServerVersion), "version"),
		urls.NewInclude("/"+appPath, appPath, urls.Require(h.apiEntries(), h.loginRequired, h.withUserLogger, withGZip)...),
	)

	pages, err := h.pageEntries()
	if err != nil {
		return nil, err
	}
	site := urls.NewInclude("/"+appPath, appPath, urls.Require(pages, h.loginRequired, h.withUserLogger, middleware.NoCache)...)

	return urls.NewTable(api, site), nil
}

func (h *Handler) apiEntries() []urls.Entry {
	limit := uint64(query.DefaultLimit)
	if h.cfg.Views.DefaultLimit > 0 {
		limit = uint64(h.cfg.Views.DefaultLimit)
	}

	bookRefiner := query.DefaultChain("title", "isbn", "author__name")
	bookRefiner[len(bookRefiner)-1] = query.Paging{DefaultLimit: limit}
	authorRefiner := query.DefaultChain("name", "country")
	authorRefiner[len(authorRefiner)-1] = query.Paging{DefaultLimit: limit}

	return []urls.Entry{
		NewModelHandler(h.services.Books, bookRefiner).Routes("/books", "books"),
		NewAutocompleteHandler[models.Book](h.services.Books, "^title", "=isbn").Routes("/bookac", "bookac"),
		NewModelHandler(h.services.Authors, authorRefiner).Routes("/authors", "authors"),
		NewAutocompleteHandler[models.Author](h.services.Authors, "^name").Routes("/writerac", "writerac"),
	}
}

func (h *Handler) pageEntries() ([]urls.Entry, error) {
	paginateBy := h.cfg.Views.PageSize

	books, err := views.NewEngine[models.Book](h.templates, paginateBy).
		Patterns(h.services.Books, appPath, nil, "book", views.ViewData{})
	if err != nil {
		return nil, fmt.Errorf("error building book pages: %w", err)
	}

	authors, err := views.NewEngine[models.Author](h.templates, paginateBy).
		Patterns(h.services.Authors, appPath, views.Overrides{
			views.ActionDetail: {ContextObjectName: "writer"},
			views.ActionUpdate: {ContextObjectName: "writer"},
		}, "writer", views.ViewData{})
	if err != nil {
		return nil, fmt.Errorf("error building author pages: %w", err)
	}

	return append(books, authors...), nil
}
