package http

import (
	"net/http"

	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/internal/service"
	"github.com/MKhiriev/go-duct-tape/internal/urls"
	"github.com/MKhiriev/go-duct-tape/internal/utils"
	"github.com/MKhiriev/go-duct-tape/models"
)

// AutocompleteHandler answers GET requests with the objects matching the
// "term" parameter as [models.Choice]s. Filter, sort and paging parameters
// are ignored.
type AutocompleteHandler[T any, PT models.Pointer[T]] struct {
	service service.ModelService[T]
	search  query.SearchTerm
}

// NewAutocompleteHandler searches svc over fields, see [query.SearchTerm]
// for the field prefixes.
func NewAutocompleteHandler[T any, PT models.Pointer[T]](svc service.ModelService[T], fields ...string) *AutocompleteHandler[T, PT] {
	return &AutocompleteHandler[T, PT]{
		service: svc,
		search:  query.SearchTerm{Fields: fields},
	}
}

// Routes returns the route "list" under prefix.
func (h *AutocompleteHandler[T, PT]) Routes(prefix, namespace string) *urls.Include {
	return urls.NewInclude(prefix, namespace, urls.NewRoute("/", h, "list"))
}

func (h *AutocompleteHandler[T, PT]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	items, err := h.service.Search(r.Context(), query.ParamsFromRequest(r), h.search)
	if err != nil {
		writeError(w, r, "*AutocompleteHandler.ServeHTTP", err)
		return
	}

	choices := make([]models.Choice, len(items))
	for i := range items {
		item := PT(&items[i])
		choices[i] = models.Choice{Label: item.String(), Value: item.PK()}
	}

	utils.WriteJSON(w, choices, http.StatusOK)
}
