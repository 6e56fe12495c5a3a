package http

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/internal/service"
	"github.com/MKhiriev/go-duct-tape/internal/urls"
	"github.com/MKhiriev/go-duct-tape/internal/utils"
	"github.com/MKhiriev/go-duct-tape/models"
)

// idParam is the URL parameter of the member endpoint.
const idParam = "id"

// dataField is the form field that may hold the attributes of a create
// request as a JSON object.
const dataField = "data"

// ModelHandler is the generic REST resource of model type T:
//
//	GET    <prefix>/        list   {"totalCount": N, "data": [...]}
//	POST   <prefix>/        create 201 + object
//	GET    <prefix>/{id}/   read
//	PUT    <prefix>/{id}/   update
//	DELETE <prefix>/{id}/   delete 204
//
// Lists are refined by the refiner with the query parameters of the
// request (term, filter, sort, limit, page, start).
type ModelHandler[T any] struct {
	service service.ModelService[T]
	refiner query.Refiner
}

// NewModelHandler returns the resource of svc. A nil refiner lists the
// whole table.
func NewModelHandler[T any](svc service.ModelService[T], refiner query.Refiner) *ModelHandler[T] {
	return &ModelHandler[T]{service: svc, refiner: refiner}
}

// Routes returns the collection route "list" and the member route
// "detail" under prefix.
func (h *ModelHandler[T]) Routes(prefix, namespace string) *urls.Include {
	return urls.NewInclude(prefix, namespace,
		urls.NewRoute("/", http.HandlerFunc(h.Collection), "list"),
		urls.NewRoute("/{id}/", http.HandlerFunc(h.Member), "detail"),
	)
}

// Collection serves the collection endpoint.
func (h *ModelHandler[T]) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// Member serves the member endpoint.
func (h *ModelHandler[T]) Member(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.read(w, r)
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (h *ModelHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	total, items, err := h.service.List(r.Context(), query.ParamsFromRequest(r), h.refiner)
	if err != nil {
		writeError(w, r, "*ModelHandler.list", err)
		return
	}

	utils.WriteJSON(w, models.ListResponse[T]{TotalCount: total, Data: items}, http.StatusOK)
}

func (h *ModelHandler[T]) read(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, idParam))
	if err != nil {
		writeError(w, r, "*ModelHandler.read", err)
		return
	}

	utils.WriteJSON(w, item, http.StatusOK)
}

func (h *ModelHandler[T]) create(w http.ResponseWriter, r *http.Request) {
	attrs, err := createAttrs(r)
	if err != nil {
		writeError(w, r, "*ModelHandler.create", err)
		return
	}

	item, err := h.service.Create(r.Context(), attrs)
	if err != nil {
		writeError(w, r, "*ModelHandler.create", err)
		return
	}

	logger.FromRequest(r).Debug().Str("func", "*ModelHandler.create").Str("model", h.service.Meta().Name).Msg("object created")
	utils.WriteJSON(w, item, http.StatusCreated)
}

func (h *ModelHandler[T]) update(w http.ResponseWriter, r *http.Request) {
	attrs, err := utils.DecodeJSONObject(r.Body)
	if err != nil {
		writeError(w, r, "*ModelHandler.update", fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	item, err := h.service.Update(r.Context(), chi.URLParam(r, idParam), attrs)
	if err != nil {
		writeError(w, r, "*ModelHandler.update", err)
		return
	}

	utils.WriteJSON(w, item, http.StatusOK)
}

func (h *ModelHandler[T]) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, idParam)); err != nil {
		writeError(w, r, "*ModelHandler.delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// createAttrs reads the attributes of a create request: a JSON object body,
// or form values (first value per key) unless the form has a "data" field
// holding a JSON object, which then replaces them.
func createAttrs(r *http.Request) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		attrs, err := utils.DecodeJSONObject(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
		return attrs, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	if data, ok := r.PostForm[dataField]; ok && len(data) > 0 {
		attrs, err := utils.DecodeJSONObject(strings.NewReader(data[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: %s field: %w", ErrInvalidJSON, dataField, err)
		}
		return attrs, nil
	}

	attrs := make(map[string]any, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			attrs[key] = values[0]
		}
	}
	return attrs, nil
}

func methodNotAllowed(w http.ResponseWriter, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
