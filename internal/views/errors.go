package views

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/internal/service"
	"github.com/MKhiriev/go-duct-tape/internal/store"
	"github.com/MKhiriev/go-duct-tape/internal/validators"
	"github.com/MKhiriev/go-duct-tape/models"
)

var (
	// ErrNoViewFactory is returned by [Engine.Patterns] when one of the
	// engine factories is nil.
	ErrNoViewFactory = errors.New("view factory is not set")

	// ErrTemplate wraps template parsing and rendering failures.
	ErrTemplate = errors.New("template error")
)

var errorStatusMap = map[error]int{
	store.ErrNotFound:         http.StatusNotFound,
	store.ErrMultipleFound:    http.StatusConflict,
	store.ErrDuplicateEntry:   http.StatusConflict,
	service.ErrGone:           http.StatusGone,
	service.ErrNotImplemented: http.StatusNotImplemented,

	validators.ErrValidation: http.StatusBadRequest,
	models.ErrUnknownField:   http.StatusBadRequest,
	models.ErrReadOnlyField:  http.StatusBadRequest,
	models.ErrInvalidValue:   http.StatusBadRequest,
	query.ErrParse:           http.StatusBadRequest,
	query.ErrValue:           http.StatusBadRequest,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
