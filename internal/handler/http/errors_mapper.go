package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/internal/service"
	"github.com/MKhiriev/go-duct-tape/internal/store"
	"github.com/MKhiriev/go-duct-tape/internal/validators"
	"github.com/MKhiriev/go-duct-tape/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrGone:                    http.StatusGone,
	service.ErrNotImplemented:          http.StatusNotImplemented,

	query.ErrParse:         http.StatusBadRequest,
	query.ErrValue:         http.StatusBadRequest,
	query.ErrUnknownLookup: http.StatusBadRequest,

	models.ErrUnknownField:  http.StatusBadRequest,
	models.ErrReadOnlyField: http.StatusBadRequest,
	models.ErrInvalidValue:  http.StatusBadRequest,

	validators.ErrValidation: http.StatusBadRequest,

	ErrInvalidJSON: http.StatusBadRequest,

	store.ErrNotFound:           http.StatusNotFound,
	store.ErrMultipleFound:      http.StatusConflict,
	store.ErrDuplicateEntry:     http.StatusConflict,
	store.ErrLoginAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusUnauthorized,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError answers with the status mapped from err. Client errors echo
// the error text; server errors are logged and answered with the status
// text only.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("func", funcName).Msg("request failed")
		http.Error(w, http.StatusText(status), status)
		return
	}

	logger.FromRequest(r).Debug().Err(err).Str("func", funcName).Int("status", status).Msg("request rejected")
	http.Error(w, err.Error(), status)
}
