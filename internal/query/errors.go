package query

import (
	"errors"

	"github.com/MKhiriev/go-duct-tape/models"
)

// Errors returned by refinement steps. All of them are client errors.
var (
	// ErrParse is returned when the "filter" or "sort" parameter is not
	// well-formed JSON of the expected shape.
	ErrParse = errors.New("malformed query parameter")

	// ErrValue is returned when a paging parameter is not a non-negative
	// integer or a filter value cannot be coerced to the field type.
	ErrValue = errors.New("invalid query parameter value")

	// ErrUnknownField is returned when a field path names neither a column
	// of the model nor a column reachable through one of its relations.
	ErrUnknownField = models.ErrUnknownField

	// ErrUnknownLookup is returned for a filter key whose suffix is not a
	// supported lookup.
	ErrUnknownLookup = errors.New("unknown filter lookup")

	// ErrUnknownDialect is returned by [DialectFor] for an unsupported
	// database driver name.
	ErrUnknownDialect = errors.New("unknown sql dialect")
)
