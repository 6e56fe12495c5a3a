package models

import "errors"

// Sentinel errors returned while turning client input into typed values.
var (
	// ErrUnknownField is returned when a key does not name a field of the
	// model (or of a traversed relation).
	ErrUnknownField = errors.New("unknown field")

	// ErrReadOnlyField is returned when client input assigns a read-only
	// field such as the primary key.
	ErrReadOnlyField = errors.New("field is read-only")

	// ErrInvalidValue is returned when a value cannot be coerced to the
	// field type.
	ErrInvalidValue = errors.New("invalid field value")
)
