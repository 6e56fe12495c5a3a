package urls

import "errors"

var (
	// ErrNoReverseMatch is returned by [Table.Reverse] when no route has the
	// requested name or its parameters cannot be filled.
	ErrNoReverseMatch = errors.New("no reverse match")

	// ErrNoTable is returned by [Reverse] for a context not served by a
	// [Table].
	ErrNoTable = errors.New("no url table in context")
)
