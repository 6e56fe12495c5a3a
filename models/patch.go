package models

import (
	"fmt"
	"maps"
	"slices"
)

// Patch is a typed, allow-listed set of column assignments for one model.
// It is the only way client input reaches an INSERT or UPDATE statement.
type Patch struct {
	Meta   Meta
	Values map[string]any
}

// NewPatch builds a [Patch] from raw client attributes.
//
// Every key must name a writable field of m; values are coerced with
// [Field.Parse]. Unknown keys fail with [ErrUnknownField], read-only keys
// with [ErrReadOnlyField], uncoercible values with [ErrInvalidValue].
func (m Meta) NewPatch(raw map[string]any) (Patch, error) {
	values := make(map[string]any, len(raw))
	for key, rawValue := range raw {
		field, ok := m.Field(key)
		if !ok {
			return Patch{}, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, m.Name, key)
		}
		if field.ReadOnly {
			return Patch{}, fmt.Errorf("%w: %s.%s", ErrReadOnlyField, m.Name, key)
		}

		value, err := field.Parse(rawValue)
		if err != nil {
			return Patch{}, err
		}
		values[key] = value
	}

	return Patch{Meta: m, Values: values}, nil
}

// Columns returns the assigned columns in lexical order.
func (p Patch) Columns() []string {
	return slices.Sorted(maps.Keys(p.Values))
}

// Empty reports whether the patch assigns nothing.
func (p Patch) Empty() bool {
	return len(p.Values) == 0
}

// Lookup returns the assignments as an equality lookup.
func (p Patch) Lookup() map[string]any {
	return maps.Clone(p.Values)
}
