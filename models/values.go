package models

import "time"

// Values returns the field values of m in Meta().Fields order, read through
// ScanTargets.
func Values(m Model) []any {
	targets := m.ScanTargets()
	values := make([]any, len(targets))
	for i, target := range targets {
		switch v := target.(type) {
		case *string:
			values[i] = *v
		case *int64:
			values[i] = *v
		case *int:
			values[i] = *v
		case *float64:
			values[i] = *v
		case *bool:
			values[i] = *v
		case *time.Time:
			values[i] = *v
		case *any:
			values[i] = *v
		default:
			values[i] = target
		}
	}
	return values
}

// Value returns the value of column in m.
func Value(m Model, column string) (any, bool) {
	for i, f := range m.Meta().Fields {
		if f.Column == column {
			return Values(m)[i], true
		}
	}
	return nil, false
}
