package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FieldType is the Go-side type a column value is coerced to.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldFloat
	FieldBool
	FieldTime
)

// Field describes one persisted column.
type Field struct {
	// Column is the SQL column name; it is also the JSON/form key.
	Column string

	// Type drives value coercion in [Field.Parse].
	Type FieldType

	// Label is shown in rendered forms. Column is used when empty.
	Label string

	// Rules is a go-playground/validator tag applied on create and update,
	// e.g. "required,max=200".
	Rules string

	// ReadOnly fields (primary keys, server timestamps) are never assigned
	// from client input.
	ReadOnly bool
}

// DisplayName returns Label or, when unset, Column.
func (f Field) DisplayName() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Column
}

// Required reports whether Rules demands a value.
func (f Field) Required() bool {
	for _, rule := range strings.Split(f.Rules, ",") {
		if rule == "required" {
			return true
		}
	}
	return false
}

// Parse coerces a raw client value (form string, JSON scalar or
// [json.Number]) to the field type. nil stays nil and maps to SQL NULL.
func (f Field) Parse(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch f.Type {
	case FieldString:
		v, err := parseString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Column, err)
		}
		return v, nil
	case FieldInt:
		v, err := parseInt(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Column, err)
		}
		return v, nil
	case FieldFloat:
		v, err := parseFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Column, err)
		}
		return v, nil
	case FieldBool:
		v, err := parseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Column, err)
		}
		return v, nil
	case FieldTime:
		v, err := parseTime(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Column, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s: unsupported field type %d", ErrInvalidValue, f.Column, f.Type)
	}
}

func parseString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case map[string]any, []any:
		return "", fmt.Errorf("unexpected %T", raw)
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func parseInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected %T", raw)
	}
}

func parseFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("unexpected %T", raw)
	}
}

func parseBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case json.Number:
		return v.String() != "0", nil
	case string:
		// checkboxes post "on"
		if strings.EqualFold(v, "on") {
			return true, nil
		}
		if v == "" {
			return false, nil
		}
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("unexpected %T", raw)
	}
}

func parseTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, v)
	default:
		return time.Time{}, fmt.Errorf("unexpected %T", raw)
	}
}
