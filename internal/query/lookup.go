package query

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-duct-tape/models"
)

// Lookup suffixes accepted in filter keys, e.g. "year__gte".
const (
	LookupExact       = "exact"
	LookupIExact      = "iexact"
	LookupContains    = "contains"
	LookupIContains   = "icontains"
	LookupStartsWith  = "startswith"
	LookupIStartsWith = "istartswith"
	LookupGt          = "gt"
	LookupGte         = "gte"
	LookupLt          = "lt"
	LookupLte         = "lte"
	LookupIn          = "in"
	LookupIsNull      = "isnull"
)

var lookups = []string{
	LookupExact, LookupIExact, LookupContains, LookupIContains,
	LookupStartsWith, LookupIStartsWith, LookupGt, LookupGte,
	LookupLt, LookupLte, LookupIn, LookupIsNull,
}

// Where returns a queryset constrained by every key/value pair of lookup
// (AND). Keys are field paths optionally suffixed with a lookup; values are
// coerced to the field type.
func (qs Queryset) Where(lookup map[string]any) (Queryset, error) {
	// sorted for a stable statement text
	for _, key := range slices.Sorted(maps.Keys(lookup)) {
		var err error
		qs, err = qs.where1(key, lookup[key])
		if err != nil {
			return qs, err
		}
	}
	return qs, nil
}

func (qs Queryset) where1(key string, value any) (Queryset, error) {
	path, op := splitLookup(key)

	column, field, next, err := qs.Column(path)
	if err != nil {
		// "title__bogus": the prefix is a real column, so the suffix is at fault
		if own, suffix := models.SplitPath(key); suffix != "" {
			if _, ok := qs.meta.Field(own); ok {
				return qs, fmt.Errorf("%w: %q", ErrUnknownLookup, key)
			}
		}
		return qs, err
	}

	cond, err := lookupCondition(next.dialect, column, field, op, value)
	if err != nil {
		return qs, fmt.Errorf("%w: %s: %w", ErrValue, key, err)
	}

	return next.Filter(cond), nil
}

func splitLookup(key string) (path, op string) {
	idx := strings.LastIndex(key, models.RelationSeparator)
	if idx < 0 {
		return key, LookupExact
	}
	if suffix := key[idx+len(models.RelationSeparator):]; slices.Contains(lookups, suffix) {
		return key[:idx], suffix
	}
	return key, LookupExact
}

func lookupCondition(d Dialect, column string, field models.Field, op string, raw any) (sq.Sqlizer, error) {
	switch op {
	case LookupIsNull:
		isNull, err := models.Field{Column: field.Column, Type: models.FieldBool}.Parse(raw)
		if err != nil {
			return nil, err
		}
		if b, _ := isNull.(bool); b {
			return sq.Eq{column: nil}, nil
		}
		return sq.NotEq{column: nil}, nil

	case LookupIn:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%q expects a list, got %T", op, raw)
		}
		values := make([]any, 0, len(items))
		for _, item := range items {
			v, err := field.Parse(item)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return sq.Eq{column: values}, nil

	case LookupIExact, LookupContains, LookupIContains, LookupStartsWith, LookupIStartsWith:
		if raw == nil {
			return nil, fmt.Errorf("%q does not accept null", op)
		}
		text, err := models.Field{Column: field.Column, Type: models.FieldString}.Parse(raw)
		if err != nil {
			return nil, err
		}
		term := text.(string)
		column = textColumn(column, field)
		switch op {
		case LookupIExact:
			return iexactExpr(column, term), nil
		case LookupContains:
			return likeExpr(column, "LIKE", "%"+escapeLike(term)+"%"), nil
		case LookupIContains:
			return likeExpr(column, d.ILike, "%"+escapeLike(term)+"%"), nil
		case LookupStartsWith:
			return likeExpr(column, "LIKE", escapeLike(term)+"%"), nil
		default:
			return likeExpr(column, d.ILike, escapeLike(term)+"%"), nil
		}
	}

	value, err := field.Parse(raw)
	if err != nil {
		return nil, err
	}

	switch op {
	case LookupGt:
		return sq.Gt{column: value}, nil
	case LookupGte:
		return sq.GtOrEq{column: value}, nil
	case LookupLt:
		return sq.Lt{column: value}, nil
	case LookupLte:
		return sq.LtOrEq{column: value}, nil
	default:
		// nil renders as IS NULL
		return sq.Eq{column: value}, nil
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func likeExpr(column, operator, pattern string) sq.Sqlizer {
	return sq.Expr(fmt.Sprintf(`%s %s ? ESCAPE '\'`, column, operator), pattern)
}

// textColumn renders a non-string column as text so that pattern
// operators apply on every dialect.
func textColumn(column string, field models.Field) string {
	if field.Type == models.FieldString {
		return column
	}
	return "CAST(" + column + " AS TEXT)"
}

func iexactExpr(column, term string) sq.Sqlizer {
	return sq.Expr(fmt.Sprintf("LOWER(%s) = LOWER(?)", column), term)
}
