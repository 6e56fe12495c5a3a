package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-duct-tape/models"
)

// DefaultLimit is the page size used when "limit" is present but empty.
const DefaultLimit = 25

// Refiner is one step narrowing, ordering or paging a queryset.
type Refiner interface {
	Refine(qs Queryset, params Params) (Queryset, error)
}

// RefinerFunc adapts a function to [Refiner].
type RefinerFunc func(qs Queryset, params Params) (Queryset, error)

// Refine implements [Refiner].
func (f RefinerFunc) Refine(qs Queryset, params Params) (Queryset, error) {
	return f(qs, params)
}

// Chain applies its steps in order. The first failing step aborts the
// chain.
type Chain []Refiner

// Refine implements [Refiner].
func (c Chain) Refine(qs Queryset, params Params) (Queryset, error) {
	for _, step := range c {
		var err error
		if qs, err = step.Refine(qs, params); err != nil {
			return qs, err
		}
	}
	return qs, nil
}

// DefaultChain returns search over searchFields, filter, sort and paging,
// in that order.
func DefaultChain(searchFields ...string) Chain {
	return Chain{
		SearchTerm{Fields: searchFields},
		Filter{},
		Sort{},
		Paging{DefaultLimit: DefaultLimit},
	}
}

// SearchTerm matches the "term" parameter against Fields (OR).
//
// A field name may carry a prefix selecting the match mode:
//
//	^title   starts with (case-insensitive)
//	=title   equals (case-insensitive)
//	@title   full-text search
//	title    contains (case-insensitive)
//
// Fields may traverse a relation ("author__name").
type SearchTerm struct {
	Fields []string
}

// Refine implements [Refiner].
func (s SearchTerm) Refine(qs Queryset, params Params) (Queryset, error) {
	if !params.Has(ParamTerm) || len(s.Fields) == 0 {
		return qs, nil
	}
	term := params.Get(ParamTerm)

	or := make(sq.Or, 0, len(s.Fields))
	for _, name := range s.Fields {
		if name == "" {
			continue
		}
		mode, path := name[:1], name[1:]
		switch mode {
		case "^", "=", "@":
		default:
			mode, path = "", name
		}

		column, field, next, err := qs.Column(path)
		if err != nil {
			return qs, err
		}
		qs = next
		column = textColumn(column, field)

		switch mode {
		case "^":
			or = append(or, likeExpr(column, qs.dialect.ILike, escapeLike(term)+"%"))
		case "=":
			or = append(or, iexactExpr(column, term))
		case "@":
			or = append(or, qs.dialect.FullText(column, term))
		default:
			or = append(or, likeExpr(column, qs.dialect.ILike, "%"+escapeLike(term)+"%"))
		}
	}

	if len(or) == 0 {
		return qs, nil
	}
	return qs.Filter(or), nil
}

// Filter applies the "filter" parameter, a JSON object of lookups (AND).
// See [Queryset.Where] for the accepted keys.
type Filter struct{}

// Refine implements [Refiner].
func (Filter) Refine(qs Queryset, params Params) (Queryset, error) {
	if !params.Has(ParamFilter) {
		return qs, nil
	}

	dec := json.NewDecoder(strings.NewReader(params.Get(ParamFilter)))
	dec.UseNumber()

	var lookup map[string]any
	if err := dec.Decode(&lookup); err != nil {
		return qs, fmt.Errorf("%w: filter: %w", ErrParse, err)
	}
	if lookup == nil {
		return qs, fmt.Errorf("%w: filter: expected a JSON object", ErrParse)
	}

	return qs.Where(lookup)
}

// Sort applies the "sort" parameter, a JSON array of
// {"property": ..., "direction": "ASC"|"DESC"} objects. It replaces any
// prior ordering. Properties must be columns of the model itself.
type Sort struct{}

// Refine implements [Refiner].
func (Sort) Refine(qs Queryset, params Params) (Queryset, error) {
	if !params.Has(ParamSort) {
		return qs, nil
	}

	raw := bytes.TrimSpace([]byte(params.Get(ParamSort)))
	if !bytes.HasPrefix(raw, []byte("[")) {
		return qs, fmt.Errorf("%w: sort: expected a JSON array", ErrParse)
	}
	var specs []models.SortSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return qs, fmt.Errorf("%w: sort: %w", ErrParse, err)
	}

	clauses := make([]string, 0, len(specs))
	for _, spec := range specs {
		field, ok := qs.meta.Field(spec.Property)
		if !ok {
			return qs, fmt.Errorf("%w: cannot sort %s by %q", ErrUnknownField, qs.meta.Name, spec.Property)
		}
		direction := models.SortAsc
		if spec.Direction == models.SortDesc {
			direction = models.SortDesc
		}
		clauses = append(clauses, qs.meta.Table+"."+field.Column+" "+direction)
	}

	return qs.OrderBy(clauses...), nil
}

// Paging slices the queryset when "limit" is present: rows
// [start : limit*page], page defaulting to 1 and start to 0. Without
// "limit" the queryset is returned whole.
type Paging struct {
	// DefaultLimit is used when "limit" is present but empty.
	DefaultLimit uint64
}

// Refine implements [Refiner].
func (p Paging) Refine(qs Queryset, params Params) (Queryset, error) {
	if !params.Has(ParamLimit) {
		return qs, nil
	}

	def := p.DefaultLimit
	if def == 0 {
		def = DefaultLimit
	}
	limit, err := uintParam(params, ParamLimit, def)
	if err != nil {
		return qs, err
	}
	page, err := uintParam(params, ParamPage, 1)
	if err != nil {
		return qs, err
	}
	start, err := uintParam(params, ParamStart, 0)
	if err != nil {
		return qs, err
	}

	hi, end := bits.Mul64(limit, page)
	if hi != 0 || end > math.MaxInt64 {
		return qs, fmt.Errorf("%w: %s*%s is out of range", ErrValue, ParamLimit, ParamPage)
	}

	return qs.Slice(start, end), nil
}

// uintParam parses a non-negative integer that fits a SQL BIGINT.
func uintParam(params Params, key string, def uint64) (uint64, error) {
	raw := strings.TrimSpace(params.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s=%q is not a non-negative integer", ErrValue, key, raw)
	}
	return uint64(v), nil
}
