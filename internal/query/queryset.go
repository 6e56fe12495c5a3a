// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"fmt"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-duct-tape/models"
)

// Queryset is a lazy SELECT over one model table.
//
// Querysets are values: every method returns a new Queryset and never
// modifies the receiver, so a base queryset may be shared between requests.
type Queryset struct {
	meta    models.Meta
	dialect Dialect

	where    []sq.Sqlizer
	joins    []models.Relation
	orderBy  []string
	distinct bool

	sliced bool
	offset uint64
	limit  uint64
}

// New returns a queryset selecting every row of meta's table.
func New(meta models.Meta, dialect Dialect) Queryset {
	return Queryset{meta: meta, dialect: dialect}
}

// Meta returns the model description.
func (qs Queryset) Meta() models.Meta { return qs.meta }

// Dialect returns the SQL dialect.
func (qs Queryset) Dialect() Dialect { return qs.dialect }

// Filter returns a queryset additionally constrained by cond.
func (qs Queryset) Filter(cond sq.Sqlizer) Queryset {
	qs.where = append(slices.Clip(qs.where), cond)
	return qs
}

// OrderBy returns a queryset ordered by clauses, replacing prior ordering.
func (qs Queryset) OrderBy(clauses ...string) Queryset {
	qs.orderBy = slices.Clone(clauses)
	return qs
}

// Distinct returns a queryset without duplicate rows.
func (qs Queryset) Distinct() Queryset {
	qs.distinct = true
	return qs
}

// Slice returns the rows [start:end) of the queryset. An end at or before
// start yields an empty result.
func (qs Queryset) Slice(start, end uint64) Queryset {
	qs.sliced = true
	qs.offset = start
	qs.limit = 0
	if end > start {
		qs.limit = end - start
	}
	return qs
}

// Bounds returns the slice window and whether one was applied.
func (qs Queryset) Bounds() (offset, limit uint64, ok bool) {
	return qs.offset, qs.limit, qs.sliced
}

// IsDistinct reports whether duplicate rows are removed.
func (qs Queryset) IsDistinct() bool { return qs.distinct }

// Column resolves a field path to a qualified column.
//
// A plain column name resolves against the model table. A path of the form
// "relation__column" joins the related table (once) and resolves against
// it; to-many relations make the queryset distinct.
func (qs Queryset) Column(path string) (string, models.Field, Queryset, error) {
	relName, column := models.SplitPath(path)
	if relName == "" {
		field, ok := qs.meta.Field(column)
		if !ok {
			return "", models.Field{}, qs, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, qs.meta.Name, path)
		}
		return qs.meta.Table + "." + field.Column, field, qs, nil
	}

	rel, ok := qs.meta.Relation(relName)
	if !ok || rel.Target == nil || strings.Contains(column, models.RelationSeparator) {
		return "", models.Field{}, qs, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, qs.meta.Name, path)
	}
	field, ok := rel.Target().Field(column)
	if !ok {
		return "", models.Field{}, qs, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, qs.meta.Name, path)
	}

	if !slices.ContainsFunc(qs.joins, func(j models.Relation) bool { return j.Name == rel.Name }) {
		qs.joins = append(slices.Clip(qs.joins), rel)
	}
	if rel.Many {
		qs.distinct = true
	}

	return rel.Name + "." + field.Column, field, qs, nil
}

// SelectBuilder renders the queryset as a SELECT of every model column.
func (qs Queryset) SelectBuilder() sq.SelectBuilder {
	b := qs.base(qs.meta.QualifiedColumns()...)
	if qs.distinct {
		b = b.Distinct()
	}
	if len(qs.orderBy) > 0 {
		b = b.OrderBy(qs.orderBy...)
	}
	if qs.sliced {
		b = b.Limit(qs.limit).Offset(qs.offset)
	}
	return b
}

// CountBuilder renders the number of rows the queryset matches before
// slicing. Ordering is dropped.
func (qs Queryset) CountBuilder() sq.SelectBuilder {
	if qs.distinct {
		return qs.base(fmt.Sprintf("COUNT(DISTINCT %s.%s)", qs.meta.Table, qs.meta.PrimaryKey))
	}
	return qs.base("COUNT(*)")
}

// ToSql implements [sq.Sqlizer] with the SELECT statement.
func (qs Queryset) ToSql() (string, []any, error) {
	return qs.SelectBuilder().ToSql()
}

func (qs Queryset) base(columns ...string) sq.SelectBuilder {
	b := sq.StatementBuilder.
		PlaceholderFormat(qs.dialect.Placeholder).
		Select(columns...).
		From(qs.meta.Table)

	for _, rel := range qs.joins {
		b = b.LeftJoin(fmt.Sprintf("%s AS %s ON %s.%s = %s.%s",
			rel.Table, rel.Name, rel.Name, rel.RefColumn, qs.meta.Table, rel.Column))
	}
	for _, cond := range qs.where {
		b = b.Where(cond)
	}

	return b
}
