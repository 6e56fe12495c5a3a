// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// RelationSeparator separates a relation name from a column of the related
// model in a field path (e.g. "author__name").
const RelationSeparator = "__"

// Model is implemented by every persisted entity exposed through the generic
// CRUD layer.
//
// The persisted shape of a model is described by [Meta]; ScanTargets must
// return pointers to the struct fields in exactly the order of Meta().Fields
// so that rows can be scanned without reflection.
type Model interface {
	// Meta returns the static description of the model.
	Meta() Meta

	// ScanTargets returns destinations for [database/sql.Rows.Scan] in
	// Meta().Fields order.
	ScanTargets() []any

	// PK returns the primary key value.
	PK() any

	// String returns a human-readable label (used by autocomplete).
	String() string
}

// Pointer is the type constraint used by generic code that needs to allocate
// a T and use it as a [Model] through its pointer receiver.
type Pointer[T any] interface {
	*T
	Model
}

// MetaOf returns the [Meta] of model type T.
func MetaOf[T any, PT Pointer[T]]() Meta {
	var zero T
	return PT(&zero).Meta()
}

// Meta describes how a model is persisted.
type Meta struct {
	// Name is the model type name, e.g. "Book". Lower-cased it becomes the
	// default route prefix.
	Name string

	// Table is the SQL table. An empty Table means the model is not bound
	// to storage.
	Table string

	// PrimaryKey is the primary key column.
	PrimaryKey string

	// Fields lists every persisted column in scan order.
	Fields []Field

	// Relations lists the relations that may be traversed by field paths.
	Relations []Relation
}

// Relation is a single-hop join from the model table to another table.
type Relation struct {
	// Name is the path segment before [RelationSeparator].
	Name string

	// Table is the related table.
	Table string

	// Column is the joining column on the model table.
	Column string

	// RefColumn is the joining column on the related table.
	RefColumn string

	// Many is true when one model row can match several related rows.
	Many bool

	// Target returns the related model description; it is a function so
	// that two models may reference each other.
	Target func() Meta
}

// Bound reports whether the model is bound to a table.
func (m Meta) Bound() bool {
	return m.Table != ""
}

// Field returns the field stored in column.
func (m Meta) Field(column string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Column == column {
			return f, true
		}
	}
	return Field{}, false
}

// PKField returns the primary key field.
func (m Meta) PKField() Field {
	f, ok := m.Field(m.PrimaryKey)
	if !ok {
		return Field{Column: m.PrimaryKey, Type: FieldInt, ReadOnly: true}
	}
	return f
}

// Columns returns every column in scan order.
func (m Meta) Columns() []string {
	cols := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		cols[i] = f.Column
	}
	return cols
}

// QualifiedColumns returns every column prefixed with the table name.
func (m Meta) QualifiedColumns() []string {
	cols := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		cols[i] = m.Table + "." + f.Column
	}
	return cols
}

// Writable returns the fields a client may assign.
func (m Meta) Writable() []Field {
	fields := make([]Field, 0, len(m.Fields))
	for _, f := range m.Fields {
		if !f.ReadOnly {
			fields = append(fields, f)
		}
	}
	return fields
}

// Relation returns the relation called name.
func (m Meta) Relation(name string) (Relation, bool) {
	for _, r := range m.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// SplitPath splits a field path into its relation part and column part.
// A path without separator yields an empty relation.
func SplitPath(path string) (relation, column string) {
	idx := strings.Index(path, RelationSeparator)
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+len(RelationSeparator):]
}
