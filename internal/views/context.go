package views

import (
	"fmt"
	"net/url"

	"github.com/MKhiriev/go-duct-tape/models"
)

// Row is an object prepared for templates.
type Row struct {
	PK    any
	Label string
	Cells []Cell
}

// Cell is one field of a [Row].
type Cell struct {
	Field models.Field
	Value any
}

// Value returns the value of column, nil when the row has no such column.
func (r Row) Value(column string) any {
	for _, c := range r.Cells {
		if c.Field.Column == column {
			return c.Value
		}
	}
	return nil
}

func rowOf[T any, PT models.Pointer[T]](obj *T) Row {
	m := PT(obj)
	values := models.Values(m)
	fields := m.Meta().Fields

	cells := make([]Cell, len(fields))
	for i, f := range fields {
		cells[i] = Cell{Field: f, Value: values[i]}
	}
	return Row{PK: m.PK(), Label: m.String(), Cells: cells}
}

func rowsOf[T any, PT models.Pointer[T]](items []T) []Row {
	rows := make([]Row, len(items))
	for i := range items {
		rows[i] = rowOf[T, PT](&items[i])
	}
	return rows
}

// Pagination describes the page of a list view.
type Pagination struct {
	Number   int
	NumPages int
	PerPage  int
	Count    int64
}

func newPagination(number, perPage int, count int64) Pagination {
	p := Pagination{Number: number, NumPages: 1, PerPage: perPage, Count: count}
	if perPage > 0 && count > 0 {
		p.NumPages = int((count + int64(perPage) - 1) / int64(perPage))
	}
	return p
}

func (p Pagination) HasPrevious() bool { return p.Number > 1 }

func (p Pagination) HasNext() bool { return p.Number < p.NumPages }

func (p Pagination) PreviousPageNumber() int { return p.Number - 1 }

func (p Pagination) NextPageNumber() int { return p.Number + 1 }

// FormField is one input of a rendered form.
type FormField struct {
	Field models.Field
	Value string
}

// Form is the writable fields of a model with their current values and the
// errors of the last submission.
type Form struct {
	Fields []FormField
	Errors []string
}

// newForm prefills the writable fields from row, then from the submitted
// values.
func newForm(meta models.Meta, row *Row, submitted url.Values) Form {
	writable := meta.Writable()
	form := Form{Fields: make([]FormField, len(writable))}
	for i, f := range writable {
		form.Fields[i].Field = f
		if row != nil {
			if v := row.Value(f.Column); v != nil {
				form.Fields[i].Value = fmt.Sprint(v)
			}
		}
		if values, ok := submitted[f.Column]; ok && len(values) > 0 {
			form.Fields[i].Value = values[0]
		}
	}
	return form
}

// formAttrs extracts the writable fields from submitted form values. Empty
// values of non-string fields are left out so that they keep their
// defaults.
func formAttrs(meta models.Meta, submitted url.Values) map[string]any {
	raw := make(map[string]any)
	for _, f := range meta.Writable() {
		values, ok := submitted[f.Column]
		if !ok || len(values) == 0 {
			if f.Type == models.FieldBool {
				// unchecked checkboxes are not posted
				raw[f.Column] = false
			}
			continue
		}
		if values[0] == "" && f.Type != models.FieldString {
			continue
		}
		raw[f.Column] = values[0]
	}
	return raw
}
