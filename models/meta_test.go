package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path     string
		relation string
		column   string
	}{
		{path: "title", relation: "", column: "title"},
		{path: "author__name", relation: "author", column: "name"},
		{path: "author__country__code", relation: "author", column: "country__code"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			relation, column := SplitPath(tt.path)
			assert.Equal(t, tt.relation, relation)
			assert.Equal(t, tt.column, column)
		})
	}
}

func TestMetaOf(t *testing.T) {
	meta := MetaOf[Book]()
	assert.Equal(t, "Book", meta.Name)
	assert.Equal(t, "books", meta.Table)
	assert.Len(t, (&Book{}).ScanTargets(), len(meta.Fields))
	assert.Len(t, (&Author{}).ScanTargets(), len(MetaOf[Author]().Fields))

	rel, ok := meta.Relation("author")
	require.True(t, ok)
	assert.Equal(t, "Author", rel.Target().Name)

	back, ok := rel.Target().Relation("books")
	require.True(t, ok)
	assert.True(t, back.Many)
}

func TestMeta_QualifiedColumns(t *testing.T) {
	meta := MetaOf[Author]()
	assert.Equal(t, []string{"authors.id", "authors.name", "authors.country"}, meta.QualifiedColumns())
	assert.Equal(t, []string{"id", "name", "country"}, meta.Columns())
	assert.Len(t, meta.Writable(), 2)
}

func TestField_Parse(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		field   Field
		raw     any
		want    any
		wantErr bool
	}{
		{name: "nil stays nil", field: Field{Column: "x", Type: FieldInt}, raw: nil, want: nil},
		{name: "string", field: Field{Column: "x", Type: FieldString}, raw: "abc", want: "abc"},
		{name: "number to string", field: Field{Column: "x", Type: FieldString}, raw: json.Number("12"), want: "12"},
		{name: "object to string", field: Field{Column: "x", Type: FieldString}, raw: map[string]any{"a": 1}, wantErr: true},
		{name: "list to string", field: Field{Column: "x", Type: FieldString}, raw: []any{"a"}, wantErr: true},
		{name: "bool to string", field: Field{Column: "x", Type: FieldString}, raw: true, want: "true"},
		{name: "int from form", field: Field{Column: "x", Type: FieldInt}, raw: " 42 ", want: int64(42)},
		{name: "int from json number", field: Field{Column: "x", Type: FieldInt}, raw: json.Number("7"), want: int64(7)},
		{name: "int from integral float", field: Field{Column: "x", Type: FieldInt}, raw: 3.0, want: int64(3)},
		{name: "int from fraction", field: Field{Column: "x", Type: FieldInt}, raw: 3.5, wantErr: true},
		{name: "int from garbage", field: Field{Column: "x", Type: FieldInt}, raw: "abc", wantErr: true},
		{name: "float", field: Field{Column: "x", Type: FieldFloat}, raw: "1.5", want: 1.5},
		{name: "bool checkbox", field: Field{Column: "x", Type: FieldBool}, raw: "on", want: true},
		{name: "bool json", field: Field{Column: "x", Type: FieldBool}, raw: false, want: false},
		{name: "bool garbage", field: Field{Column: "x", Type: FieldBool}, raw: "maybe", wantErr: true},
		{name: "date only", field: Field{Column: "x", Type: FieldTime}, raw: "2024-05-01", want: day},
		{name: "rfc3339", field: Field{Column: "x", Type: FieldTime}, raw: "2024-05-01T00:00:00Z", want: day},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.field.Parse(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestField_Required(t *testing.T) {
	assert.True(t, Field{Rules: "required,max=3"}.Required())
	assert.False(t, Field{Rules: "max=3"}.Required())
	assert.False(t, Field{}.Required())
}

func TestMeta_NewPatch(t *testing.T) {
	meta := MetaOf[Book]()

	t.Run("coerces values", func(t *testing.T) {
		patch, err := meta.NewPatch(map[string]any{"title": "Dune", "year": "1965"})
		require.NoError(t, err)
		assert.Equal(t, []string{"title", "year"}, patch.Columns())
		assert.Equal(t, int64(1965), patch.Values["year"])
		assert.False(t, patch.Empty())
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := meta.NewPatch(map[string]any{"title; DROP TABLE books": "x"})
		assert.ErrorIs(t, err, ErrUnknownField)
	})

	t.Run("read-only field", func(t *testing.T) {
		_, err := meta.NewPatch(map[string]any{"id": 5})
		assert.ErrorIs(t, err, ErrReadOnlyField)
	})

	t.Run("bad value", func(t *testing.T) {
		_, err := meta.NewPatch(map[string]any{"year": "nineteen"})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("empty", func(t *testing.T) {
		patch, err := meta.NewPatch(nil)
		require.NoError(t, err)
		assert.True(t, patch.Empty())
	})
}

func TestValues(t *testing.T) {
	book := &Book{ID: 4, Title: "Solaris", Status: BookLost, Year: 1961, AuthorID: 2}
	assert.Equal(t, []any{int64(4), "Solaris", "", BookLost, int64(1961), int64(2)}, Values(book))
	assert.Equal(t, "Solaris (1961)", book.String())

	v, ok := Value(book, "status")
	require.True(t, ok)
	assert.Equal(t, BookLost, v)

	_, ok = Value(book, "publisher")
	assert.False(t, ok)
}
