package models

import "strconv"

// Book statuses accepted by the sample application.
const (
	BookAvailable = "available"
	BookBorrowed  = "borrowed"
	BookLost      = "lost"
)

// Author is a writer of [Book]s.
type Author struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

var authorMeta = Meta{
	Name:       "Author",
	Table:      "authors",
	PrimaryKey: "id",
	Fields: []Field{
		{Column: "id", Type: FieldInt, Label: "ID", ReadOnly: true},
		{Column: "name", Type: FieldString, Label: "Name", Rules: "required,max=200"},
		{Column: "country", Type: FieldString, Label: "Country", Rules: "max=100"},
	},
}

// Meta implements [Model].
func (a *Author) Meta() Meta { return authorMeta }

// ScanTargets implements [Model].
func (a *Author) ScanTargets() []any { return []any{&a.ID, &a.Name, &a.Country} }

// PK implements [Model].
func (a *Author) PK() any { return a.ID }

func (a *Author) String() string { return a.Name }

// Book is a catalogued copy in the library.
type Book struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ISBN     string `json:"isbn"`
	Status   string `json:"status"`
	Year     int64  `json:"year"`
	AuthorID int64  `json:"author_id"`
}

var bookMeta = Meta{
	Name:       "Book",
	Table:      "books",
	PrimaryKey: "id",
	Fields: []Field{
		{Column: "id", Type: FieldInt, Label: "ID", ReadOnly: true},
		{Column: "title", Type: FieldString, Label: "Title", Rules: "required,max=300"},
		{Column: "isbn", Type: FieldString, Label: "ISBN", Rules: "max=17"},
		{Column: "status", Type: FieldString, Label: "Status", Rules: "required,oneof=available borrowed lost"},
		{Column: "year", Type: FieldInt, Label: "Year", Rules: "gte=0,lte=3000"},
		{Column: "author_id", Type: FieldInt, Label: "Author", Rules: "required,gt=0"},
	},
}

// relations reference the other model's Meta, so they are attached after
// both variables are initialised.
func init() {
	authorMeta.Relations = []Relation{
		{Name: "books", Table: "books", Column: "id", RefColumn: "author_id", Many: true, Target: func() Meta { return bookMeta }},
	}
	bookMeta.Relations = []Relation{
		{Name: "author", Table: "authors", Column: "author_id", RefColumn: "id", Target: func() Meta { return authorMeta }},
	}
}

// Meta implements [Model].
func (b *Book) Meta() Meta { return bookMeta }

// ScanTargets implements [Model].
func (b *Book) ScanTargets() []any {
	return []any{&b.ID, &b.Title, &b.ISBN, &b.Status, &b.Year, &b.AuthorID}
}

// PK implements [Model].
func (b *Book) PK() any { return b.ID }

func (b *Book) String() string {
	if b.Year == 0 {
		return b.Title
	}
	return b.Title + " (" + strconv.FormatInt(b.Year, 10) + ")"
}
