package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Dialect holds the SQL differences between supported databases.
type Dialect struct {
	// Name is the database/sql driver name.
	Name string

	// Placeholder renders bind parameters.
	Placeholder sq.PlaceholderFormat

	// ILike is the case-insensitive LIKE operator.
	ILike string

	// FullText builds a full-text match of term against column.
	FullText func(column, term string) sq.Sqlizer
}

// Postgres is the dialect of the pgx driver.
var Postgres = Dialect{
	Name:        "pgx",
	Placeholder: sq.Dollar,
	ILike:       "ILIKE",
	FullText: func(column, term string) sq.Sqlizer {
		return sq.Expr(fmt.Sprintf("to_tsvector(%s) @@ plainto_tsquery(?)", column), term)
	},
}

// SQLite is the dialect of the go-sqlite3 driver. SQLite has no full-text
// search on plain tables, so it degrades to a substring match.
var SQLite = Dialect{
	Name:        "sqlite3",
	Placeholder: sq.Question,
	ILike:       "LIKE",
	FullText: func(column, term string) sq.Sqlizer {
		return likeExpr(column, "LIKE", "%"+escapeLike(term)+"%")
	},
}

// DialectFor returns the dialect of a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, driver)
	}
}
