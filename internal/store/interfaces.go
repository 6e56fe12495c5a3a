package store

import (
	"context"

	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Repository persists one model type.
type Repository[T any] interface {
	// Queryset returns the unrefined queryset over every row.
	Queryset() query.Queryset

	// Get returns the single row matching every lookup pair (see
	// [query.Queryset.Where]). It fails with [ErrNotFound] or
	// [ErrMultipleFound].
	Get(ctx context.Context, lookup map[string]any) (T, error)

	// List returns the rows of qs.
	List(ctx context.Context, qs query.Queryset) ([]T, error)

	// Count returns the number of rows qs matches before slicing.
	Count(ctx context.Context, qs query.Queryset) (int64, error)

	// Insert persists a new row and returns it as stored.
	Insert(ctx context.Context, patch models.Patch) (T, error)

	// Update assigns patch to the row with primary key pk and returns it as
	// stored. It fails with [ErrNotFound] when no such row exists.
	Update(ctx context.Context, pk any, patch models.Patch) (T, error)

	// Delete removes the row with primary key pk. It fails with
	// [ErrNotFound] when no such row exists.
	Delete(ctx context.Context, pk any) error
}

// UserRepository stores API accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
