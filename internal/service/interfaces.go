package service

import (
	"context"

	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ModelService implements create, read, update and delete of one model type
// on top of a repository.
type ModelService[T any] interface {
	// Meta returns the model description.
	Meta() models.Meta

	// Get returns the row whose primary key is id.
	Get(ctx context.Context, id string) (T, error)

	// List refines the model queryset with params and returns the number of
	// matching rows before paging and the (paged) rows. An empty page is
	// reported as not found.
	List(ctx context.Context, params query.Params, refiner query.Refiner) (int64, []T, error)

	// Search is List without the not-found rule and without the count.
	Search(ctx context.Context, params query.Params, refiner query.Refiner) ([]T, error)

	// Create inserts a row from raw attributes unless an identical row
	// already exists.
	Create(ctx context.Context, raw map[string]any) (T, error)

	// Update assigns raw attributes to the row whose primary key is id.
	Update(ctx context.Context, id string, raw map[string]any) (T, error)

	// Delete removes the row whose primary key is id.
	Delete(ctx context.Context, id string) error
}

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService reports build information of the running server.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
