package client

import (
	"context"

	"github.com/MKhiriev/go-duct-tape/internal/adapter"
	"github.com/MKhiriev/go-duct-tape/models"
)

// Resource hides the model type of an [adapter.ResourceAdapter] so that
// commands can treat books and authors alike.
type Resource struct {
	meta models.Meta

	list         func(ctx context.Context, opts adapter.ListOptions) (int64, []models.Model, error)
	get          func(ctx context.Context, id int64) (models.Model, error)
	create       func(ctx context.Context, attrs map[string]any) (models.Model, error)
	update       func(ctx context.Context, id int64, attrs map[string]any) (models.Model, error)
	delete       func(ctx context.Context, id int64) error
	autocomplete func(ctx context.Context, term string) ([]models.Choice, error)
}

func newResource[T any, PT models.Pointer[T]](r adapter.ResourceAdapter[T]) Resource {
	one := func(item T, err error) (models.Model, error) {
		if err != nil {
			return nil, err
		}
		return PT(&item), nil
	}

	return Resource{
		meta: models.MetaOf[T, PT](),
		list: func(ctx context.Context, opts adapter.ListOptions) (int64, []models.Model, error) {
			resp, err := r.List(ctx, opts)
			if err != nil {
				return 0, nil, err
			}
			rows := make([]models.Model, len(resp.Data))
			for i := range resp.Data {
				rows[i] = PT(&resp.Data[i])
			}
			return resp.TotalCount, rows, nil
		},
		get: func(ctx context.Context, id int64) (models.Model, error) {
			return one(r.Get(ctx, id))
		},
		create: func(ctx context.Context, attrs map[string]any) (models.Model, error) {
			return one(r.Create(ctx, attrs))
		},
		update: func(ctx context.Context, id int64, attrs map[string]any) (models.Model, error) {
			return one(r.Update(ctx, id, attrs))
		},
		delete:       r.Delete,
		autocomplete: r.Autocomplete,
	}
}

// LibraryResources returns the book and author resources of the API served
// at the adapter's base URL.
func LibraryResources(a *adapter.HTTPAdapter) map[string]Resource {
	return map[string]Resource{
		"books": newResource[models.Book](
			adapter.NewResource[models.Book](a, "/api/library/books/", "/api/library/bookac/"),
		),
		"authors": newResource[models.Author](
			adapter.NewResource[models.Author](a, "/api/library/authors/", "/api/library/writerac/"),
		),
	}
}
