package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/mock"
	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/internal/store"
	"github.com/MKhiriev/go-duct-tape/internal/validators"
	"github.com/MKhiriev/go-duct-tape/models"
)

var errStorage = errors.New("storage error")

func newTestBookService(t *testing.T) (ModelService[models.Book], *mock.MockRepository[models.Book]) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository[models.Book](ctrl)
	svc := NewModelService[models.Book](repo, validators.NewModelValidator(), logger.Nop())
	return svc, repo
}

func booksQueryset() query.Queryset {
	return query.New(models.MetaOf[models.Book](), query.SQLite)
}

func TestModelService_Meta(t *testing.T) {
	svc, _ := newTestBookService(t)
	assert.Equal(t, "Book", svc.Meta().Name)
}

func TestModelService_Get(t *testing.T) {
	ctx := context.Background()
	book := models.Book{ID: 1, Title: "Solaris"}

	t.Run("found", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Get(ctx, map[string]any{"id": "1"}).Return(book, nil)

		got, err := svc.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, book, got)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Get(ctx, gomock.Any()).Return(models.Book{}, store.ErrNotFound)

		_, err := svc.Get(ctx, "9")
		require.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "No Book matches the given query.")
	})

	t.Run("id of the wrong type", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Get(ctx, gomock.Any()).Return(models.Book{}, query.ErrValue)

		_, err := svc.Get(ctx, "abc")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ambiguous lookup keeps its own error", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Get(ctx, gomock.Any()).Return(models.Book{}, store.ErrMultipleFound)

		_, err := svc.Get(ctx, "1")
		require.ErrorIs(t, err, store.ErrMultipleFound)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Get(ctx, gomock.Any()).Return(models.Book{}, errStorage)

		_, err := svc.Get(ctx, "1")
		assert.ErrorIs(t, err, errStorage)
	})
}

func TestModelService_List(t *testing.T) {
	ctx := context.Background()
	books := []models.Book{{ID: 1}, {ID: 2}}

	t.Run("counts before paging", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		params := query.Params{query.ParamLimit: {"2"}}

		repo.EXPECT().Queryset().Return(booksQueryset())
		repo.EXPECT().Count(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, qs query.Queryset) (int64, error) {
			_, limit, ok := qs.Bounds()
			assert.True(t, ok)
			assert.EqualValues(t, 2, limit)
			return 7, nil
		})
		repo.EXPECT().List(ctx, gomock.Any()).Return(books, nil)

		total, items, err := svc.List(ctx, params, query.DefaultChain())
		require.NoError(t, err)
		assert.EqualValues(t, 7, total)
		assert.Equal(t, books, items)
	})

	t.Run("empty result is not found", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Queryset().Return(booksQueryset())
		repo.EXPECT().Count(ctx, gomock.Any()).Return(int64(0), nil)
		repo.EXPECT().List(ctx, gomock.Any()).Return(nil, nil)

		_, _, err := svc.List(ctx, query.Params{}, query.DefaultChain())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("malformed parameters", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Queryset().Return(booksQueryset())

		_, _, err := svc.List(ctx, query.Params{query.ParamFilter: {"{"}}, query.DefaultChain())
		assert.ErrorIs(t, err, query.ErrParse)
	})

	t.Run("count failure", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Queryset().Return(booksQueryset())
		repo.EXPECT().Count(ctx, gomock.Any()).Return(int64(0), errStorage)

		_, _, err := svc.List(ctx, query.Params{}, nil)
		assert.ErrorIs(t, err, errStorage)
	})
}

func TestModelService_Search(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestBookService(t)

	repo.EXPECT().Queryset().Return(booksQueryset())
	repo.EXPECT().List(ctx, gomock.Any()).Return(nil, nil)

	items, err := svc.Search(ctx, query.Params{query.ParamTerm: {"zzz"}}, query.SearchTerm{Fields: []string{"title"}})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestModelService_Create(t *testing.T) {
	ctx := context.Background()
	raw := map[string]any{"title": "Solaris", "status": "available", "author_id": "2"}
	created := models.Book{ID: 5, Title: "Solaris", Status: "available", AuthorID: 2}

	t.Run("inserts when no identical row exists", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Get(ctx, map[string]any{"title": "Solaris", "status": "available", "author_id": int64(2)}).
			Return(models.Book{}, store.ErrNotFound)
		repo.EXPECT().Insert(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, patch models.Patch) (models.Book, error) {
			assert.Equal(t, []string{"author_id", "status", "title"}, patch.Columns())
			return created, nil
		})

		got, err := svc.Create(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("identical row", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Get(ctx, gomock.Any()).Return(created, nil)

		_, err := svc.Create(ctx, raw)
		assert.ErrorIs(t, err, store.ErrDuplicateEntry)
	})

	t.Run("several identical rows", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Get(ctx, gomock.Any()).Return(models.Book{}, store.ErrMultipleFound)

		_, err := svc.Create(ctx, raw)
		assert.ErrorIs(t, err, store.ErrDuplicateEntry)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc, _ := newTestBookService(t)

		_, err := svc.Create(ctx, map[string]any{"title": "Solaris"})
		assert.ErrorIs(t, err, validators.ErrValidation)
	})

	t.Run("unknown attribute", func(t *testing.T) {
		svc, _ := newTestBookService(t)

		_, err := svc.Create(ctx, map[string]any{"publisher": "Ace"})
		assert.ErrorIs(t, err, models.ErrUnknownField)
	})

	t.Run("lookup failure", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Get(ctx, gomock.Any()).Return(models.Book{}, errStorage)

		_, err := svc.Create(ctx, raw)
		assert.ErrorIs(t, err, errStorage)
	})
}

func TestModelService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("validates only patched fields", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		updated := models.Book{ID: 1, Status: "lost"}
		repo.EXPECT().Update(ctx, "1", gomock.Any()).Return(updated, nil)

		got, err := svc.Update(ctx, "1", map[string]any{"status": "lost"})
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("invalid value", func(t *testing.T) {
		svc, _ := newTestBookService(t)

		_, err := svc.Update(ctx, "1", map[string]any{"status": "burnt"})
		assert.ErrorIs(t, err, validators.ErrValidation)
	})

	t.Run("missing id", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Update(ctx, "9", gomock.Any()).Return(models.Book{}, store.ErrNotFound)

		_, err := svc.Update(ctx, "9", map[string]any{"status": "lost"})
		require.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "No Book matches the given query.")
	})

	t.Run("read-only attribute", func(t *testing.T) {
		svc, _ := newTestBookService(t)

		_, err := svc.Update(ctx, "1", map[string]any{"id": 3})
		assert.ErrorIs(t, err, models.ErrReadOnlyField)
	})
}

func TestModelService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Delete(ctx, "1").Return(nil)
		assert.NoError(t, svc.Delete(ctx, "1"))
	})

	t.Run("already gone", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Delete(ctx, "1").Return(store.ErrNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, "1"), ErrGone)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, repo := newTestBookService(t)
		repo.EXPECT().Delete(ctx, "1").Return(errStorage)
		assert.ErrorIs(t, svc.Delete(ctx, "1"), errStorage)
	})
}

func TestModelService_Unbound(t *testing.T) {
	ctx := context.Background()
	svc := NewModelService[models.Book](nil, validators.NewModelValidator(), logger.Nop())

	_, err := svc.Get(ctx, "1")
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, _, err = svc.List(ctx, query.Params{}, query.DefaultChain())
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = svc.Search(ctx, query.Params{}, nil)
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = svc.Create(ctx, map[string]any{"title": "x"})
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = svc.Update(ctx, "1", nil)
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.ErrorIs(t, svc.Delete(ctx, "1"), ErrNotImplemented)
}
