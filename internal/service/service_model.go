package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/internal/store"
	"github.com/MKhiriev/go-duct-tape/internal/validators"
	"github.com/MKhiriev/go-duct-tape/models"
)

// modelService is the concrete implementation of [ModelService].
//
// Every mutation is persisted immediately by the repository; there is no
// unit of work spanning several calls.
type modelService[T any, PT models.Pointer[T]] struct {
	repository store.Repository[T]
	validator  validators.Validator
	meta       models.Meta
	logger     *logger.Logger
}

// NewModelService constructs a [ModelService] for model type T.
//
// A nil repository or a model without table yields a service answering
// [ErrNotImplemented] to every call.
func NewModelService[T any, PT models.Pointer[T]](repository store.Repository[T], validator validators.Validator, logger *logger.Logger) ModelService[T] {
	return &modelService[T, PT]{
		repository: repository,
		validator:  validator,
		meta:       models.MetaOf[T, PT](),
		logger:     logger,
	}
}

func (s *modelService[T, PT]) Meta() models.Meta {
	return s.meta
}

func (s *modelService[T, PT]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := s.bound(); err != nil {
		return zero, err
	}

	item, err := s.repository.Get(ctx, map[string]any{s.meta.PrimaryKey: id})
	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, query.ErrValue):
		// an id that cannot be a primary key matches nothing
		return zero, s.notFound()
	default:
		logger.FromContext(ctx).Err(err).Str("func", "*modelService.Get").Str("model", s.meta.Name).Str("id", id).Msg("error getting object")
		return zero, err
	}
}

func (s *modelService[T, PT]) List(ctx context.Context, params query.Params, refiner query.Refiner) (int64, []T, error) {
	log := logger.FromContext(ctx)

	qs, err := s.refine(params, refiner)
	if err != nil {
		return 0, nil, err
	}

	total, err := s.repository.Count(ctx, qs)
	if err != nil {
		log.Err(err).Str("func", "*modelService.List").Str("model", s.meta.Name).Msg("error counting objects")
		return 0, nil, err
	}

	items, err := s.repository.List(ctx, qs)
	if err != nil {
		log.Err(err).Str("func", "*modelService.List").Str("model", s.meta.Name).Msg("error listing objects")
		return 0, nil, err
	}
	if len(items) == 0 {
		return 0, nil, s.notFound()
	}

	return total, items, nil
}

func (s *modelService[T, PT]) Search(ctx context.Context, params query.Params, refiner query.Refiner) ([]T, error) {
	qs, err := s.refine(params, refiner)
	if err != nil {
		return nil, err
	}

	items, err := s.repository.List(ctx, qs)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*modelService.Search").Str("model", s.meta.Name).Msg("error searching objects")
		return nil, err
	}

	return items, nil
}

func (s *modelService[T, PT]) Create(ctx context.Context, raw map[string]any) (T, error) {
	log := logger.FromContext(ctx)

	var zero T
	if err := s.bound(); err != nil {
		return zero, err
	}

	patch, err := s.meta.NewPatch(raw)
	if err != nil {
		return zero, err
	}
	if err = s.validator.Validate(ctx, patch); err != nil {
		return zero, err
	}

	// creating an object identical to an existing one is an error
	_, err = s.repository.Get(ctx, patch.Lookup())
	switch {
	case err == nil, errors.Is(err, store.ErrMultipleFound):
		log.Debug().Str("func", "*modelService.Create").Str("model", s.meta.Name).Msg("identical object already exists")
		return zero, fmt.Errorf("%w: %s", store.ErrDuplicateEntry, s.meta.Name)
	case !errors.Is(err, store.ErrNotFound):
		log.Err(err).Str("func", "*modelService.Create").Str("model", s.meta.Name).Msg("error looking up existing object")
		return zero, err
	}

	item, err := s.repository.Insert(ctx, patch)
	if err != nil {
		log.Err(err).Str("func", "*modelService.Create").Str("model", s.meta.Name).Msg("error inserting object")
		return zero, err
	}

	return item, nil
}

func (s *modelService[T, PT]) Update(ctx context.Context, id string, raw map[string]any) (T, error) {
	var zero T
	if err := s.bound(); err != nil {
		return zero, err
	}

	patch, err := s.meta.NewPatch(raw)
	if err != nil {
		return zero, err
	}
	if !patch.Empty() {
		if err = s.validator.Validate(ctx, patch, patch.Columns()...); err != nil {
			return zero, err
		}
	}

	item, err := s.repository.Update(ctx, id, patch)
	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, models.ErrInvalidValue), errors.Is(err, query.ErrValue):
		return zero, s.notFound()
	default:
		logger.FromContext(ctx).Err(err).Str("func", "*modelService.Update").Str("model", s.meta.Name).Str("id", id).Msg("error updating object")
		return zero, err
	}
}

func (s *modelService[T, PT]) Delete(ctx context.Context, id string) error {
	if err := s.bound(); err != nil {
		return err
	}

	err := s.repository.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, models.ErrInvalidValue):
		return fmt.Errorf("%w: %s %s", ErrGone, s.meta.Name, id)
	default:
		logger.FromContext(ctx).Err(err).Str("func", "*modelService.Delete").Str("model", s.meta.Name).Str("id", id).Msg("error deleting object")
		return err
	}
}

func (s *modelService[T, PT]) refine(params query.Params, refiner query.Refiner) (query.Queryset, error) {
	if err := s.bound(); err != nil {
		return query.Queryset{}, err
	}

	qs := s.repository.Queryset()
	if refiner == nil {
		return qs, nil
	}
	return refiner.Refine(qs, params)
}

func (s *modelService[T, PT]) bound() error {
	if s.repository == nil || !s.meta.Bound() {
		return fmt.Errorf("%w: %s has no storage", ErrNotImplemented, s.meta.Name)
	}
	return nil
}

func (s *modelService[T, PT]) notFound() error {
	return fmt.Errorf("%w: No %s matches the given query.", store.ErrNotFound, s.meta.Name)
}
