// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/models"
)

// modelRepository is the SQL implementation of [Repository] for any model
// described by [models.Meta]. Statements are built with squirrel in the
// placeholder format of the DB dialect; rows are scanned through
// [models.Model.ScanTargets].
type modelRepository[T any, PT models.Pointer[T]] struct {
	db     *DB
	meta   models.Meta
	logger *logger.Logger
}

// NewRepository constructs a [Repository] for model type T.
func NewRepository[T any, PT models.Pointer[T]](db *DB, logger *logger.Logger) Repository[T] {
	meta := models.MetaOf[T, PT]()
	logger.Debug().Str("model", meta.Name).Msg("creating model repository")
	return &modelRepository[T, PT]{
		db:     db,
		meta:   meta,
		logger: logger,
	}
}

func (r *modelRepository[T, PT]) Queryset() query.Queryset {
	return query.New(r.meta, r.db.Dialect)
}

func (r *modelRepository[T, PT]) Get(ctx context.Context, lookup map[string]any) (T, error) {
	var zero T

	qs, err := r.Queryset().Where(lookup)
	if err != nil {
		return zero, err
	}

	// two rows are enough to tell a single match from an ambiguous one
	items, err := r.List(ctx, qs.Slice(0, 2))
	if err != nil {
		return zero, err
	}

	switch len(items) {
	case 0:
		return zero, fmt.Errorf("%w: %s %v", ErrNotFound, r.meta.Name, lookup)
	case 1:
		return items[0], nil
	default:
		return zero, fmt.Errorf("%w: %s %v", ErrMultipleFound, r.meta.Name, lookup)
	}
}

func (r *modelRepository[T, PT]) List(ctx context.Context, qs query.Queryset) ([]T, error) {
	log := logger.FromContext(ctx)

	sqlQuery, args, err := qs.SelectBuilder().ToSql()
	if err != nil {
		log.Err(err).Str("func", "modelRepository.List").Str("model", r.meta.Name).Msg("error building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var items []T
	err = r.db.retry(ctx, func() error {
		items = items[:0]

		rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		for rows.Next() {
			var item T
			if err := rows.Scan(PT(&item).ScanTargets()...); err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			items = append(items, item)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "modelRepository.List").Str("model", r.meta.Name).Str("query", sqlQuery).Msg("error listing rows")
		return nil, err
	}

	return items, nil
}

func (r *modelRepository[T, PT]) Count(ctx context.Context, qs query.Queryset) (int64, error) {
	log := logger.FromContext(ctx)

	sqlQuery, args, err := qs.CountBuilder().ToSql()
	if err != nil {
		log.Err(err).Str("func", "modelRepository.Count").Str("model", r.meta.Name).Msg("error building count query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	err = r.db.retry(ctx, func() error {
		if err := r.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "modelRepository.Count").Str("model", r.meta.Name).Str("query", sqlQuery).Msg("error counting rows")
		return 0, err
	}

	return count, nil
}

func (r *modelRepository[T, PT]) Insert(ctx context.Context, patch models.Patch) (T, error) {
	var sqlQuery string
	var args []any

	if patch.Empty() {
		sqlQuery = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES %s", r.meta.Table, r.returning())
	} else {
		columns := patch.Columns()
		values := make([]any, len(columns))
		for i, column := range columns {
			values[i] = patch.Values[column]
		}

		var err error
		sqlQuery, args, err = r.db.builder().
			Insert(r.meta.Table).
			Columns(columns...).
			Values(values...).
			Suffix(r.returning()).
			ToSql()
		if err != nil {
			var zero T
			logger.FromContext(ctx).Err(err).Str("func", "modelRepository.Insert").Str("model", r.meta.Name).Msg("error building insert query")
			return zero, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
	}

	return r.scanOne(ctx, "modelRepository.Insert", sqlQuery, args)
}

func (r *modelRepository[T, PT]) Update(ctx context.Context, pk any, patch models.Patch) (T, error) {
	var zero T

	pkValue, err := r.meta.PKField().Parse(pk)
	if err != nil {
		return zero, err
	}
	if patch.Empty() {
		return r.Get(ctx, map[string]any{r.meta.PrimaryKey: pkValue})
	}

	sqlQuery, args, err := r.db.builder().
		Update(r.meta.Table).
		SetMap(patch.Values).
		Where(sq.Eq{r.meta.PrimaryKey: pkValue}).
		Suffix(r.returning()).
		ToSql()
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "modelRepository.Update").Str("model", r.meta.Name).Msg("error building update query")
		return zero, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	item, err := r.scanOne(ctx, "modelRepository.Update", sqlQuery, args)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%w: %s %s=%v", ErrNotFound, r.meta.Name, r.meta.PrimaryKey, pkValue)
	}
	return item, err
}

func (r *modelRepository[T, PT]) Delete(ctx context.Context, pk any) error {
	log := logger.FromContext(ctx)

	pkValue, err := r.meta.PKField().Parse(pk)
	if err != nil {
		return err
	}

	sqlQuery, args, err := r.db.builder().
		Delete(r.meta.Table).
		Where(sq.Eq{r.meta.PrimaryKey: pkValue}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "modelRepository.Delete").Str("model", r.meta.Name).Msg("error building delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		log.Err(err).Str("func", "modelRepository.Delete").Str("model", r.meta.Name).Msg("error executing delete")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "modelRepository.Delete").Str("model", r.meta.Name).Msg("failed to get rows affected after delete")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		log.Warn().Str("func", "modelRepository.Delete").Str("model", r.meta.Name).Any("pk", pkValue).Msg("no rows affected during delete: record not found")
		return fmt.Errorf("%w: %s %s=%v", ErrNotFound, r.meta.Name, r.meta.PrimaryKey, pkValue)
	}

	return nil
}

// returning lists the model columns unqualified, as SQLite requires.
func (r *modelRepository[T, PT]) returning() string {
	return "RETURNING " + strings.Join(r.meta.Columns(), ", ")
}

// scanOne runs a write statement with a RETURNING clause. sql.ErrNoRows is
// returned unwrapped-compatible so callers can tell "no row matched".
func (r *modelRepository[T, PT]) scanOne(ctx context.Context, fn, sqlQuery string, args []any) (T, error) {
	log := logger.FromContext(ctx)

	var item T
	err := r.db.QueryRowContext(ctx, sqlQuery, args...).Scan(PT(&item).ScanTargets()...)
	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, sql.ErrNoRows):
		var zero T
		return zero, err
	case isDuplicate(err):
		log.Warn().Err(err).Str("func", fn).Str("model", r.meta.Name).Msg("unique constraint violated")
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrDuplicateEntry, r.meta.Name)
	default:
		log.Err(err).Str("func", fn).Str("model", r.meta.Name).Str("query", sqlQuery).Msg("error executing statement")
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
}
