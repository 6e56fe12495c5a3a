package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/mattn/go-sqlite3"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/migrations"
)

// DB is an open database handle together with its SQL dialect.
type DB struct {
	*sql.DB
	Dialect            query.Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// retryDelays are the pauses between attempts of a retryable read.
var retryDelays = []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, time.Second}

// Migrate applies the embedded migrations of the DB dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.Dialect.Name)
}

func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.Dialect.Placeholder)
}

// retry runs op again while it fails with an error the classificator deems
// [Retryable]. Only idempotent reads go through retry.
func (db *DB) retry(ctx context.Context, op func() error) error {
	err := op()
	for _, delay := range retryDelays {
		if err == nil || db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		logger.FromContext(ctx).Warn().Err(err).Dur("delay", delay).Msg("retrying database operation")
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}

		err = op()
	}
	return err
}

// isDuplicate reports whether err is a unique or primary key violation of
// either supported driver.
func isDuplicate(err error) bool {
	if postgresError(err) == pgerrcode.UniqueViolation {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
