package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-duct-tape/internal/config"
	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/models"
)

// Storages groups every repository of the application over one database.
type Storages struct {
	DB             *DB
	UserRepository UserRepository
	Authors        Repository[models.Author]
	Books          Repository[models.Book]
}

// NewStorages connects to the database named by cfg, applies migrations
// unless cfg.SkipMigrations is set, and builds the repositories.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.Driver {
	case "pgx":
		db, err = NewConnectPostgres(ctx, cfg, log)
	case "sqlite3":
		db, err = NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.SkipMigrations {
		if err = db.Migrate(); err != nil {
			log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
			db.Close()
			return nil, err
		}
	}

	return newStorages(db, log), nil
}

func newStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		DB:             db,
		UserRepository: NewUserRepository(db, log),
		Authors:        NewRepository[models.Author](db, log),
		Books:          NewRepository[models.Book](db, log),
	}
}

// Close releases the database connection.
func (s *Storages) Close() error {
	return s.DB.Close()
}
