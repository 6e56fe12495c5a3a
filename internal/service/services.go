package service

import (
	"github.com/MKhiriev/go-duct-tape/internal/config"
	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/store"
	"github.com/MKhiriev/go-duct-tape/internal/validators"
	"github.com/MKhiriev/go-duct-tape/models"
)

type Services struct {
	AppInfo     AppInfoService
	AuthService AuthService
	Authors     ModelService[models.Author]
	Books       ModelService[models.Book]
}

func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) *Services {
	validator := validators.NewModelValidator()

	return &Services{
		AppInfo:     NewAppInfoService(cfg, logger),
		AuthService: NewAuthService(storages.UserRepository, validator, cfg, logger),
		Authors:     NewModelService[models.Author](storages.Authors, validator, logger),
		Books:       NewModelService[models.Book](storages.Books, validator, logger),
	}
}
