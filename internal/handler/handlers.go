package handler

import (
	"github.com/MKhiriev/go-duct-tape/internal/config"
	"github.com/MKhiriev/go-duct-tape/internal/handler/http"
	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		httpHandler, err := http.NewHandler(services, cfg, logger)
		if err != nil {
			return nil, err
		}
		handlers.HTTP = httpHandler
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
