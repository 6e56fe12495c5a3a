package http

import (
	"fmt"

	"github.com/MKhiriev/go-duct-tape/internal/config"
	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/service"
	"github.com/MKhiriev/go-duct-tape/internal/views"
)

type Handler struct {
	services  *service.Services
	templates *views.Templates
	cfg       config.StructuredConfig

	logger *logger.Logger
}

// NewHandler parses the embedded page templates and returns the handler of
// the JSON API and of the generated pages.
func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handler, error) {
	templates, err := views.NewTemplates()
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		templates: templates,
		cfg:       cfg,
		logger:    logger,
	}, nil
}
