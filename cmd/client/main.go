package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-duct-tape/internal/adapter"
	"github.com/MKhiriev/go-duct-tape/internal/client"
	"github.com/MKhiriev/go-duct-tape/internal/config"
	"github.com/MKhiriev/go-duct-tape/internal/logger"
)

func main() {
	log := logger.NewConsoleLogger("duct-tape-client")

	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	httpAdapter, err := adapter.NewHTTPAdapter(*cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating adapter")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := client.NewApp(httpAdapter, client.LibraryResources(httpAdapter), *cfg, nil, os.Stdout, log)
	if err = app.Run(ctx, os.Args[1:]); err != nil {
		stop()
		log.Fatal().Err(err).Msg("client run error")
	}
}
