// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command hayahub-server is the reference HayaHub document server: it stores
// one latest copy of every record per owner and serves collection snapshots
// to clients.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/handler"
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/server"
	"github.com/MKhiriev/hayahub/internal/service"
	"github.com/MKhiriev/hayahub/internal/store"
	"github.com/MKhiriev/hayahub/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log := logger.NewLogger("hayahub-server")
	cfg, err := config.GetServerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().
		Str("address", cfg.HTTPAddress).
		Dur("request_timeout", cfg.RequestTimeout).
		Str("token_issuer", cfg.TokenIssuer).
		Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services := service.NewServices(storages, log)

	handlers, err := handler.NewHandlers(services, cfg, buildInfo, log)
	if err != nil {
		log.Error().Err(err).Msg("error creating handlers")
		return
	}

	srv, err := server.NewServer(handlers, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("error creating server")
		return
	}

	srv.RunServer()
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
