// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package main

import (
	"context"
	"fmt"

	"github.com/jbccc/znote/internal/config"
	handlerhttp "github.com/jbccc/znote/internal/handler/http"
	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/server"
	"github.com/jbccc/znote/internal/service"
	"github.com/jbccc/znote/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("znote-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid server configs")
	}

	log.Info().Msg("starting a server")
	log.Debug().Any("config", cfg).Msg("received configs")

	repos, err := store.NewRepositories(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating repositories")
	}

	services, err := service.NewServices(repos, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handler := handlerhttp.NewHandler(services, log, cfg.Server.MaxBodyBytes)

	servers, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server(s)")
	}

	servers.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
