// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/tomtom215/stylist/internal/api"
	"github.com/tomtom215/stylist/internal/catalog"
	"github.com/tomtom215/stylist/internal/config"
	"github.com/tomtom215/stylist/internal/logging"
	"github.com/tomtom215/stylist/internal/recommend"
	"github.com/tomtom215/stylist/internal/supervisor"
	"github.com/tomtom215/stylist/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)
	logger := logging.Logger()
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("catalog_driver", cfg.Catalog.Driver).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("model_enabled", cfg.Model.Enabled).
		Bool("outfit_model", cfg.Model.Enabled && cfg.Model.OutfitURL != "").
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting Stylist")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway, err := catalog.Open(ctx, &cfg.Catalog, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog")
	}
	defer func() {
		if err := gateway.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()
	logging.Info().Str("driver", cfg.Catalog.Driver).Msg("Catalog opened")

	profileStore, err := openProfileStore(ctx, &cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open profile store")
	}

	adjuster := buildAdjuster(&cfg.Refresh, logger)
	opts := []recommend.Option{
		recommend.WithScorer(buildScorer(&cfg.Model, logger)),
		recommend.WithOutfitScorer(buildOutfitScorer(&cfg.Model, logger)),
		recommend.WithTrendAdjuster(adjuster),
	}
	if profileStore != nil {
		opts = append(opts, recommend.WithProfileStore(profileStore))
	}

	engine, err := recommend.NewEngine(&cfg.Engine, gateway, logger, opts...)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing recommendation engine")
		}
	}()

	eventComps, err := initEvents(&cfg.Events, engine, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event stream")
	}
	defer func() {
		if err := eventComps.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event transport")
		}
	}()

	handlerOpts := []api.HandlerOption{
		api.WithReadinessCheck("catalog", gateway.Ping),
	}
	if eventComps != nil {
		handlerOpts = append(handlerOpts, api.WithPublisher(eventComps.Publisher))
	}
	handler := api.NewHandler(engine, &cfg.API, logger, handlerOpts...)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(&cfg.API, handler, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddMaintenanceService(services.NewRefreshService(adjuster, engine, cfg.Refresh.Interval, logger))
	logging.Info().Dur("interval", cfg.Refresh.Interval).Msg("Refresh service added")

	if eventComps != nil {
		tree.AddEventService(services.NewConsumerService(eventComps.Consumer, logger))
		logging.Info().Str("topic", eventComps.Consumer.Topic()).Msg("Event consumer added")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Stylist stopped")
}
