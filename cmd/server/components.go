// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/cache"
	"github.com/tomtom215/stylist/internal/config"
	"github.com/tomtom215/stylist/internal/events"
	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/outfit"
	"github.com/tomtom215/stylist/internal/recommend/scoring"
	"github.com/tomtom215/stylist/internal/recommend/seasonal"
)

// profileKeyPrefix namespaces profile entries in shared stores.
const profileKeyPrefix = "stylist:profile:"

// openProfileStore opens the second-tier profile store. It returns nil when
// the backend is "none".
func openProfileStore(ctx context.Context, cfg *config.CacheConfig) (cache.Store[*models.UserProfile], error) {
	switch cfg.Backend {
	case config.CacheBackendNone, "":
		return nil, nil
	case config.CacheBackendRedis:
		store, err := cache.NewRedisStore[*models.UserProfile](ctx, cfg.Redis, profileKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis profile store: %w", err)
		}
		return store, nil
	case config.CacheBackendBadger:
		store, err := cache.OpenBadgerStore[*models.UserProfile](cfg.Badger, profileKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("open badger profile store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}

// buildScorer returns the product scorer. With the model disabled the
// heuristic is used directly; otherwise the model is wrapped with a
// timeout, breaker and heuristic fallback.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildScorer(cfg *config.ModelConfig, logger zerolog.Logger) scoring.Scorer {
	heuristic := scoring.NewProductHeuristic()
	if !cfg.Enabled {
		return heuristic
	}
	return scoring.NewLearnedScorer(newHTTPModel(cfg, cfg.URL), heuristic, scoring.LearnedConfig{
		Name:    "product",
		Timeout: cfg.Timeout,
		Breaker: cfg.Breaker,
	}, logger)
}

// buildOutfitScorer returns the outfit compatibility scorer. Without an
// outfit model URL the outfit heuristic is used.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildOutfitScorer(cfg *config.ModelConfig, logger zerolog.Logger) scoring.Scorer {
	heuristic := outfit.NewHeuristic()
	if !cfg.Enabled || cfg.OutfitURL == "" {
		return heuristic
	}
	return scoring.NewLearnedScorer(newHTTPModel(cfg, cfg.OutfitURL), heuristic, scoring.LearnedConfig{
		Name:    "outfit",
		Timeout: cfg.Timeout,
		Breaker: cfg.OutfitBreaker,
	}, logger)
}

func newHTTPModel(cfg *config.ModelConfig, url string) *scoring.HTTPModel {
	return scoring.NewHTTPModel(scoring.HTTPModelConfig{
		URL:               url,
		RequestTimeout:    cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	})
}

// buildAdjuster returns the trend adjuster. Without a trend file the
// built-in table is used.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildAdjuster(cfg *config.RefreshConfig, logger zerolog.Logger) *seasonal.Adjuster {
	if cfg.TrendFile == "" {
		return seasonal.NewAdjuster(nil, logger)
	}
	return seasonal.NewAdjuster(&seasonal.FileTrendSource{Path: cfg.TrendFile}, logger)
}

// eventComponents holds the interaction stream wiring.
type eventComponents struct {
	Transport *events.Transport
	Publisher *events.Publisher
	Consumer  *events.Consumer
}

// Close closes the transport.
func (c *eventComponents) Close() error {
	if c == nil || c.Transport == nil {
		return nil
	}
	return c.Transport.Close()
}

// initEvents builds the event transport, publisher and consumer. It returns
// nil when the stream is disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initEvents(cfg *events.Config, updater events.ProfileUpdater, logger zerolog.Logger) (*eventComponents, error) {
	if !cfg.Enabled {
		logger.Info().Msg("Interaction event stream disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	transport, err := events.NewTransport(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create event transport: %w", err)
	}

	consumer := events.NewConsumer(transport.Subscriber, updater, cfg, logger)
	logger.Info().
		Str("backend", cfg.Backend).
		Str("topic", consumer.Topic()).
		Msg("Interaction event stream initialized")

	return &eventComponents{
		Transport: transport,
		Publisher: events.NewPublisher(transport.Publisher, consumer.Topic()),
		Consumer:  consumer,
	}, nil
}
