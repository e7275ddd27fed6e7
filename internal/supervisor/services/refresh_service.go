// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TrendRefresher reloads the trend table.
type TrendRefresher interface {
	Refresh(ctx context.Context) error
}

// CachePruner drops expired cache entries.
type CachePruner interface {
	PruneCaches() (profiles, products int)
}

// RefreshService refreshes trends on start and on every tick, then prunes
// caches. Refresh failures keep the previous table and never stop the
// service.
type RefreshService struct {
	trends   TrendRefresher
	pruner   CachePruner
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewRefreshService creates the service. Either dependency may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(trends TrendRefresher, pruner CachePruner, interval time.Duration, logger zerolog.Logger) *RefreshService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &RefreshService{
		trends:   trends,
		pruner:   pruner,
		interval: interval,
		timeout:  min(interval, time.Minute),
		logger:   logger.With().Str("service", "refresh").Logger(),
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("refresh service starting")
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
			s.prune()
		}
	}
}

func (s *RefreshService) refresh(ctx context.Context) {
	if s.trends == nil {
		return
	}
	refreshCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.trends.Refresh(refreshCtx); err != nil {
		s.logger.Warn().Err(err).Msg("trend refresh failed, keeping previous table")
	}
}

func (s *RefreshService) prune() {
	if s.pruner == nil {
		return
	}
	profiles, products := s.pruner.PruneCaches()
	if profiles+products > 0 {
		s.logger.Debug().
			Int("profiles", profiles).
			Int("products", products).
			Msg("pruned expired cache entries")
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *RefreshService) String() string {
	return "refresh-service"
}
