// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

// Package seasonal computes season- and trend-aware adjustments per product
// category from a refreshable trend table and the category×season relevance
// table.
package seasonal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/features"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// Neutral is returned when no trend data exists for a key.
const Neutral = 0.5

// TrendData is a snapshot of trend scores in [0,1].
type TrendData struct {
	// Categories maps category to per-season trend. The SeasonAll entry applies
	// to every season without its own entry.
	Categories map[string]map[models.Season]float64 `json:"categories"`
	Colors     map[string]float64                   `json:"colors"`
	Styles     map[string]float64                   `json:"styles"`
}

// Entries returns the number of scores in the snapshot.
func (d *TrendData) Entries() int {
	n := len(d.Colors) + len(d.Styles)
	for _, m := range d.Categories {
		n += len(m)
	}
	return n
}

// TrendSource loads trend data from an external provider.
type TrendSource interface {
	Name() string
	Fetch(ctx context.Context) (*TrendData, error)
}

// StaticTrendSource serves a fixed snapshot.
type StaticTrendSource struct {
	Data *TrendData
}

// Name returns the source identifier.
func (s *StaticTrendSource) Name() string { return "static" }

// Fetch returns the configured snapshot.
func (s *StaticTrendSource) Fetch(context.Context) (*TrendData, error) {
	if s.Data == nil {
		return &TrendData{}, nil
	}
	return s.Data, nil
}

// Adjuster serves seasonal and trend scores. It is safe for concurrent use;
// Refresh swaps the table atomically under a write lock.
type Adjuster struct {
	mu        sync.RWMutex
	data      *TrendData
	updatedAt time.Time

	source TrendSource
	logger zerolog.Logger
}

var _ features.TrendLookup = (*Adjuster)(nil)

// NewAdjuster creates an adjuster. source may be nil, in which case every
// trend lookup is neutral.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAdjuster(source TrendSource, logger zerolog.Logger) *Adjuster {
	return &Adjuster{
		data:   normalize(nil),
		source: source,
		logger: logger.With().Str("component", "seasonal").Logger(),
	}
}

// Refresh reloads the trend table from the source. On error the current table
// is kept.
func (a *Adjuster) Refresh(ctx context.Context) error {
	if a.source == nil {
		return nil
	}
	data, err := a.source.Fetch(ctx)
	if err != nil {
		metrics.RecordTrendRefresh(0, err)
		return fmt.Errorf("fetch trends from %s: %w", a.source.Name(), err)
	}
	data = normalize(data)

	a.mu.Lock()
	a.data = data
	a.updatedAt = time.Now()
	a.mu.Unlock()

	metrics.RecordTrendRefresh(data.Entries(), nil)
	a.logger.Debug().
		Str("source", a.source.Name()).
		Int("entries", data.Entries()).
		Msg("trend table refreshed")
	return nil
}

// UpdatedAt returns the time of the last successful refresh.
func (a *Adjuster) UpdatedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.updatedAt
}

// Adjust returns (seasonalScore, trendScore) for a category in a season. The
// seasonal score blends the category trend with the category×season relevance
// table; the trend score is the raw category trend.
func (a *Adjuster) Adjust(category string, season models.Season) (seasonalScore, trendScore float64) {
	category = taxonomy.NormalizeCategory(category)
	trend := a.CategoryTrend(category, season)
	relevance := taxonomy.SeasonRelevance(category, season)
	return features.Clamp(0.6*relevance + 0.4*trend), features.Clamp(trend)
}

// CategoryTrend returns the trend of category in season, or Neutral.
func (a *Adjuster) CategoryTrend(category string, season models.Season) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	bySeason, ok := a.data.Categories[taxonomy.NormalizeCategory(category)]
	if !ok {
		return Neutral
	}
	if v, ok := bySeason[season]; ok {
		return features.Clamp(v)
	}
	if v, ok := bySeason[models.SeasonAll]; ok {
		return features.Clamp(v)
	}
	return Neutral
}

// ColorTrend returns the trend of a color, or Neutral.
func (a *Adjuster) ColorTrend(color string) float64 {
	return a.lookup(func(d *TrendData) map[string]float64 { return d.Colors }, taxonomy.NormalizeColor(color))
}

// StyleTrend returns the trend of a style, or Neutral.
func (a *Adjuster) StyleTrend(style string) float64 {
	return a.lookup(func(d *TrendData) map[string]float64 { return d.Styles }, strings.ToLower(strings.TrimSpace(style)))
}

func (a *Adjuster) lookup(table func(*TrendData) map[string]float64, key string) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if v, ok := table(a.data)[key]; ok {
		return features.Clamp(v)
	}
	return Neutral
}

// normalize copies d with lower-cased, canonical keys.
func normalize(d *TrendData) *TrendData {
	out := &TrendData{
		Categories: make(map[string]map[models.Season]float64),
		Colors:     make(map[string]float64),
		Styles:     make(map[string]float64),
	}
	if d == nil {
		return out
	}
	for cat, bySeason := range d.Categories {
		key := taxonomy.NormalizeCategory(cat)
		if out.Categories[key] == nil {
			out.Categories[key] = make(map[models.Season]float64, len(bySeason))
		}
		for s, v := range bySeason {
			out.Categories[key][models.ParseSeason(string(s))] = v
		}
	}
	for c, v := range d.Colors {
		out.Colors[taxonomy.NormalizeColor(c)] = v
	}
	for s, v := range d.Styles {
		out.Styles[strings.ToLower(strings.TrimSpace(s))] = v
	}
	return out
}
