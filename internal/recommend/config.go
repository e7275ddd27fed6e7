// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package recommend

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/tomtom215/stylist/internal/recommend/outfit"
	"github.com/tomtom215/stylist/internal/recommend/reranking"
	"github.com/tomtom215/stylist/internal/recommend/wardrobe"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains request bounds.
	Limits LimitsConfig `koanf:"limits"`

	// Scoring contains parallel scoring parameters.
	Scoring ScoringConfig `koanf:"scoring"`

	// Blend defines the final score composition.
	Blend BlendWeights `koanf:"blend"`

	// Profile contains defaults for users without history.
	Profile ProfileDefaults `koanf:"profile"`

	// Cache contains the profile and product feature cache settings.
	Cache CacheConfig `koanf:"cache"`

	// Outfit bounds outfit generation.
	Outfit outfit.Config `koanf:"outfit"`

	// Wardrobe holds gap detection thresholds.
	Wardrobe wardrobe.Config `koanf:"wardrobe"`
}

// LimitsConfig contains request bounds.
type LimitsConfig struct {
	// DefaultLimit is used when a request asks for zero items.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the requested number of items.
	MaxLimit int `koanf:"max_limit"`

	// MaxCandidates caps the catalog scan per request.
	MaxCandidates int `koanf:"max_candidates"`

	// DiversityCap is the maximum number of items per category in a result.
	DiversityCap int `koanf:"diversity_cap"`
}

// ScoringConfig contains parallel scoring parameters.
type ScoringConfig struct {
	// BatchSize is the number of products scored per batch. Cancellation is
	// observed between batches.
	BatchSize int `koanf:"batch_size"`

	// Workers bounds concurrently scored batches. Zero uses GOMAXPROCS.
	Workers int `koanf:"workers"`
}

// BlendWeights defines the final score composition.
type BlendWeights struct {
	Base          float64 `koanf:"base"`
	Seasonal      float64 `koanf:"seasonal"`
	Trend         float64 `koanf:"trend"`
	Compatibility float64 `koanf:"compatibility"`
}

// Sum returns the total weight.
func (w BlendWeights) Sum() float64 {
	return w.Base + w.Seasonal + w.Trend + w.Compatibility
}

// ProfileDefaults are applied to users without usable history.
type ProfileDefaults struct {
	PriceMin   float64 `koanf:"price_min"`
	PriceMax   float64 `koanf:"price_max"`
	Formality  int     `koanf:"formality"`
	Trendiness int     `koanf:"trendiness"`

	// PaletteSize and SecondaryStyles bound the learned sets.
	PaletteSize     int `koanf:"palette_size"`
	SecondaryStyles int `koanf:"secondary_styles"`
}

// CacheConfig contains the cache settings.
type CacheConfig struct {
	ProfileTTL      time.Duration `koanf:"profile_ttl"`
	ProfileCapacity int           `koanf:"profile_capacity"`
	FeatureTTL      time.Duration `koanf:"feature_ttl"`
	FeatureCapacity int           `koanf:"feature_capacity"`

	// HistoryTTL bounds how long recorded interactions survive profile
	// expiry. It must be at least ProfileTTL.
	HistoryTTL      time.Duration `koanf:"history_ttl"`
	HistoryCapacity int           `koanf:"history_capacity"`
}

// DefaultConfig returns a configuration with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultLimit:  20,
			MaxLimit:      100,
			MaxCandidates: 5000,
			DiversityCap:  reranking.DefaultCap,
		},
		Scoring: ScoringConfig{
			BatchSize: 256,
			Workers:   runtime.GOMAXPROCS(0),
		},
		Blend: BlendWeights{
			Base:          0.5,
			Seasonal:      0.2,
			Trend:         0.2,
			Compatibility: 0.1,
		},
		Profile: ProfileDefaults{
			PriceMin:        50,
			PriceMax:        200,
			Formality:       2,
			Trendiness:      3,
			PaletteSize:     5,
			SecondaryStyles: 2,
		},
		Cache: CacheConfig{
			ProfileTTL:      15 * time.Minute,
			ProfileCapacity: 10000,
			FeatureTTL:      time.Hour,
			FeatureCapacity: 50000,
			HistoryTTL:      30 * 24 * time.Hour,
			HistoryCapacity: 10000,
		},
		Outfit:   outfit.DefaultConfig(),
		Wardrobe: wardrobe.DefaultConfig(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be at least default_limit, got %d", c.Limits.MaxLimit)
	}
	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}
	if c.Limits.DiversityCap < 1 {
		return fmt.Errorf("limits.diversity_cap must be positive, got %d", c.Limits.DiversityCap)
	}

	if c.Scoring.BatchSize < 1 {
		return fmt.Errorf("scoring.batch_size must be positive, got %d", c.Scoring.BatchSize)
	}
	if c.Scoring.Workers < 0 {
		return fmt.Errorf("scoring.workers must be non-negative, got %d", c.Scoring.Workers)
	}

	for name, w := range map[string]float64{
		"base":          c.Blend.Base,
		"seasonal":      c.Blend.Seasonal,
		"trend":         c.Blend.Trend,
		"compatibility": c.Blend.Compatibility,
	} {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("blend.%s must be non-negative, got %f", name, w)
		}
	}
	if math.Abs(c.Blend.Sum()-1) > 1e-6 {
		return fmt.Errorf("blend weights must sum to 1, got %f", c.Blend.Sum())
	}

	if c.Profile.PriceMin < 0 || c.Profile.PriceMax <= c.Profile.PriceMin {
		return fmt.Errorf("profile price range must satisfy 0 <= min < max, got [%f, %f]", c.Profile.PriceMin, c.Profile.PriceMax)
	}
	if c.Profile.Formality < 1 || c.Profile.Formality > 5 {
		return fmt.Errorf("profile.formality must be in [1, 5], got %d", c.Profile.Formality)
	}
	if c.Profile.Trendiness < 1 || c.Profile.Trendiness > 5 {
		return fmt.Errorf("profile.trendiness must be in [1, 5], got %d", c.Profile.Trendiness)
	}
	if c.Profile.PaletteSize < 1 || c.Profile.SecondaryStyles < 0 {
		return fmt.Errorf("profile palette_size must be positive and secondary_styles non-negative")
	}

	if c.Cache.ProfileTTL <= 0 || c.Cache.FeatureTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.Cache.ProfileCapacity < 1 || c.Cache.FeatureCapacity < 1 || c.Cache.HistoryCapacity < 1 {
		return fmt.Errorf("cache capacities must be positive")
	}
	if c.Cache.HistoryTTL < c.Cache.ProfileTTL {
		return fmt.Errorf("cache.history_ttl must be at least profile_ttl, got %s", c.Cache.HistoryTTL)
	}

	if err := c.Outfit.Validate(); err != nil {
		return err
	}
	return c.Wardrobe.Validate()
}

// workers returns the effective worker count.
func (c *Config) workers() int {
	if c.Scoring.Workers > 0 {
		return c.Scoring.Workers
	}
	return runtime.GOMAXPROCS(0)
}
