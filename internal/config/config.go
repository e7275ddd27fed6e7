// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/stylist/internal/api"
	"github.com/tomtom215/stylist/internal/breaker"
	"github.com/tomtom215/stylist/internal/cache"
	"github.com/tomtom215/stylist/internal/catalog"
	"github.com/tomtom215/stylist/internal/events"
	"github.com/tomtom215/stylist/internal/logging"
	"github.com/tomtom215/stylist/internal/recommend"
)

// Cache backends for the second-tier profile store.
const (
	CacheBackendNone   = "none"
	CacheBackendRedis  = "redis"
	CacheBackendBadger = "badger"
)

// Config is the complete service configuration.
type Config struct {
	Server  ServerConfig     `koanf:"server"`
	API     api.Config       `koanf:"api"`
	Logging logging.Config   `koanf:"logging"`
	Engine  recommend.Config `koanf:"engine"`
	Model   ModelConfig      `koanf:"model"`
	Cache   CacheConfig      `koanf:"cache"`
	Catalog catalog.Config   `koanf:"catalog"`
	Events  events.Config    `koanf:"events"`
	Refresh RefreshConfig    `koanf:"refresh"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ModelConfig configures the learned product and outfit scorers. When
// disabled the heuristic scorers are used.
type ModelConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`

	// Timeout bounds one batch prediction including queueing.
	Timeout time.Duration `koanf:"timeout"`

	// RequestTimeout bounds the HTTP round trip.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	Breaker breaker.Config `koanf:"breaker"`

	// OutfitURL is the outfit compatibility model endpoint. Empty keeps the
	// outfit heuristic even when the product model is enabled.
	OutfitURL     string         `koanf:"outfit_url"`
	OutfitBreaker breaker.Config `koanf:"outfit_breaker"`
}

// CacheConfig selects the second-tier profile store.
type CacheConfig struct {
	Backend string             `koanf:"backend"`
	Redis   cache.RedisConfig  `koanf:"redis"`
	Badger  cache.BadgerConfig `koanf:"badger"`
}

// RefreshConfig controls the periodic refresh service.
type RefreshConfig struct {
	// Interval between trend refreshes and cache pruning.
	Interval time.Duration `koanf:"interval"`

	// TrendFile is a JSON trend table re-read on every refresh. Empty keeps
	// the built-in table.
	TrendFile string `koanf:"trend_file"`
}

// defaultConfig returns a Config with all default values. These defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
		},
		API:     api.DefaultConfig(),
		Logging: logging.DefaultConfig(),
		Engine:  *recommend.DefaultConfig(),
		Model: ModelConfig{
			Enabled:           false,
			Timeout:           200 * time.Millisecond,
			RequestTimeout:    2 * time.Second,
			RequestsPerSecond: 50,
			Burst:             10,
			Breaker:           breaker.DefaultConfig("product-model"),
			OutfitBreaker:     breaker.DefaultConfig("outfit-model"),
		},
		Cache: CacheConfig{
			Backend: CacheBackendNone,
			Redis: cache.RedisConfig{
				Addr:         "127.0.0.1:6379",
				DialTimeout:  5 * time.Second,
				ReadTimeout:  time.Second,
				WriteTimeout: time.Second,
			},
			Badger: cache.BadgerConfig{
				Path: "/data/profiles",
			},
		},
		Catalog: catalog.DefaultConfig(),
		Events:  events.DefaultConfig(),
		Refresh: RefreshConfig{
			Interval: 15 * time.Minute,
		},
	}
}

// Validate checks every section and returns the first error found.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	return c.Refresh.Validate()
}

// Validate checks the listener settings.
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port)
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", s.ShutdownTimeout)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	return nil
}

// Validate checks the model settings. A disabled model is not checked.
func (m *ModelConfig) Validate() error {
	if !m.Enabled {
		return nil
	}
	if m.URL == "" {
		return fmt.Errorf("model.url is required when the model is enabled")
	}
	if m.Timeout <= 0 {
		return fmt.Errorf("model.timeout must be positive, got %v", m.Timeout)
	}
	if m.RequestsPerSecond < 0 {
		return fmt.Errorf("model.requests_per_second must not be negative, got %v", m.RequestsPerSecond)
	}
	if err := m.Breaker.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if m.OutfitURL != "" {
		if err := m.OutfitBreaker.Validate(); err != nil {
			return fmt.Errorf("model outfit: %w", err)
		}
	}
	return nil
}

// Validate checks the cache backend settings.
func (c *CacheConfig) Validate() error {
	switch c.Backend {
	case "", CacheBackendNone:
	case CacheBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for backend redis")
		}
	case CacheBackendBadger:
		if c.Badger.Path == "" {
			return fmt.Errorf("cache.badger.path is required for backend badger")
		}
	default:
		return fmt.Errorf("cache.backend must be one of none, redis, badger, got %q", c.Backend)
	}
	return nil
}

// Validate checks the refresh settings.
func (r *RefreshConfig) Validate() error {
	if r.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive, got %v", r.Interval)
	}
	return nil
}
