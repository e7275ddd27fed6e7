// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/breaker"
	"github.com/tomtom215/stylist/internal/models"
)

// Supported catalog drivers.
const (
	DriverMemory   = "memory"
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// Gateway is read-only access to the catalog.
type Gateway interface {
	GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Pinger is implemented by gateways that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config selects and tunes the catalog backend.
type Config struct {
	// Driver is memory, duckdb or postgres.
	Driver string `koanf:"driver"`

	// DSN is the database connection string. An empty DuckDB DSN opens an
	// in-memory database.
	DSN string `koanf:"dsn"`

	// SeedFile is an optional JSON file loaded on startup.
	SeedFile string `koanf:"seed_file"`

	// QueryTimeout bounds every catalog call.
	QueryTimeout time.Duration `koanf:"query_timeout"`

	Breaker breaker.Config `koanf:"breaker"`
}

// DefaultConfig returns an in-memory catalog configuration.
func DefaultConfig() Config {
	return Config{
		Driver:       DriverMemory,
		QueryTimeout: 5 * time.Second,
		Breaker:      breaker.DefaultConfig("catalog"),
	}
}

// Validate checks the catalog settings.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverMemory, DriverDuckDB:
	case DriverPostgres:
		if c.DSN == "" {
			return fmt.Errorf("catalog.dsn is required for driver %s", c.Driver)
		}
	default:
		return fmt.Errorf("catalog.driver must be one of memory, duckdb, postgres, got %q", c.Driver)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("catalog.query_timeout must be positive, got %v", c.QueryTimeout)
	}
	if err := c.Breaker.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}

// Open builds the configured backend, loads the seed file when one is set
// and wraps the result in a BreakerGateway.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg *Config, logger zerolog.Logger) (*BreakerGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.With().Str("component", "catalog").Str("driver", cfg.Driver).Logger()

	var seed *Seed
	if cfg.SeedFile != "" {
		s, err := LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		seed = s
	}

	var inner Gateway
	switch cfg.Driver {
	case DriverMemory:
		mem := NewMemoryGateway()
		if seed != nil {
			mem.Load(seed)
		}
		inner = mem
	default:
		db, err := OpenSQL(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			closeQuietly(db)
			return nil, err
		}
		if seed != nil {
			if err := db.Load(ctx, seed); err != nil {
				closeQuietly(db)
				return nil, err
			}
		}
		inner = db
	}

	if seed != nil {
		log.Info().
			Str("seed_file", cfg.SeedFile).
			Int("products", len(seed.Products)).
			Int("users", len(seed.Users)).
			Int("orders", len(seed.Orders)).
			Msg("catalog seeded")
	}

	return NewBreakerGateway(inner, cfg.Breaker, cfg.QueryTimeout, log), nil
}
