// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package api

import (
	"fmt"
	"time"
)

// Config holds HTTP surface settings.
type Config struct {
	// CORSOrigins lists allowed origins. Empty allows all.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests is the number of requests allowed per window and IP.
	RateLimitRequests int `koanf:"rate_limit_requests"`

	// RateLimitWindow is the rate limiting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns rate limiting off.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// RequestTimeout bounds engine calls made by a handler.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// DefaultConfig returns the default HTTP settings.
func DefaultConfig() Config {
	return Config{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    10 * time.Second,
		MaxBodyBytes:      1 << 20,
	}
}

// Validate checks the HTTP settings.
func (c *Config) Validate() error {
	if !c.RateLimitDisabled {
		if c.RateLimitRequests < 1 {
			return fmt.Errorf("api.rate_limit_requests must be positive, got %d", c.RateLimitRequests)
		}
		if c.RateLimitWindow <= 0 {
			return fmt.Errorf("api.rate_limit_window must be positive, got %s", c.RateLimitWindow)
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("api.request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("api.max_body_bytes must not be negative, got %d", c.MaxBodyBytes)
	}
	return nil
}
