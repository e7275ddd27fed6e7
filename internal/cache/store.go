// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/metrics"
)

// ErrStoreClosed is returned by a Store after Close.
var ErrStoreClosed = errors.New("cache store closed")

// Store is a second-tier cache shared across processes or restarts.
// A missing key is reported as (zero, false, nil).
type Store[T any] interface {
	Get(ctx context.Context, key string) (T, bool, error)
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Tiered is an LRU in front of an optional Store. Store errors are logged
// and treated as misses.
type Tiered[T any] struct {
	name   string
	l1     *LRU[T]
	l2     Store[T]
	logger zerolog.Logger
}

// NewTiered creates a tiered cache. l2 may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTiered[T any](name string, l1 *LRU[T], l2 Store[T], logger zerolog.Logger) *Tiered[T] {
	return &Tiered[T]{
		name:   name,
		l1:     l1,
		l2:     l2,
		logger: logger.With().Str("component", "cache").Str("cache", name).Logger(),
	}
}

// Get looks key up in memory, then in the store. A store hit is promoted to
// the memory tier.
func (t *Tiered[T]) Get(ctx context.Context, key string) (T, bool) {
	if v, ok := t.l1.Get(key); ok {
		metrics.RecordCacheLookup(t.name, "memory", true)
		return v, true
	}
	metrics.RecordCacheLookup(t.name, "memory", false)

	var zero T
	if t.l2 == nil {
		return zero, false
	}
	v, ok, err := t.l2.Get(ctx, key)
	if err != nil {
		t.logger.Warn().Err(err).Str("key", key).Msg("cache store get failed")
		metrics.RecordCacheLookup(t.name, "store", false)
		return zero, false
	}
	metrics.RecordCacheLookup(t.name, "store", ok)
	if !ok {
		return zero, false
	}
	t.l1.Set(key, v)
	metrics.SetCacheEntries(t.name, t.l1.Len())
	return v, true
}

// Set writes value to both tiers.
func (t *Tiered[T]) Set(ctx context.Context, key string, value T) {
	t.l1.Set(key, value)
	metrics.SetCacheEntries(t.name, t.l1.Len())
	if t.l2 == nil {
		return
	}
	if err := t.l2.Set(ctx, key, value, t.l1.TTL()); err != nil {
		t.logger.Warn().Err(err).Str("key", key).Msg("cache store set failed")
	}
}

// Delete removes key from both tiers.
func (t *Tiered[T]) Delete(ctx context.Context, key string) {
	t.l1.Remove(key)
	metrics.SetCacheEntries(t.name, t.l1.Len())
	if t.l2 == nil {
		return
	}
	if err := t.l2.Delete(ctx, key); err != nil {
		t.logger.Warn().Err(err).Str("key", key).Msg("cache store delete failed")
	}
}

// CleanupExpired prunes expired memory entries.
func (t *Tiered[T]) CleanupExpired() int {
	n := t.l1.CleanupExpired()
	metrics.SetCacheEntries(t.name, t.l1.Len())
	return n
}

// Len returns the memory tier size.
func (t *Tiered[T]) Len() int {
	return t.l1.Len()
}

// Close closes the store tier.
func (t *Tiered[T]) Close() error {
	if t.l2 == nil {
		return nil
	}
	return t.l2.Close()
}
