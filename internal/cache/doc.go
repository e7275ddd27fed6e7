// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package cache provides the caching primitives the recommendation engine is
built on.

Components:

  - LRU: a thread-safe generic least-recently-used cache with TTL expiry
  - KeyedMutex: per-key locking so concurrent writers to the same key serialize
  - Store: a second-tier store contract with Redis and Badger implementations
  - Tiered: an LRU in front of an optional Store, with lookup metrics

Typical wiring for the profile cache:

	l1 := cache.NewLRU[*models.UserProfile](10000, 15*time.Minute)
	store, _ := cache.NewRedisStore[*models.UserProfile](ctx, cache.RedisConfig{Addr: "localhost:6379"}, "profile:")
	profiles := cache.NewTiered[*models.UserProfile]("profile", l1, store, logger)

	if p, ok := profiles.Get(ctx, userID); ok {
	    // use p
	}

A Store failure never fails a lookup: the caller sees a miss and the error is
logged. Values returned from an LRU are shared, so callers that mutate them
must copy first.
*/
package cache
