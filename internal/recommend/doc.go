// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

// Package recommend is the personalization engine facade.
//
// # Architecture
//
// The Engine wires the recommendation components into five operations:
//
//	GetPersonalizedRecommendations  ranked RecommendationCandidates for a user
//	GetSimilarProducts              cosine neighbours over product-intrinsic vectors
//	GenerateOutfitRecommendations   compatible outfit combinations from a pool
//	AnalyzeWardrobe                 inferred wardrobe, gaps and gap-filling picks
//	UpdateUserProfile               applies one interaction event to the profile cache
//
// Data flows from the CatalogGateway into the ProfileBuilder, then through
// features.Build into the scoring.Scorer. Base scores are blended with the
// seasonal.Adjuster output and, for the outfit_completion context, the
// outfit compatibility against the user's most worn item:
//
//	blended = 0.5*base + 0.2*seasonal + 0.2*trend + 0.1*compatibility
//
// The reranking.DiversityRanker then caps each product category in the result.
//
// # State
//
// The engine holds exactly two caches: user profiles (TTL LRU with an optional
// Redis or Badger tier, guarded per user by a KeyedMutex) and product-intrinsic
// vectors (TTL LRU keyed by product ID and invalidated by a fingerprint of the
// product and catalog statistics). Cached profiles are never mutated: updates
// clone, modify and replace.
//
// # Errors
//
// Model failures are absorbed by the scorer fallback. Catalog failures are
// returned wrapped, so callers can test for models.ErrCatalogUnavailable.
// No matches is an empty, non-nil slice.
//
// # Concurrency
//
// Catalog scoring is split into batches scored by a bounded errgroup.
// Cancellation is checked at batch boundaries. The Engine is safe for
// concurrent use.
package recommend
