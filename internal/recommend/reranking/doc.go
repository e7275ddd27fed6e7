// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

// Package reranking implements the diversity-aware ranker.
//
// The ranker sorts scored items by descending score (ties broken by product ID
// so results are deterministic), then greedily accepts items while tracking a
// running count per normalized category. Items that would push their category
// past the cap are skipped and never backfilled:
//
//	Blended scores -> Sort -> Per-category cap -> Ranked result (len <= limit)
//
// When diverse candidates run out before the limit is reached the result is
// short. The cap is never relaxed to fill it.
//
// # Usage Example
//
//	ranker := reranking.NewDiversityRanker(3)
//	top := ranker.Rank(scored, 20)
//
// Any element type can be ranked with RankFunc by supplying accessors:
//
//	out := reranking.RankFunc(candidates, 20, 3, reranking.Keys[models.RecommendationCandidate]{
//	    Score:    func(c *models.RecommendationCandidate) float64 { return c.RelevanceScore },
//	    ID:       func(c *models.RecommendationCandidate) string { return c.Product.ID },
//	    Category: func(c *models.RecommendationCandidate) string { return c.Product.Category },
//	})
package reranking
