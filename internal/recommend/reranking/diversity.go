// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package reranking

import (
	"sort"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// DefaultCap is the default maximum number of same-category items per result.
const DefaultCap = 3

// maxRankSize bounds result allocations.
const maxRankSize = 10000

// Keys extracts the ranking attributes from an element.
type Keys[T any] struct {
	Score    func(*T) float64
	ID       func(*T) string
	Category func(*T) string
}

// RankFunc returns at most limit elements of items, ordered by descending
// score, with no more than capPerCategory elements per normalized category.
// items is not modified. capPerCategory <= 0 selects DefaultCap.
func RankFunc[T any](items []T, limit, capPerCategory int, keys Keys[T]) []T {
	if limit <= 0 || len(items) == 0 {
		return []T{}
	}
	if capPerCategory <= 0 {
		capPerCategory = DefaultCap
	}
	if limit > maxRankSize {
		limit = maxRankSize
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := &items[order[a]], &items[order[b]]
		sa, sb := keys.Score(ia), keys.Score(ib)
		if sa != sb {
			return sa > sb
		}
		return keys.ID(ia) < keys.ID(ib)
	})

	size := limit
	if size > len(items) {
		size = len(items)
	}
	out := make([]T, 0, size)
	counts := make(map[string]int)
	for _, idx := range order {
		if len(out) == limit {
			break
		}
		item := &items[idx]
		cat := taxonomy.NormalizeCategory(keys.Category(item))
		if counts[cat] >= capPerCategory {
			continue
		}
		counts[cat]++
		out = append(out, *item)
	}
	return out
}

// DiversityRanker ranks scored products under a per-category cap.
type DiversityRanker struct {
	cap int
}

// NewDiversityRanker creates a ranker. capPerCategory <= 0 selects DefaultCap.
func NewDiversityRanker(capPerCategory int) *DiversityRanker {
	if capPerCategory <= 0 {
		capPerCategory = DefaultCap
	}
	return &DiversityRanker{cap: capPerCategory}
}

// Cap returns the per-category cap.
func (r *DiversityRanker) Cap() int {
	return r.cap
}

var scoredProductKeys = Keys[models.ScoredProduct]{
	Score:    func(s *models.ScoredProduct) float64 { return s.Score },
	ID:       func(s *models.ScoredProduct) string { return s.Product.ID },
	Category: func(s *models.ScoredProduct) string { return s.Product.Category },
}

var candidateKeys = Keys[models.RecommendationCandidate]{
	Score:    func(c *models.RecommendationCandidate) float64 { return c.RelevanceScore },
	ID:       func(c *models.RecommendationCandidate) string { return c.Product.ID },
	Category: func(c *models.RecommendationCandidate) string { return c.Product.Category },
}

// Rank ranks scored products.
func (r *DiversityRanker) Rank(items []models.ScoredProduct, limit int) []models.ScoredProduct {
	return RankFunc(items, limit, r.cap, scoredProductKeys)
}

// RankCandidates ranks recommendation candidates by relevance score.
func (r *DiversityRanker) RankCandidates(items []models.RecommendationCandidate, limit int) []models.RecommendationCandidate {
	return RankFunc(items, limit, r.cap, candidateKeys)
}
