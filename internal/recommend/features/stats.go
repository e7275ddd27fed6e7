// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package features

import (
	"hash/fnv"
	"math"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// CatalogStats holds catalog-wide aggregates used for normalization.
type CatalogStats struct {
	MaxPrice       float64
	CategoryCounts map[string]int
	maxCount       int
}

// NewCatalogStats computes stats over products.
func NewCatalogStats(products []models.Product) *CatalogStats {
	s := &CatalogStats{CategoryCounts: make(map[string]int)}
	for i := range products {
		if products[i].Price > s.MaxPrice {
			s.MaxPrice = products[i].Price
		}
		cat := taxonomy.NormalizeCategory(products[i].Category)
		s.CategoryCounts[cat]++
		if s.CategoryCounts[cat] > s.maxCount {
			s.maxCount = s.CategoryCounts[cat]
		}
	}
	return s
}

func (s *CatalogStats) normalizePrice(price float64) float64 {
	if s.MaxPrice <= 0 {
		// Without stats, a soft normalization around a typical price point.
		return Clamp(price / (price + 100))
	}
	return Clamp(price / s.MaxPrice)
}

func (s *CatalogStats) categoryPopularity(category string) float64 {
	if s.maxCount == 0 {
		return DefaultSignal
	}
	return float64(s.CategoryCounts[category]) / float64(s.maxCount)
}

const (
	intrinsicStyleBuckets    = 8
	intrinsicCategoryBuckets = 8

	// IntrinsicDimensions is the length of IntrinsicVector output.
	IntrinsicDimensions = 4 + 4 + 3 + intrinsicStyleBuckets + intrinsicCategoryBuckets
)

// IntrinsicVector encodes user-independent product attributes for
// product-to-product similarity.
func IntrinsicVector(p *models.Product, stats *CatalogStats) []float64 {
	if stats == nil {
		stats = &CatalogStats{}
	}
	out := make([]float64, IntrinsicDimensions)
	out[0] = stats.normalizePrice(p.Price)
	out[1] = ratingNorm(p.Rating)
	out[2] = float64(taxonomy.Formality(p)-1) / 4
	out[3] = Versatility(p)

	switch models.ParseSeason(p.Season) {
	case models.SeasonSpring:
		out[4] = 1
	case models.SeasonSummer:
		out[5] = 1
	case models.SeasonFall:
		out[6] = 1
	case models.SeasonWinter:
		out[7] = 1
	default:
		for i := 4; i < 8; i++ {
			out[i] = 0.25
		}
	}

	if hue := taxonomy.Hue(p.PrimaryColor()); hue >= 0 {
		angle := 2 * math.Pi * float64(hue) / 12
		out[8] = (math.Cos(angle) + 1) / 2
		out[9] = (math.Sin(angle) + 1) / 2
	} else {
		out[10] = 1
	}

	out[11+bucket(taxonomy.StyleFamily(p.Style), intrinsicStyleBuckets)] = 1
	out[11+intrinsicStyleBuckets+bucket(taxonomy.NormalizeCategory(p.Category), intrinsicCategoryBuckets)] = 1
	return out
}

func bucket(s string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % uint32(n))
}
