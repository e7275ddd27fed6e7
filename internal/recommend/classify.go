// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package recommend

import (
	"fmt"
	"strings"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/features"
)

// Signal thresholds for reasoning tags.
const (
	strongSignal = 0.7
	trendSignal  = 0.6
	gapSignal    = 0.6
	brandSignal  = 0.5
)

// signals are the dominant per-candidate signals read from the feature vector.
type signals struct {
	style    float64
	price    float64
	brand    float64
	trend    float64
	seasonal float64
	gap      float64
	compat   float64
	outfit   bool
}

func signalsOf(v *features.Vector, b *models.ScoreBreakdown, outfit bool) signals {
	s := signals{
		style:    v[features.DimStyleMatch],
		price:    v[features.DimPriceFit],
		brand:    v[features.DimBrandAffinity],
		trend:    b.Trend,
		seasonal: b.Seasonal,
		compat:   b.Compatibility,
		outfit:   outfit,
	}
	// Gap filling is only known when the wardrobe was inferred.
	if outfit {
		s.gap = v[features.DimGapFilling]
	}
	return s
}

// classify picks the candidate category from the strongest signal. Wardrobe
// gaps win outright; otherwise style, trend, season and price compete, with
// price discounted because most of the catalog fits a broad range.
func classify(s *signals) models.CandidateCategory {
	if s.gap > gapSignal {
		return models.CandidateWardrobeGap
	}
	best, category := s.style, models.CandidateSimilarStyle
	for _, c := range []struct {
		score    float64
		category models.CandidateCategory
	}{
		{s.trend, models.CandidateTrending},
		{s.seasonal, models.CandidateSeasonal},
		{0.9 * s.price, models.CandidatePriceMatch},
	} {
		if c.score > best {
			best, category = c.score, c.category
		}
	}
	return category
}

// reasoningTags explains a candidate in the order the signals matter.
func reasoningTags(p *models.Product, profile *models.UserProfile, req *scoreRequest, s *signals) []string {
	tags := make([]string, 0, 4)

	switch {
	case s.style >= 1 && profile.Style.DominantStyle != "":
		tags = append(tags, fmt.Sprintf("matches your %s style", profile.Style.DominantStyle))
	case s.style >= strongSignal && p.Style != "":
		tags = append(tags, fmt.Sprintf("complements your %s side", strings.ToLower(p.Style)))
	}
	if s.price >= 1 {
		tags = append(tags, "within your usual price range")
	}
	if s.brand > brandSignal {
		tags = append(tags, "from a brand you love")
	}
	if s.trend > trendSignal {
		tags = append(tags, fmt.Sprintf("trending this %s", req.season))
	}
	if s.seasonal > strongSignal {
		tags = append(tags, fmt.Sprintf("well suited to %s", req.season))
	}
	if s.gap > gapSignal {
		tags = append(tags, "fills a gap in your wardrobe")
	}
	if s.outfit && req.anchor != nil && s.compat > strongSignal {
		name := req.anchor.Name
		if name == "" {
			name = req.anchor.Category
		}
		tags = append(tags, fmt.Sprintf("pairs well with your %s", name))
	}
	if len(tags) == 0 {
		tags = append(tags, "popular pick")
	}
	return tags
}
