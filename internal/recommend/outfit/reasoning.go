// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package outfit

import (
	"fmt"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// Reasoning returns human-readable notes for an outfit, the score band first.
func Reasoning(items []models.Product, score float64) []string {
	var out []string
	switch {
	case score > 0.8:
		out = append(out, "Excellent harmony: these pieces work together effortlessly")
	case score >= 0.6:
		out = append(out, "Good combination: minor adjustments could elevate the look")
	default:
		out = append(out, "Needs better coordination between pieces")
	}

	colors := AnalyzeColors(items)
	switch {
	case colors.IsMonochromatic:
		out = append(out, "Monochromatic palette creates a streamlined silhouette")
	case colors.HasComplementary:
		out = append(out, "Complementary colors add deliberate contrast")
	}
	if colors.HasNeutralBase && colors.HasAccent {
		out = append(out, "Neutral base lets the accent color stand out")
	} else if colors.HasNeutralBase && !colors.IsMonochromatic {
		out = append(out, "Neutral base keeps the outfit versatile")
	}

	if family, ok := sharedFamily(items); ok {
		out = append(out, fmt.Sprintf("Consistent %s aesthetic across every piece", family))
	}
	return out
}

// Occasions maps mean formality to suggested occasions.
func Occasions(items []models.Product) []string {
	if len(items) == 0 {
		return []string{}
	}
	var total float64
	for i := range items {
		total += float64(taxonomy.Formality(&items[i]))
	}
	mean := total / float64(len(items))

	switch {
	case mean >= 4:
		return []string{"formal events", "business meetings"}
	case mean >= 3:
		return []string{"business casual", "date night"}
	case mean >= 2:
		return []string{"casual outings", "weekend brunch"}
	default:
		return []string{"leisure", "lounging at home"}
	}
}

func sharedFamily(items []models.Product) (string, bool) {
	family := ""
	for i := range items {
		if items[i].Style == "" {
			continue
		}
		f := taxonomy.StyleFamily(items[i].Style)
		if family == "" {
			family = f
			continue
		}
		if f != family {
			return "", false
		}
	}
	return family, family != ""
}
