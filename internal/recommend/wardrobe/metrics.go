// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package wardrobe

import (
	"math"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// versatility is the mean coverage of essential categories, each saturating
// at target items.
func versatility(counts map[string]int, target int) float64 {
	var sum float64
	for _, cat := range taxonomy.EssentialCategories {
		sum += math.Min(float64(counts[cat]), float64(target)) / float64(target)
	}
	return sum / float64(len(taxonomy.EssentialCategories))
}

// SeasonalBalance is 1 minus the normalized variance of per-season item
// counts. All-season items count toward every season. An empty wardrobe has
// balance 0.
func SeasonalBalance(items []models.WardrobeItem) float64 {
	if len(items) == 0 {
		return 0
	}
	counts := make(map[models.Season]float64, len(models.Seasons))
	for i := range items {
		for _, s := range models.Seasons {
			if items[i].Season.Matches(s) {
				counts[s]++
			}
		}
	}
	var mean float64
	for _, s := range models.Seasons {
		mean += counts[s]
	}
	mean /= float64(len(models.Seasons))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, s := range models.Seasons {
		d := counts[s] - mean
		variance += d * d
	}
	variance /= float64(len(models.Seasons))

	// With four seasons the variance peaks at 3*mean^2, when every item sits in one season.
	return math.Max(0, 1-variance/(3*mean*mean))
}

// ColorHarmony is the fraction of items whose color is neutral or harmonizes
// with at least one other owned item.
func ColorHarmony(items []models.WardrobeItem) float64 {
	if len(items) == 0 {
		return 0
	}
	harmonious := 0
	for i := range items {
		c := items[i].Color
		if c == "" {
			continue
		}
		if taxonomy.IsNeutral(c) {
			harmonious++
			continue
		}
		for j := range items {
			if i != j && items[j].Color != "" && taxonomy.Harmonizes(c, items[j].Color) {
				harmonious++
				break
			}
		}
	}
	return float64(harmonious) / float64(len(items))
}
