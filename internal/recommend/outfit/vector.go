// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package outfit

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/features"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// Dimensions of the outfit feature vector.
const (
	// Color harmony.
	DimColorHarmony = iota
	DimNeutralBase
	DimAccentColor
	DimComplementary
	DimMonochromatic

	// Style consistency.
	DimStyleSetSize
	DimAestheticCohesion
	DimFormalityBalance

	// Seasonal appropriateness.
	DimSeasonMatch
	DimAllSeason
	DimSeasonAgreement
	DimSeasonRelevance

	// Formality consistency.
	DimMeanFormality
	DimFormalityVariance
	DimOccasionAppropriate

	// Price consistency.
	DimPriceSpread
	DimPriceBalance

	// Brand synergy.
	DimBrandConcentration
	DimSharedBrand
	DimQuality

	// VectorSize is the length of an outfit feature vector.
	VectorSize
)

// ColorHarmony summarizes the color relationships of a set of garments.
type ColorHarmony struct {
	Score            float64 `json:"score"`
	DistinctColors   int     `json:"distinct_colors"`
	HasNeutralBase   bool    `json:"has_neutral_base"`
	HasAccent        bool    `json:"has_accent"`
	HasComplementary bool    `json:"has_complementary"`
	IsMonochromatic  bool    `json:"is_monochromatic"`
}

// AnalyzeColors inspects the primary color of every item. Four garments in
// one color are monochromatic with a score of 1.0.
func AnalyzeColors(items []models.Product) ColorHarmony {
	var colors []string
	distinct := make(map[string]struct{})
	for i := range items {
		c := taxonomy.NormalizeColor(items[i].PrimaryColor())
		if c == "" {
			continue
		}
		colors = append(colors, c)
		distinct[c] = struct{}{}
	}

	var h ColorHarmony
	h.DistinctColors = len(distinct)
	for c := range distinct {
		if taxonomy.IsNeutral(c) {
			h.HasNeutralBase = true
		}
		if taxonomy.IsAccent(c) {
			h.HasAccent = true
		}
	}

	unique := make([]string, 0, len(distinct))
	for c := range distinct {
		unique = append(unique, c)
	}
	sort.Strings(unique)

	pairs, harmonious := 0, 0
	sameFamily := len(colors) >= 2
	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			pairs++
			if taxonomy.Harmonizes(unique[i], unique[j]) {
				harmonious++
			}
			if taxonomy.IsComplementary(unique[i], unique[j]) {
				h.HasComplementary = true
			}
			if !taxonomy.SameColorFamily(unique[i], unique[j]) {
				sameFamily = false
			}
		}
	}
	h.IsMonochromatic = sameFamily

	if h.IsMonochromatic {
		h.Score = 1.0
		return h
	}
	pairFraction := 1.0
	if pairs > 0 {
		pairFraction = float64(harmonious) / float64(pairs)
	}
	h.Score = features.Clamp(0.5*countHarmony(h.DistinctColors) + 0.5*pairFraction)
	return h
}

func countHarmony(distinct int) float64 {
	switch {
	case distinct == 0:
		return 0.5
	case distinct == 1:
		return 1.0
	case distinct == 2:
		return 0.9
	case distinct == 3:
		return 0.75
	case distinct == 4:
		return 0.5
	default:
		return 0.3
	}
}

// Vector builds the 20-dimension compatibility vector of items. The result
// does not depend on the order of items.
func Vector(items []models.Product, season models.Season) []float64 {
	v := make([]float64, VectorSize)
	items = canonical(items)
	n := len(items)
	if n == 0 {
		return v
	}

	colors := AnalyzeColors(items)
	v[DimColorHarmony] = colors.Score
	v[DimNeutralBase] = flag(colors.HasNeutralBase)
	v[DimAccentColor] = flag(colors.HasAccent)
	v[DimComplementary] = flag(colors.HasComplementary)
	v[DimMonochromatic] = flag(colors.IsMonochromatic)

	styles := make(map[string]struct{})
	formality := make([]float64, n)
	for i := range items {
		if s := strings.ToLower(items[i].Style); s != "" {
			styles[s] = struct{}{}
		}
		formality[i] = float64(taxonomy.Formality(&items[i]))
	}
	if len(styles) > 0 {
		v[DimStyleSetSize] = 1 - float64(len(styles)-1)/float64(n)
	} else {
		v[DimStyleSetSize] = features.DefaultSignal
	}
	v[DimAestheticCohesion] = pairFraction(items, func(a, b *models.Product) bool {
		return a.Style == "" || b.Style == "" || taxonomy.StylesCompatible(a.Style, b.Style)
	})
	lo, hi := minMax(formality)
	v[DimFormalityBalance] = 1 - (hi-lo)/4

	fillSeason(v, items, season)

	mean, variance := meanVariance(formality)
	v[DimMeanFormality] = (mean - 1) / 4
	v[DimFormalityVariance] = 1 - variance/4
	appropriate := true
	for _, f := range formality {
		if math.Abs(f-mean) > 1 {
			appropriate = false
		}
	}
	v[DimOccasionAppropriate] = flag(appropriate)

	fillPrice(v, items)
	fillBrand(v, items)

	for i := range v {
		v[i] = features.Clamp(v[i])
	}
	return v
}

// canonical returns items sorted by ID so that order-dependent arithmetic is
// stable.
func canonical(items []models.Product) []models.Product {
	out := append([]models.Product(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func fillSeason(v []float64, items []models.Product, season models.Season) {
	n := float64(len(items))
	var match, all, relevance float64
	tags := make(map[models.Season]int)
	tagged := 0
	for i := range items {
		s := models.ParseSeason(items[i].Season)
		if s.Matches(season) {
			match++
		}
		if s == models.SeasonAll {
			all++
		} else {
			tags[s]++
			tagged++
		}
		relevance += taxonomy.SeasonRelevance(items[i].Category, season)
	}
	v[DimSeasonMatch] = match / n
	v[DimAllSeason] = all / n
	if tagged == 0 {
		v[DimSeasonAgreement] = 1
	} else {
		majority := 0
		for _, c := range tags {
			if c > majority {
				majority = c
			}
		}
		v[DimSeasonAgreement] = float64(majority) / float64(tagged)
	}
	v[DimSeasonRelevance] = relevance / n
}

func fillPrice(v []float64, items []models.Product) {
	var prices []float64
	for i := range items {
		if items[i].Price > 0 {
			prices = append(prices, items[i].Price)
		}
	}
	if len(prices) == 0 {
		v[DimPriceSpread] = features.DefaultSignal
		v[DimPriceBalance] = features.DefaultSignal
		return
	}
	lo, hi := minMax(prices)
	v[DimPriceSpread] = lo / hi
	v[DimPriceBalance] = flag(hi <= 3*lo)
}

func fillBrand(v []float64, items []models.Product) {
	n := len(items)
	brands := make(map[string]int)
	var rating float64
	for i := range items {
		if b := strings.ToLower(strings.TrimSpace(items[i].Brand)); b != "" {
			brands[b]++
		}
		rating += items[i].Rating
	}
	v[DimQuality] = rating / float64(n) / 5

	if n < 2 || len(brands) == 0 {
		v[DimBrandConcentration] = features.DefaultSignal
		v[DimSharedBrand] = 0
		return
	}
	v[DimBrandConcentration] = 1 - float64(len(brands)-1)/float64(n-1)
	shared := 0
	for _, c := range brands {
		if c >= 2 {
			shared += c
		}
	}
	v[DimSharedBrand] = float64(shared) / float64(n)
}

func pairFraction(items []models.Product, ok func(a, b *models.Product) bool) float64 {
	pairs, hits := 0, 0
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			pairs++
			if ok(&items[i], &items[j]) {
				hits++
			}
		}
	}
	if pairs == 0 {
		return 1
	}
	return float64(hits) / float64(pairs)
}

func minMax(xs []float64) (lo, hi float64) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

func meanVariance(xs []float64) (mean, variance float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	return mean, variance / float64(len(xs))
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
