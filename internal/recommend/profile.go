// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package recommend

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// ProfileBuilder aggregates interaction events into a UserProfile. It is
// stateless and safe for concurrent use.
type ProfileBuilder struct {
	defaults ProfileDefaults
}

// NewProfileBuilder creates a builder applying defaults to missing signals.
func NewProfileBuilder(defaults ProfileDefaults) *ProfileBuilder {
	return &ProfileBuilder{defaults: defaults}
}

// DefaultProfile returns the profile of a user without history: the default
// price range, mid-scale formality and trendiness, and the category x season
// relevance table as seasonal preferences.
func (b *ProfileBuilder) DefaultProfile(userID string, now time.Time) *models.UserProfile {
	return &models.UserProfile{
		UserID: userID,
		Style: models.StyleProfile{
			PriceRange:          models.PriceRange{Min: b.defaults.PriceMin, Max: b.defaults.PriceMax},
			BrandAffinities:     map[string]float64{},
			CategoryPreferences: map[string]float64{},
			FormalityPreference: b.defaults.Formality,
			Trendiness:          b.defaults.Trendiness,
		},
		Seasonal:  defaultSeasonalPreferences(),
		BuiltAt:   now,
		IsDefault: true,
	}
}

func defaultSeasonalPreferences() models.SeasonalPreferences {
	prefs := make(models.SeasonalPreferences, len(models.Seasons))
	for _, season := range models.Seasons {
		weights := make(map[string]float64, len(taxonomy.Categories))
		for _, cat := range taxonomy.Categories {
			weights[cat] = taxonomy.SeasonRelevance(cat, season)
		}
		prefs[season] = models.SeasonPreference{CategoryWeights: weights}
	}
	return prefs
}

// NormalizeEvent repairs an event in place: unknown types become views, a
// zero timestamp becomes now, categories, colors and brands are canonicalized
// and negative prices are dropped.
func NormalizeEvent(ev *models.InteractionEvent, now time.Time) {
	ev.Type = models.ParseInteractionType(string(ev.Type))
	if ev.Timestamp.IsZero() {
		ev.Timestamp = now
	}
	if ev.Category != "" {
		ev.Category = taxonomy.NormalizeCategory(ev.Category)
	}
	ev.Color = taxonomy.NormalizeColor(ev.Color)
	ev.Brand = strings.ToLower(strings.TrimSpace(ev.Brand))
	ev.Style = strings.ToLower(strings.TrimSpace(ev.Style))
	if ev.Price < 0 || math.IsNaN(ev.Price) {
		ev.Price = 0
	}
}

// EnrichEvent fills missing event attributes from the product snapshot.
func EnrichEvent(ev *models.InteractionEvent, p *models.Product) {
	if p == nil {
		return
	}
	if ev.Category == "" {
		ev.Category = taxonomy.NormalizeCategory(p.Category)
	}
	if ev.Brand == "" {
		ev.Brand = strings.ToLower(p.Brand)
	}
	if ev.Color == "" {
		ev.Color = taxonomy.NormalizeColor(p.PrimaryColor())
	}
	if ev.Style == "" {
		ev.Style = strings.ToLower(p.Style)
	}
	if ev.Season == "" {
		ev.Season = p.Season
	}
	if ev.Price == 0 {
		ev.Price = p.Price
	}
}

// tally accumulates weighted observations of string keys.
type tally map[string]float64

func (t tally) add(key string, w float64) {
	if key != "" {
		t[key] += w
	}
}

// ranked returns keys by descending weight, ties broken by key.
func (t tally) ranked() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if t[keys[i]] != t[keys[j]] {
			return t[keys[i]] > t[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// normalized scales weights so the strongest key is 1.
func (t tally) normalized() map[string]float64 {
	out := make(map[string]float64, len(t))
	top := 0.0
	for _, w := range t {
		if w > top {
			top = w
		}
	}
	if top == 0 {
		return out
	}
	for k, w := range t {
		out[k] = w / top
	}
	return out
}

func topK(keys []string, k int) []string {
	if len(keys) > k {
		keys = keys[:k]
	}
	return append([]string(nil), keys...)
}

// Build derives a profile from events. Categories, colors, brands and styles
// are frequency-weighted by interaction type; the price range spans observed
// purchase prices; formality and trendiness are nudged toward the formality
// of purchased items; each season's preferences blend the default relevance
// table with purchases tagged for that season. Missing history yields the
// default profile.
func (b *ProfileBuilder) Build(userID string, events []models.InteractionEvent, now time.Time) *models.UserProfile {
	profile := b.DefaultProfile(userID, now)
	if len(events) == 0 {
		return profile
	}
	profile.IsDefault = false

	categories, colors, brands, styles := tally{}, tally{}, tally{}, tally{}
	seasonCategories := make(map[models.Season]tally, len(models.Seasons))
	seasonColors := make(map[models.Season]tally, len(models.Seasons))
	seasonStyles := make(map[models.Season]tally, len(models.Seasons))
	seasonPurchases := make(map[models.Season]int, len(models.Seasons))

	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	formalitySum, purchases := 0.0, 0

	for i := range events {
		ev := events[i]
		NormalizeEvent(&ev, now)
		profile.History.Append(ev)

		w := ev.Type.Weight()
		categories.add(ev.Category, w)
		colors.add(ev.Color, w)
		brands.add(ev.Brand, w)
		styles.add(ev.Style, w)

		if ev.Type != models.InteractionPurchase {
			continue
		}
		purchases++
		if ev.Price > 0 {
			minPrice = math.Min(minPrice, ev.Price)
			maxPrice = math.Max(maxPrice, ev.Price)
		}
		formalitySum += float64(taxonomy.Formality(&models.Product{Category: ev.Category, Style: ev.Style}))

		for _, season := range purchaseSeasons(ev.Season) {
			if seasonCategories[season] == nil {
				seasonCategories[season], seasonColors[season], seasonStyles[season] = tally{}, tally{}, tally{}
			}
			seasonCategories[season].add(ev.Category, 1)
			seasonColors[season].add(ev.Color, 1)
			seasonStyles[season].add(ev.Style, 1)
			seasonPurchases[season]++
		}
	}

	style := &profile.Style
	style.CategoryPreferences = categories.normalized()
	style.BrandAffinities = brands.normalized()
	style.ColorPalette = topK(colors.ranked(), b.defaults.PaletteSize)
	if ranked := styles.ranked(); len(ranked) > 0 {
		style.DominantStyle = ranked[0]
		style.SecondaryStyles = topK(ranked[1:], b.defaults.SecondaryStyles)
	}
	if minPrice <= maxPrice {
		style.PriceRange = models.PriceRange{Min: minPrice, Max: maxPrice}
	}

	if purchases > 0 {
		mean := formalitySum / float64(purchases)
		strength := float64(purchases) / float64(purchases+2)
		style.FormalityPreference = clampLevel(int(math.Round(
			(1-strength)*float64(b.defaults.Formality) + strength*mean)))
		// Tailored buyers lean classic, relaxed and street buyers lean trend-led.
		style.Trendiness = clampLevel(int(math.Round(
			float64(b.defaults.Trendiness) - strength*(mean-3))))
	}

	for season, n := range seasonPurchases {
		pref := profile.Seasonal[season]
		share := seasonCategories[season].normalized()
		k := float64(n)
		for cat, base := range pref.CategoryWeights {
			pref.CategoryWeights[cat] = (base + k*share[cat]) / (1 + k)
		}
		for cat, s := range share {
			if _, ok := pref.CategoryWeights[cat]; !ok {
				pref.CategoryWeights[cat] = (0.5 + k*s) / (1 + k)
			}
		}
		pref.PreferredColors = topK(seasonColors[season].ranked(), 3)
		pref.PreferredStyles = topK(seasonStyles[season].ranked(), 3)
		profile.Seasonal[season] = pref
	}

	return profile
}

// purchaseSeasons expands a season tag. All-season items count toward none.
func purchaseSeasons(tag string) []models.Season {
	s := models.ParseSeason(tag)
	if s == models.SeasonAll {
		return nil
	}
	return []models.Season{s}
}

// Sanitize repairs profile fields that are missing or out of range in place:
// an inverted price range is swapped, an empty one replaced by the defaults,
// and formality and trendiness clamped to 1..5.
func (b *ProfileBuilder) Sanitize(p *models.UserProfile) {
	r := &p.Style.PriceRange
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	if r.Max <= 0 {
		r.Min, r.Max = b.defaults.PriceMin, b.defaults.PriceMax
	}
	if r.Min < 0 {
		r.Min = 0
	}
	if p.Style.FormalityPreference == 0 {
		p.Style.FormalityPreference = b.defaults.Formality
	}
	if p.Style.Trendiness == 0 {
		p.Style.Trendiness = b.defaults.Trendiness
	}
	p.Style.FormalityPreference = clampLevel(p.Style.FormalityPreference)
	p.Style.Trendiness = clampLevel(p.Style.Trendiness)
	if p.Seasonal == nil {
		p.Seasonal = defaultSeasonalPreferences()
	}
}

func clampLevel(l int) int {
	if l < 1 {
		return 1
	}
	if l > 5 {
		return 5
	}
	return l
}
