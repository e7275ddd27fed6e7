// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package features

import (
	"math"
	"strings"
	"time"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// ContextOutfitCompletion is the request context that switches on
// wardrobe-aware compatibility scoring.
const ContextOutfitCompletion = "outfit_completion"

// TrendLookup supplies trend scores in [0,1]. Implementations return the
// neutral 0.5 when they hold no data for a key.
type TrendLookup interface {
	CategoryTrend(category string, season models.Season) float64
	ColorTrend(color string) float64
	StyleTrend(style string) float64
}

// ExtensionFunc supplies an extension-point signal for a product.
type ExtensionFunc func(p *models.Product) float64

// Extensions are optional suppliers for signals that have no catalog-derived
// computation. A nil function yields DefaultSignal.
type Extensions struct {
	ImageQuality     ExtensionFunc
	SocialSignal     ExtensionFunc
	InfluencerSignal ExtensionFunc
	PurchaseVelocity ExtensionFunc
	EventRelevance   ExtensionFunc
}

func (e *Extensions) value(fn func(*Extensions) ExtensionFunc, p *models.Product) float64 {
	if e == nil {
		return DefaultSignal
	}
	if f := fn(e); f != nil {
		return Clamp(f(p))
	}
	return DefaultSignal
}

// Input bundles everything Build reads. Stats, Trends, Wardrobe and Extensions
// are optional.
type Input struct {
	Profile    *models.UserProfile
	Product    *models.Product
	Context    string
	Season     models.Season
	Now        time.Time
	Stats      *CatalogStats
	Trends     TrendLookup
	Wardrobe   []models.WardrobeItem
	Extensions *Extensions
}

// Build computes the feature vector for in. It has no side effects.
func Build(in *Input) Vector {
	var v Vector
	if in == nil || in.Product == nil {
		return v
	}

	profile := in.Profile
	if profile == nil {
		profile = &models.UserProfile{}
	}
	p := in.Product
	stats := in.Stats
	if stats == nil {
		stats = &CatalogStats{}
	}
	trends := in.Trends
	if trends == nil {
		trends = neutralTrends{}
	}
	season := in.Season
	if season == "" || season == models.SeasonAll {
		season = models.SeasonAt(in.Now)
	}
	category := taxonomy.NormalizeCategory(p.Category)
	formality := taxonomy.Formality(p)

	categoryTrend := trends.CategoryTrend(category, season)
	colorTrend := trends.ColorTrend(p.PrimaryColor())
	styleTrend := trends.StyleTrend(p.Style)
	trendScore := (categoryTrend + colorTrend + styleTrend) / 3

	// User-style alignment.
	v[DimStyleMatch] = StyleMatch(&profile.Style, p.Style)
	v[DimColorMatch] = ColorMatch(&profile.Style, p)
	v[DimPriceFit] = PriceFit(profile.Style.PriceRange, p.Price)
	v[DimBrandAffinity] = profile.Style.BrandAffinities[strings.ToLower(p.Brand)]
	v[DimFormalityFit] = levelFit(formality, profile.Style.FormalityPreference)
	appetite := float64(levelOrMid(profile.Style.Trendiness)-1) / 4
	v[DimTrendinessFit] = appetite*trendScore + (1-appetite)*(1-trendScore)
	v[DimCategoryPreference] = profile.Style.CategoryPreferences[category]
	v[DimSeasonalPreference] = seasonalPreference(profile, season, category)
	v[DimRecencyBoost] = recencyOf(profile.History.All(), in.Now, func(ev *models.InteractionEvent) bool {
		return taxonomy.NormalizeCategory(ev.Category) == category
	})
	v[DimPopularity] = 0.6*ratingNorm(p.Rating) + 0.4*boolSignal(p.Featured)

	// Product intrinsics.
	priceNorm := stats.normalizePrice(p.Price)
	v[DimNormalizedPrice] = priceNorm
	v[DimNormalizedRating] = ratingNorm(p.Rating)
	v[DimCategoryPopularity] = stats.categoryPopularity(category)
	v[DimSeasonalRelevance] = seasonalRelevance(p, category, season)
	v[DimTrendScore] = trendScore
	v[DimNewArrival] = newArrival(p.CreatedAt, in.Now)
	v[DimDiscount] = p.DiscountPercent / 50
	v[DimStockAvailability] = math.Min(float64(p.Stock), 10) / 10
	if len(p.Sizes) > 0 {
		v[DimSizeAvailability] = math.Min(float64(len(p.Sizes)), 6) / 6
	} else {
		v[DimSizeAvailability] = DefaultSignal
	}
	if p.ImageURL == "" {
		v[DimImageQuality] = 0
	} else {
		v[DimImageQuality] = in.Extensions.value(func(e *Extensions) ExtensionFunc { return e.ImageQuality }, p)
	}

	// Interaction history.
	fillInteractions(&v, in, profile, category)

	// Seasonal and trend.
	v[DimCategoryTrend] = categoryTrend
	v[DimColorTrend] = colorTrend
	v[DimStyleTrend] = styleTrend
	v[DimSocialSignal] = in.Extensions.value(func(e *Extensions) ExtensionFunc { return e.SocialSignal }, p)
	v[DimInfluencerSignal] = in.Extensions.value(func(e *Extensions) ExtensionFunc { return e.InfluencerSignal }, p)
	v[DimPurchaseVelocity] = in.Extensions.value(func(e *Extensions) ExtensionFunc { return e.PurchaseVelocity }, p)
	v[DimHolidayRelevance] = holidayRelevance(in.Now, formality)
	v[DimEventRelevance] = in.Extensions.value(func(e *Extensions) ExtensionFunc { return e.EventRelevance }, p)
	v[DimWeatherRelevance] = taxonomy.SeasonRelevance(category, season)
	v[DimSeasonTagMatch] = seasonTagMatch(p.Season, season)

	// Outfit completion.
	fillOutfit(&v, in, category, formality, season, priceNorm)

	for i := range v {
		v[i] = Clamp(v[i])
	}
	return v
}

// StyleMatch scores a product style against the profile: 1.0 for the dominant
// style, 0.7 for a secondary style, 0.3 otherwise.
func StyleMatch(sp *models.StyleProfile, style string) float64 {
	if style != "" && strings.EqualFold(sp.DominantStyle, style) {
		return 1.0
	}
	if style != "" && sp.HasSecondaryStyle(style) {
		return 0.7
	}
	return 0.3
}

// ColorMatch scores product colors against the palette: 1.0 when the primary
// color is in the palette, 0.7 when any color is in it or harmonizes with it,
// 0.3 otherwise. An empty palette yields the neutral 0.5.
func ColorMatch(sp *models.StyleProfile, p *models.Product) float64 {
	if len(sp.ColorPalette) == 0 || len(p.Colors) == 0 {
		return 0.5
	}
	if sp.HasColor(p.PrimaryColor()) {
		return 1.0
	}
	for _, c := range p.Colors {
		if sp.HasColor(c) {
			return 0.7
		}
		for _, pc := range sp.ColorPalette {
			if !taxonomy.IsNeutral(c) && !taxonomy.IsNeutral(pc) && taxonomy.Harmonizes(c, pc) {
				return 0.7
			}
		}
	}
	return 0.3
}

// PriceFit is 1.0 inside the range and decays linearly with the relative
// distance to the nearest bound outside it: 1 - (min-price)/min below,
// 1 - (price-max)/max above.
func PriceFit(r models.PriceRange, price float64) float64 {
	switch {
	case r.Contains(price):
		return 1.0
	case price < r.Min && r.Min > 0:
		return Clamp(1 - (r.Min-price)/r.Min)
	case price > r.Max && r.Max > 0:
		return Clamp(1 - (price-r.Max)/r.Max)
	default:
		return 0
	}
}

// Versatility estimates how many outfits a product can join: neutral color,
// all-season tag and mid-scale formality each contribute.
func Versatility(p *models.Product) float64 {
	score := 0.0
	if taxonomy.IsNeutral(p.PrimaryColor()) {
		score += 0.4
	}
	if models.ParseSeason(p.Season) == models.SeasonAll {
		score += 0.3
	}
	f := float64(taxonomy.Formality(p))
	score += 0.3 * Clamp(1-math.Abs(f-3)/2)
	return Clamp(score)
}

func levelFit(level, pref int) float64 {
	return 1 - math.Abs(float64(levelOrMid(level)-levelOrMid(pref)))/4
}

// levelOrMid treats an unset level as the 1..5 midpoint and caps it at 5.
func levelOrMid(l int) int {
	if l < 1 {
		return 3
	}
	if l > 5 {
		return 5
	}
	return l
}

func ratingNorm(r float64) float64 {
	return Clamp(r / 5)
}

func boolSignal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func seasonalPreference(profile *models.UserProfile, season models.Season, category string) float64 {
	if profile.Seasonal == nil {
		return taxonomy.SeasonRelevance(category, season)
	}
	pref, ok := profile.Seasonal[season]
	if !ok {
		return taxonomy.SeasonRelevance(category, season)
	}
	if w, ok := pref.CategoryWeights[category]; ok {
		return w
	}
	return taxonomy.SeasonRelevance(category, season)
}

func seasonalRelevance(p *models.Product, category string, season models.Season) float64 {
	rel := taxonomy.SeasonRelevance(category, season)
	if !models.ParseSeason(p.Season).Matches(season) {
		rel *= 0.5
	}
	return rel
}

func seasonTagMatch(tag string, season models.Season) float64 {
	s := models.ParseSeason(tag)
	switch {
	case s == models.SeasonAll:
		return 0.5
	case s == season:
		return 1
	default:
		return 0
	}
}

// newArrival decays linearly from 1 to 0 over the first 30 days after CreatedAt.
func newArrival(createdAt, now time.Time) float64 {
	if createdAt.IsZero() || now.IsZero() || createdAt.After(now) {
		return 0
	}
	days := now.Sub(createdAt).Hours() / 24
	return Clamp(1 - days/30)
}

// holidayRelevance favors dressier pieces in November and December.
func holidayRelevance(now time.Time, formality int) float64 {
	if now.IsZero() {
		return DefaultSignal
	}
	if now.Month() == time.November || now.Month() == time.December {
		if formality >= 4 {
			return 1
		}
		return 0.6
	}
	return DefaultSignal
}

// recencyHalfLife is the half-life of interaction recency signals.
const recencyHalfLife = 14 * 24 * time.Hour

// recencyOf returns exp-decayed recency of the newest event matching keep.
func recencyOf(events []models.InteractionEvent, now time.Time, keep func(*models.InteractionEvent) bool) float64 {
	var newest time.Time
	for i := range events {
		if keep(&events[i]) && events[i].Timestamp.After(newest) {
			newest = events[i].Timestamp
		}
	}
	if newest.IsZero() || now.IsZero() {
		return 0
	}
	age := now.Sub(newest)
	if age < 0 {
		age = 0
	}
	return math.Exp2(-float64(age) / float64(recencyHalfLife))
}

func fillInteractions(v *Vector, in *Input, profile *models.UserProfile, category string) {
	p := in.Product
	h := &profile.History

	v[DimViewed] = math.Min(float64(countProduct(h.Views, p.ID)), 5) / 5
	v[DimPurchased] = boolSignal(countProduct(h.Purchases, p.ID) > 0)
	v[DimWishlisted] = boolSignal(countProduct(h.Wishlist, p.ID) > 0)
	v[DimCarted] = boolSignal(countProduct(h.Cart, p.ID) > 0)
	v[DimTriedOn] = boolSignal(countProduct(h.TryOns, p.ID) > 0)

	all := h.All()
	if len(all) == 0 {
		return
	}
	var total, similar, inCategory, inBrand, contextMatch float64
	for i := range all {
		ev := &all[i]
		w := ev.Type.Weight()
		total += w
		evCategory := taxonomy.NormalizeCategory(ev.Category)
		if evCategory == category && ev.Style != "" && strings.EqualFold(ev.Style, p.Style) {
			similar += w
		}
		if evCategory == category {
			inCategory += w
		}
		if ev.Brand != "" && strings.EqualFold(ev.Brand, p.Brand) {
			inBrand += w
		}
		if in.Context != "" && ev.Context == in.Context {
			contextMatch += w
		}
	}
	v[DimSimilarEngagement] = similar / total
	v[DimCategoryEngagement] = inCategory / total
	v[DimBrandEngagement] = inBrand / total
	v[DimContextMatch] = contextMatch / total
	v[DimInteractionRecency] = recencyOf(all, in.Now, func(ev *models.InteractionEvent) bool {
		return ev.ProductID == p.ID
	})
}

func countProduct(events []models.InteractionEvent, productID string) int {
	n := 0
	for i := range events {
		if events[i].ProductID == productID {
			n++
		}
	}
	return n
}

func fillOutfit(v *Vector, in *Input, category string, formality int, season models.Season, priceNorm float64) {
	p := in.Product
	wardrobe := in.Wardrobe

	v[DimVersatility] = Versatility(p)
	v[DimValueScore] = 0.6*ratingNorm(p.Rating) + 0.4*(1-priceNorm)

	owned := 0
	inSeason := 0
	for i := range wardrobe {
		if taxonomy.NormalizeCategory(wardrobe[i].Category) == category {
			owned++
		}
		if wardrobe[i].Season.Matches(season) {
			inSeason++
		}
	}
	if taxonomy.IsEssential(category) {
		v[DimGapFilling] = math.Max(0, float64(3-owned)) / 3
	}
	if models.ParseSeason(p.Season).Matches(season) {
		v[DimSeasonalNeed] = 1 - math.Min(float64(inSeason), 5)/5
	}

	if len(wardrobe) == 0 {
		v[DimWardrobeComplement] = DefaultSignal
		v[DimMixAndMatch] = DefaultSignal
		v[DimColorCoordination] = DefaultSignal
		v[DimStyleCoordination] = DefaultSignal
		v[DimOccasionFit] = DefaultSignal
		v[DimWearFrequency] = DefaultSignal
		return
	}

	color := p.PrimaryColor()
	slot := taxonomy.SlotFor(category)
	var complement, colorOK, styleOK, formalitySum, wearSum float64
	wearN := 0
	pairedSlots := make(map[taxonomy.Slot]struct{})
	for i := range wardrobe {
		item := &wardrobe[i]
		colorHit := color == "" || item.Color == "" || taxonomy.Harmonizes(color, item.Color)
		styleHit := p.Style == "" || item.Style == "" || taxonomy.StylesCompatible(p.Style, item.Style)
		if colorHit {
			colorOK++
		}
		if styleHit {
			styleOK++
		}
		if colorHit && styleHit {
			complement++
			itemSlot := taxonomy.SlotFor(item.Category)
			if itemSlot != slot && itemSlot != taxonomy.SlotNone && itemSlot != taxonomy.SlotAccessory {
				pairedSlots[itemSlot] = struct{}{}
			}
		}
		formalitySum += float64(taxonomy.Formality(&models.Product{Category: item.Category, Style: item.Style}))
		if taxonomy.NormalizeCategory(item.Category) == category {
			wearSum += item.WearFrequency
			wearN++
		}
	}
	n := float64(len(wardrobe))
	v[DimWardrobeComplement] = complement / n
	v[DimColorCoordination] = colorOK / n
	v[DimStyleCoordination] = styleOK / n
	v[DimMixAndMatch] = float64(len(pairedSlots)) / 2
	v[DimOccasionFit] = 1 - math.Abs(float64(formality)-formalitySum/n)/4
	if wearN > 0 {
		v[DimWearFrequency] = math.Min(wearSum/float64(wearN)/3, 1)
	} else {
		v[DimWearFrequency] = DefaultSignal
	}
}

type neutralTrends struct{}

func (neutralTrends) CategoryTrend(string, models.Season) float64 { return 0.5 }
func (neutralTrends) ColorTrend(string) float64                   { return 0.5 }
func (neutralTrends) StyleTrend(string) float64                   { return 0.5 }
