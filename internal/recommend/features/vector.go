// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package features

import "math"

// Vector layout.
const (
	BlockSize  = 10
	Dimensions = 5 * BlockSize

	BlockUserStyle   = 0
	BlockProduct     = 10
	BlockInteraction = 20
	BlockTrend       = 30
	BlockOutfit      = 40
)

// User-style alignment block.
const (
	DimStyleMatch = BlockUserStyle + iota
	DimColorMatch
	DimPriceFit
	DimBrandAffinity
	DimFormalityFit
	DimTrendinessFit
	DimCategoryPreference
	DimSeasonalPreference
	DimRecencyBoost
	DimPopularity
)

// Product intrinsics block.
const (
	DimNormalizedPrice = BlockProduct + iota
	DimNormalizedRating
	DimCategoryPopularity
	DimSeasonalRelevance
	DimTrendScore
	DimNewArrival
	DimDiscount
	DimStockAvailability
	DimSizeAvailability
	DimImageQuality
)

// Interaction history block.
const (
	DimViewed = BlockInteraction + iota
	DimPurchased
	DimWishlisted
	DimCarted
	DimTriedOn
	DimSimilarEngagement
	DimCategoryEngagement
	DimBrandEngagement
	DimContextMatch
	DimInteractionRecency
)

// Seasonal and trend block.
const (
	DimCategoryTrend = BlockTrend + iota
	DimColorTrend
	DimStyleTrend
	DimSocialSignal
	DimInfluencerSignal
	DimPurchaseVelocity
	DimHolidayRelevance
	DimEventRelevance
	DimWeatherRelevance
	DimSeasonTagMatch
)

// Outfit completion block.
const (
	DimWardrobeComplement = BlockOutfit + iota
	DimVersatility
	DimMixAndMatch
	DimGapFilling
	DimColorCoordination
	DimStyleCoordination
	DimOccasionFit
	DimSeasonalNeed
	DimWearFrequency
	DimValueScore
)

// DefaultSignal is the value of an extension-point dimension with no supplier.
const DefaultSignal = 0.5

// Vector is the feature vector of one (user, product, context) triple.
type Vector [Dimensions]float64

// Slice returns the vector as a freshly allocated slice.
func (v *Vector) Slice() []float64 {
	out := make([]float64, Dimensions)
	copy(out, v[:])
	return out
}

// Block returns a copy of the ten dimensions starting at offset.
func (v *Vector) Block(offset int) []float64 {
	out := make([]float64, BlockSize)
	copy(out, v[offset:offset+BlockSize])
	return out
}

// Clamp bounds x to [0,1] and maps NaN to 0.
func Clamp(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector is all zeros or the lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
