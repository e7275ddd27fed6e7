// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package models

import "time"

// CandidateCategory classifies why a product was recommended.
type CandidateCategory string

const (
	CandidateTrending     CandidateCategory = "trending"
	CandidateWardrobeGap  CandidateCategory = "wardrobe_gap"
	CandidateSimilarStyle CandidateCategory = "similar_style"
	CandidatePriceMatch   CandidateCategory = "price_match"
	CandidateSeasonal     CandidateCategory = "seasonal"
)

// ScoredProduct pairs a product with a score in [0,1].
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}

// ScoreBreakdown records the blend components of a recommendation score.
type ScoreBreakdown struct {
	Base          float64 `json:"base"`
	Seasonal      float64 `json:"seasonal"`
	Trend         float64 `json:"trend"`
	Compatibility float64 `json:"compatibility"`
}

// RecommendationCandidate is a ranked product recommendation.
type RecommendationCandidate struct {
	Product        Product           `json:"product"`
	RelevanceScore float64           `json:"relevance_score"`
	Reasoning      []string          `json:"reasoning"`
	Category       CandidateCategory `json:"category"`
	Breakdown      ScoreBreakdown    `json:"breakdown"`
}

// OutfitCombination is a scored set of garments. Items are ordered top, bottom,
// shoes, then accessories.
type OutfitCombination struct {
	Items                []Product `json:"items"`
	CompatibilityScore   float64   `json:"compatibility_score"`
	StyleReasoning       []string  `json:"style_reasoning"`
	RecommendedOccasions []string  `json:"recommended_occasions"`
}

// WardrobeItem is a garment inferred from purchase history.
type WardrobeItem struct {
	ProductID string `json:"product_id"`
	Category  string `json:"category"`
	Color     string `json:"color"`
	Style     string `json:"style"`
	Season    Season `json:"season"`

	// WearFrequency is an estimate in wears per week derived from purchase recency.
	WearFrequency float64   `json:"wear_frequency"`
	LastWorn      time.Time `json:"last_worn"`
	PurchasedAt   time.Time `json:"purchased_at"`
}

// GapKind distinguishes essential-category gaps from seasonal gaps.
type GapKind string

const (
	GapEssential GapKind = "essential"
	GapSeasonal  GapKind = "seasonal"
)

// CategoryGap is a missing or under-represented wardrobe category.
type CategoryGap struct {
	Category       string    `json:"category"`
	Kind           GapKind   `json:"kind"`
	Severity       int       `json:"severity"`
	Reason         string    `json:"reason"`
	OwnedCount     int       `json:"owned_count"`
	SuggestedItems []Product `json:"suggested_items"`
}

// WardrobeAnalysis is the result of analyzing a user's inferred wardrobe.
type WardrobeAnalysis struct {
	UserID           string          `json:"user_id"`
	Items            []WardrobeItem  `json:"items"`
	Gaps             []CategoryGap   `json:"gaps"`
	Recommendations  []ScoredProduct `json:"recommendations"`
	VersatilityScore float64         `json:"versatility_score"`
	SeasonalBalance  float64         `json:"seasonal_balance"`
	ColorHarmony     float64         `json:"color_harmony"`
	Season           Season          `json:"season"`
	AnalyzedAt       time.Time       `json:"analyzed_at"`
}
