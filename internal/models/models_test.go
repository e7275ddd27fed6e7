// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package models

import (
	"testing"
	"time"
)

func TestSeasonForMonth(t *testing.T) {
	tests := []struct {
		month time.Month
		want  Season
	}{
		{time.January, SeasonWinter},
		{time.February, SeasonWinter},
		{time.March, SeasonSpring},
		{time.May, SeasonSpring},
		{time.June, SeasonSummer},
		{time.August, SeasonSummer},
		{time.September, SeasonFall},
		{time.November, SeasonFall},
		{time.December, SeasonWinter},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			if got := SeasonForMonth(tt.month); got != tt.want {
				t.Errorf("SeasonForMonth(%v) = %v, want %v", tt.month, got, tt.want)
			}
		})
	}
}

func TestParseSeason(t *testing.T) {
	tests := map[string]Season{
		"Summer":  SeasonSummer,
		" fall ":  SeasonFall,
		"autumn":  SeasonFall,
		"":        SeasonAll,
		"monsoon": SeasonAll,
	}
	for in, want := range tests {
		if got := ParseSeason(in); got != want {
			t.Errorf("ParseSeason(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSeasonMatches(t *testing.T) {
	if !SeasonAll.Matches(SeasonWinter) {
		t.Error("all-season items should match every season")
	}
	if SeasonSummer.Matches(SeasonWinter) {
		t.Error("summer should not match winter")
	}
}

func TestParseInteractionType(t *testing.T) {
	tests := map[string]InteractionType{
		"purchase":     InteractionPurchase,
		"wishlist-add": InteractionWishlist,
		"try-on":       InteractionTryOn,
		"add_to_cart":  InteractionCart,
		"view":         InteractionView,
		"bogus":        InteractionView,
	}
	for in, want := range tests {
		if got := ParseInteractionType(in); got != want {
			t.Errorf("ParseInteractionType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInteractionHistoryAppend(t *testing.T) {
	var h InteractionHistory
	h.Append(InteractionEvent{ProductID: "p1", Type: InteractionView})
	h.Append(InteractionEvent{ProductID: "p2", Type: InteractionPurchase})
	h.Append(InteractionEvent{ProductID: "p3", Type: InteractionTryOn})

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	if len(h.Purchases) != 1 || h.Purchases[0].ProductID != "p2" {
		t.Errorf("purchase not recorded: %+v", h.Purchases)
	}
	if len(h.All()) != 3 {
		t.Errorf("All() returned %d events, want 3", len(h.All()))
	}
}

func TestUserProfileCloneIsDeep(t *testing.T) {
	orig := &UserProfile{
		UserID: "u1",
		Style: StyleProfile{
			ColorPalette:        []string{"black"},
			BrandAffinities:     map[string]float64{"acme": 1},
			CategoryPreferences: map[string]float64{"tops": 1},
		},
		Seasonal: SeasonalPreferences{
			SeasonWinter: {CategoryWeights: map[string]float64{"outerwear": 1}},
		},
	}
	orig.History.Append(InteractionEvent{ProductID: "p1", Type: InteractionView})

	clone := orig.Clone()
	clone.Style.ColorPalette[0] = "red"
	clone.Style.BrandAffinities["acme"] = 0
	clone.Style.CategoryPreferences["shoes"] = 1
	clone.Seasonal[SeasonWinter].CategoryWeights["outerwear"] = 0
	clone.History.Append(InteractionEvent{ProductID: "p2", Type: InteractionView})

	if orig.Style.ColorPalette[0] != "black" {
		t.Error("palette shared between clone and original")
	}
	if orig.Style.BrandAffinities["acme"] != 1 {
		t.Error("brand affinities shared between clone and original")
	}
	if _, ok := orig.Style.CategoryPreferences["shoes"]; ok {
		t.Error("category preferences shared between clone and original")
	}
	if orig.Seasonal[SeasonWinter].CategoryWeights["outerwear"] != 1 {
		t.Error("seasonal weights shared between clone and original")
	}
	if orig.History.Len() != 1 {
		t.Errorf("history shared: original has %d events", orig.History.Len())
	}
}

func TestProductFilterMatches(t *testing.T) {
	p := &Product{ID: "p1", Category: "tops", Price: 80, Season: "summer", Stock: 2}

	tests := []struct {
		name   string
		filter ProductFilter
		want   bool
	}{
		{"empty filter", ProductFilter{}, true},
		{"category match", ProductFilter{Categories: []string{"Tops"}}, true},
		{"category miss", ProductFilter{Categories: []string{"shoes"}}, false},
		{"price window", ProductFilter{MinPrice: 50, MaxPrice: 100}, true},
		{"price too high", ProductFilter{MaxPrice: 60}, false},
		{"season miss", ProductFilter{Season: "winter"}, false},
		{"in stock", ProductFilter{InStockOnly: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(p); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
