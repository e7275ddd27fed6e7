// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package taxonomy

import (
	"testing"

	"github.com/tomtom215/stylist/internal/models"
)

func TestSlotFor(t *testing.T) {
	tests := map[string]Slot{
		"tops":        SlotTop,
		"Shirts":      SlotTop,
		"jeans":       SlotBottom,
		"sneakers":    SlotShoes,
		"belts":       SlotAccessory,
		"outerwear":   SlotAccessory,
		"electronics": SlotNone,
	}
	for in, want := range tests {
		if got := SlotFor(in); got != want {
			t.Errorf("SlotFor(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsEssential(t *testing.T) {
	for _, c := range []string{"tops", "Bottoms", "shoes", "coats"} {
		if !IsEssential(c) {
			t.Errorf("IsEssential(%q) = false, want true", c)
		}
	}
	if IsEssential("jewelry") {
		t.Error("jewelry should not be essential")
	}
}

func TestFormality(t *testing.T) {
	tests := []struct {
		name    string
		product models.Product
		want    int
	}{
		{"explicit wins", models.Product{Category: "tops", Style: "casual", Formality: 5}, 5},
		{"suit formal", models.Product{Category: "suits", Style: "formal"}, 5},
		{"activewear sporty", models.Product{Category: "activewear", Style: "sporty"}, 1},
		{"casual top", models.Product{Category: "tops", Style: "casual"}, 3},
		{"unknown", models.Product{Category: "gadgets"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Formality(&tt.product); got != tt.want {
				t.Errorf("Formality() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSeasonRelevance(t *testing.T) {
	if got := SeasonRelevance("outerwear", models.SeasonWinter); got != 1.0 {
		t.Errorf("outerwear/winter = %v, want 1.0", got)
	}
	if got := SeasonRelevance("unknown", models.SeasonWinter); got != 0.5 {
		t.Errorf("unknown category = %v, want neutral 0.5", got)
	}
}

func TestColorRelationships(t *testing.T) {
	if !IsNeutral("Black") || !IsNeutral("grey") {
		t.Error("black and grey should be neutral")
	}
	if IsNeutral("red") {
		t.Error("red is not neutral")
	}
	if !IsComplementary("red", "green") {
		t.Error("red/green should be complementary")
	}
	if !IsComplementary("blue", "orange") {
		t.Error("blue/orange should be complementary")
	}
	if IsComplementary("red", "orange") {
		t.Error("red/orange are not complementary")
	}
	if !IsAnalogous("red", "orange") {
		t.Error("red/orange should be analogous")
	}
	if !Harmonizes("navy", "pink") {
		t.Error("neutral should harmonize with any color")
	}
	if Harmonizes("red", "blue") {
		t.Error("red/blue form no recognized pairing")
	}
	if !IsAccent("red") || IsAccent("black") || IsAccent("unknown") {
		t.Error("accent detection mismatch")
	}
}

func TestStylesCompatible(t *testing.T) {
	if !StylesCompatible("formal", "business") {
		t.Error("same family should be compatible")
	}
	if !StylesCompatible("minimalist", "sporty") {
		t.Error("minimal should pair with everything")
	}
	if StylesCompatible("formal", "sporty") {
		t.Error("formal and sporty should clash")
	}
}
