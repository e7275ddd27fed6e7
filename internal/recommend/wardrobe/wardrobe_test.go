// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package wardrobe

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/models"
)

var testNow = time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

func catalog() []models.Product {
	var out []models.Product
	for _, cat := range []string{"tops", "bottoms", "shoes", "outerwear", "bags"} {
		for i := 0; i < 5; i++ {
			out = append(out, models.Product{
				ID:       fmt.Sprintf("%s-%d", cat, i),
				Category: cat,
				Price:    float64(40 + 30*i),
				Colors:   []string{"black"},
				Style:    "casual",
				Season:   "all",
				Rating:   3.5 + 0.3*float64(i),
				Stock:    5,
			})
		}
	}
	return out
}

func lookupFrom(products []models.Product) ProductLookup {
	idx := make(map[string]*models.Product, len(products))
	for i := range products {
		idx[products[i].ID] = &products[i]
	}
	return func(id string) (*models.Product, bool) {
		p, ok := idx[id]
		return p, ok
	}
}

func TestSeverity(t *testing.T) {
	tests := map[int]int{0: 5, 1: 4, 2: 3, 3: 2, 4: 1, 5: 0, 9: 0}
	for owned, want := range tests {
		if got := Severity(owned); got != want {
			t.Errorf("Severity(%d) = %d, want %d", owned, got, want)
		}
	}
	for n := 0; n < 10; n++ {
		if Severity(n+1) > Severity(n) {
			t.Errorf("Severity increases from %d to %d", n, n+1)
		}
	}
}

func TestAnalyzeZeroHistory(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil, zerolog.Nop())
	got := a.Analyze(&Input{UserID: "u1", Candidates: catalog(), Now: testNow})

	if len(got.Gaps) != 4 {
		t.Fatalf("gaps = %d, want 4: %+v", len(got.Gaps), got.Gaps)
	}
	for _, g := range got.Gaps {
		if g.Kind != models.GapEssential || g.Severity != 5 || g.Reason != ReasonMissing {
			t.Errorf("gap %+v, want essential severity 5 %q", g, ReasonMissing)
		}
		if len(g.SuggestedItems) != 3 {
			t.Errorf("gap %s suggestions = %d, want 3", g.Category, len(g.SuggestedItems))
		}
		for _, p := range g.SuggestedItems {
			if p.Category != g.Category {
				t.Errorf("gap %s suggested %s from %s", g.Category, p.ID, p.Category)
			}
		}
	}
	if got.VersatilityScore != 0 || got.SeasonalBalance != 0 || got.ColorHarmony != 0 {
		t.Errorf("aggregates = %v/%v/%v, want zeros", got.VersatilityScore, got.SeasonalBalance, got.ColorHarmony)
	}
	if got.Items == nil {
		t.Error("Items is nil, want empty slice")
	}
}

func TestAnalyzeLimitedVarietyAndSeasonalGap(t *testing.T) {
	products := catalog()
	orders := []models.Order{{
		ID: "o1", UserID: "u1", CreatedAt: testNow.Add(-30 * 24 * time.Hour),
		Items: []models.OrderItem{
			{ProductID: "tops-0", Quantity: 1},
			{ProductID: "tops-1", Quantity: 1},
			{ProductID: "bottoms-0", Quantity: 3},
		},
	}}
	// Owned tops are winter-only, leaving three items that suit summer.
	products[0].Season = "winter"
	products[1].Season = "winter"

	items := InferItems(orders, lookupFrom(products), testNow)
	if len(items) != 5 {
		t.Fatalf("items = %d, want 5", len(items))
	}

	a := NewAnalyzer(DefaultConfig(), nil, zerolog.Nop())
	got := a.Analyze(&Input{UserID: "u1", Items: items, Candidates: products, Season: models.SeasonSummer, Now: testNow})

	byCat := make(map[string]models.CategoryGap)
	for _, g := range got.Gaps {
		byCat[string(g.Kind)+":"+g.Category] = g
	}
	tops, ok := byCat["essential:tops"]
	if !ok || tops.Severity != 3 || tops.Reason != ReasonLimitedVariety {
		t.Errorf("tops gap = %+v", tops)
	}
	if _, ok := byCat["essential:bottoms"]; ok {
		t.Error("bottoms with 3 items should not be a gap")
	}
	seasonal, ok := byCat["seasonal:tops"]
	if !ok || seasonal.Severity != 4 {
		t.Errorf("seasonal gap = %+v, gaps = %+v", seasonal, got.Gaps)
	}
	for _, p := range tops.SuggestedItems {
		if p.ID == "tops-0" || p.ID == "tops-1" {
			t.Errorf("suggested owned product %s", p.ID)
		}
	}
}

func TestInferItemsDeterministic(t *testing.T) {
	products := catalog()
	orders := []models.Order{
		{ID: "b", CreatedAt: testNow.Add(-10 * 24 * time.Hour), Items: []models.OrderItem{{ProductID: "shoes-1", Quantity: 1}}},
		{ID: "a", CreatedAt: testNow.Add(-400 * 24 * time.Hour), Items: []models.OrderItem{{ProductID: "tops-2", Quantity: 1}, {ProductID: "missing", Quantity: 1}}},
	}
	first := InferItems(orders, lookupFrom(products), testNow)
	second := InferItems(orders, lookupFrom(products), testNow)
	if !reflect.DeepEqual(first, second) {
		t.Error("InferItems is not idempotent")
	}
	if len(first) != 2 || first[0].ProductID != "tops-2" {
		t.Fatalf("items = %+v", first)
	}
	if first[0].WearFrequency != 0.25 {
		t.Errorf("old item wear frequency = %v, want floor 0.25", first[0].WearFrequency)
	}
	if first[1].WearFrequency <= first[0].WearFrequency {
		t.Error("recent purchase should be worn more often")
	}
	for _, it := range first {
		if it.LastWorn.Before(it.PurchasedAt) || it.LastWorn.After(testNow) {
			t.Errorf("last worn %v outside [%v, %v]", it.LastWorn, it.PurchasedAt, testNow)
		}
	}
}

func TestGapFillScore(t *testing.T) {
	profile := &models.UserProfile{Style: models.StyleProfile{
		DominantStyle: "casual",
		PriceRange:    models.PriceRange{Min: 50, Max: 200},
	}}
	p := &models.Product{Category: "tops", Style: "casual", Price: 100, Rating: 4.5, Colors: []string{"black"}, Season: "all"}
	if got := GapFillScore(profile, p, "tops"); got != 1 {
		t.Errorf("GapFillScore() = %v, want clamped 1", got)
	}
	weak := &models.Product{Category: "shoes", Style: "formal", Price: 900, Rating: 2, Colors: []string{"red"}, Season: "winter", Formality: 5}
	if got := GapFillScore(profile, weak, "tops"); got != 0.5 {
		t.Errorf("GapFillScore(weak) = %v, want 0.5", got)
	}
}

func TestSeasonalBalance(t *testing.T) {
	balanced := []models.WardrobeItem{{Season: models.SeasonAll}, {Season: models.SeasonAll}}
	if got := SeasonalBalance(balanced); got != 1 {
		t.Errorf("all-season balance = %v, want 1", got)
	}
	skewed := []models.WardrobeItem{{Season: models.SeasonWinter}, {Season: models.SeasonWinter}}
	if got := SeasonalBalance(skewed); math.Abs(got) > 1e-9 {
		t.Errorf("single-season balance = %v, want 0", got)
	}
	mixed := []models.WardrobeItem{{Season: models.SeasonWinter}, {Season: models.SeasonSummer}}
	if got := SeasonalBalance(mixed); got <= 0 || got >= 1 {
		t.Errorf("mixed balance = %v, want in (0,1)", got)
	}
}

func TestColorHarmony(t *testing.T) {
	items := []models.WardrobeItem{
		{Color: "black"},
		{Color: "blue"},
		{Color: "orange"},
		{Color: "lime"},
	}
	// black is neutral, blue and orange are complementary, lime pairs with neutral black.
	if got := ColorHarmony(items); got != 1 {
		t.Errorf("ColorHarmony() = %v, want 1", got)
	}
	clash := []models.WardrobeItem{{Color: "red"}, {Color: "blue"}, {}}
	if got := ColorHarmony(clash); got != 0 {
		t.Errorf("ColorHarmony(clash) = %v, want 0", got)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg.SeasonalSeverity = 9
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil for severity 9")
	}
}
