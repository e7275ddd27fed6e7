// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package outfit

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

func product(id, category, color, style string) models.Product {
	return models.Product{
		ID: id, Category: category, Colors: []string{color}, Style: style,
		Season: "all", Price: 80, Brand: "Acme", Rating: 4.2,
	}
}

func testPool() []models.Product {
	return []models.Product{
		product("t1", "tops", "white", "casual"),
		product("t2", "tops", "navy", "minimalist"),
		product("t3", "tops", "red", "streetwear"),
		product("b1", "bottoms", "black", "casual"),
		product("b2", "jeans", "denim", "casual"),
		product("s1", "shoes", "white", "casual"),
		product("s2", "sneakers", "black", "streetwear"),
		product("a1", "bags", "tan", "minimalist"),
		product("a2", "jewelry", "gold", "classic"),
		product("a3", "belts", "brown", "classic"),
	}
}

func TestMonochromaticHarmony(t *testing.T) {
	items := []models.Product{
		product("1", "tops", "navy", "casual"),
		product("2", "bottoms", "navy", "casual"),
		product("3", "shoes", "navy", "casual"),
		product("4", "bags", "navy", "casual"),
	}
	h := AnalyzeColors(items)
	if !h.IsMonochromatic {
		t.Error("IsMonochromatic = false, want true")
	}
	if h.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", h.Score)
	}
	v := Vector(items, models.SeasonSpring)
	if v[DimMonochromatic] != 1 || v[DimColorHarmony] != 1 {
		t.Errorf("color block = %v, want mono and harmony 1", v[DimColorHarmony:DimStyleSetSize])
	}
}

func TestAnalyzeColors(t *testing.T) {
	tests := []struct {
		name      string
		colors    []string
		neutral   bool
		accent    bool
		compl     bool
		mono      bool
		wantRange [2]float64
	}{
		{"neutral with accent", []string{"black", "red"}, true, true, false, false, [2]float64{0.9, 1}},
		{"complementary", []string{"blue", "orange"}, false, true, true, false, [2]float64{0.9, 1}},
		{"clashing", []string{"red", "green", "blue", "yellow", "purple"}, false, true, true, false, [2]float64{0, 0.7}},
		{"same family", []string{"red", "burgundy"}, false, true, false, true, [2]float64{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]models.Product, len(tt.colors))
			for i, c := range tt.colors {
				items[i] = product(fmt.Sprint(i), "tops", c, "casual")
			}
			h := AnalyzeColors(items)
			if h.HasNeutralBase != tt.neutral || h.HasAccent != tt.accent ||
				h.HasComplementary != tt.compl || h.IsMonochromatic != tt.mono {
				t.Errorf("AnalyzeColors() = %+v", h)
			}
			if h.Score < tt.wantRange[0] || h.Score > tt.wantRange[1] {
				t.Errorf("Score = %v, want within %v", h.Score, tt.wantRange)
			}
		})
	}
}

func TestCompatibilityPermutationInvariant(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, zerolog.Nop())
	items := []models.Product{
		product("t", "tops", "white", "casual"),
		{ID: "b", Category: "bottoms", Colors: []string{"olive"}, Style: "bohemian", Season: "summer", Price: 30, Brand: "Other", Rating: 3},
		{ID: "s", Category: "shoes", Colors: []string{"red"}, Style: "formal", Season: "winter", Price: 250, Brand: "Acme", Rating: 5},
		product("a", "bags", "tan", "minimalist"),
	}
	ctx := context.Background()
	want := e.Compatibility(ctx, items, models.SeasonFall)
	wantVec := Vector(items, models.SeasonFall)

	rng := rand.New(rand.NewSource(3)) //nolint:gosec // deterministic shuffles
	for i := 0; i < 50; i++ {
		shuffled := append([]models.Product(nil), items...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := e.Compatibility(ctx, shuffled, models.SeasonFall); got != want {
			t.Fatalf("permutation %d score = %v, want %v", i, got, want)
		}
		gotVec := Vector(shuffled, models.SeasonFall)
		for d := range wantVec {
			if gotVec[d] != wantVec[d] {
				t.Fatalf("permutation %d dim %d = %v, want %v", i, d, gotVec[d], wantVec[d])
			}
		}
	}
}

func TestVectorRange(t *testing.T) {
	v := Vector(testPool(), models.SeasonWinter)
	if len(v) != VectorSize || VectorSize != 20 {
		t.Fatalf("len = %d, VectorSize = %d, want 20", len(v), VectorSize)
	}
	for i, x := range v {
		if x < 0 || x > 1 || math.IsNaN(x) {
			t.Errorf("dim %d = %v out of range", i, x)
		}
	}
	if empty := Vector(nil, models.SeasonWinter); len(empty) != VectorSize {
		t.Errorf("empty vector len = %d", len(empty))
	}
}

func TestHeuristicBounds(t *testing.T) {
	h := NewHeuristic()
	zero := make([]float64, VectorSize)
	if got := h.ScoreVector(zero); got != 0.5 {
		t.Errorf("heuristic(zero) = %v, want 0.5", got)
	}
	ones := make([]float64, VectorSize)
	for i := range ones {
		ones[i] = 1
	}
	if got := h.ScoreVector(ones); math.Abs(got-1) > 1e-9 {
		t.Errorf("heuristic(ones) = %v, want 1", got)
	}
}

func TestGenerate(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, zerolog.Nop())
	got := e.Generate(context.Background(), &Request{Pool: testPool(), Season: models.SeasonSpring})

	if len(got) == 0 {
		t.Fatal("Generate() returned no outfits")
	}
	if len(got) > 10 {
		t.Errorf("len = %d, want <= 10", len(got))
	}
	for i, o := range got {
		if o.CompatibilityScore <= 0.6 || o.CompatibilityScore > 1 {
			t.Errorf("outfit %d score = %v", i, o.CompatibilityScore)
		}
		if i > 0 && got[i-1].CompatibilityScore < o.CompatibilityScore {
			t.Errorf("outfits not sorted at %d", i)
		}
		if len(o.StyleReasoning) == 0 || len(o.RecommendedOccasions) == 0 {
			t.Errorf("outfit %d missing reasoning or occasions", i)
		}
		prev := taxonomy.SlotNone
		for _, item := range o.Items {
			slot := taxonomy.SlotFor(item.Category)
			if slot < prev {
				t.Errorf("outfit %d items out of slot order", i)
			}
			prev = slot
		}
	}
}

func TestGenerateWithAnchor(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, zerolog.Nop())
	anchor := product("b9", "bottoms", "khaki", "casual")
	got := e.Generate(context.Background(), &Request{Pool: testPool(), Anchor: &anchor, Season: models.SeasonSpring})
	if len(got) == 0 {
		t.Fatal("Generate() returned no outfits")
	}
	for i, o := range got {
		found := false
		for _, item := range o.Items {
			if item.ID == "b9" {
				found = true
			}
			if item.ID == "b1" || item.ID == "b2" {
				t.Errorf("outfit %d contains non-anchor bottom %s", i, item.ID)
			}
		}
		if !found {
			t.Errorf("outfit %d missing anchor", i)
		}
	}
}

func TestGenerateWithUnslottedAnchor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 0
	e := NewEngine(cfg, nil, zerolog.Nop())
	anchor := product("w1", "swimwear", "navy", "casual")
	if taxonomy.SlotFor(anchor.Category) != taxonomy.SlotNone {
		t.Fatalf("swimwear unexpectedly maps to %s", taxonomy.SlotFor(anchor.Category))
	}

	got := e.Generate(context.Background(), &Request{Pool: testPool(), Anchor: &anchor, Season: models.SeasonSummer})
	if len(got) == 0 {
		t.Fatal("Generate() returned no outfits")
	}
	for i, o := range got {
		if last := o.Items[len(o.Items)-1]; last.ID != "w1" {
			t.Errorf("outfit %d = %v, want anchor w1 as last item", i, comboKey(o.Items))
		}
		if countAnchors(o.Items) == 0 {
			t.Errorf("outfit %d has no top, bottom or shoes", i)
		}
	}

	described := e.Describe(context.Background(), []models.Product{anchor, testPool()[0]}, models.SeasonSummer)
	if described.Items[len(described.Items)-1].ID != "w1" {
		t.Errorf("Describe() order = %v, want unslotted item last", comboKey(described.Items))
	}
}

func TestGenerateFanOutBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 0
	cfg.TopN = 1000
	e := NewEngine(cfg, nil, zerolog.Nop())

	var pool []models.Product
	for i := 0; i < 10; i++ {
		pool = append(pool,
			product(fmt.Sprintf("t%d", i), "tops", "white", "casual"),
			product(fmt.Sprintf("b%d", i), "bottoms", "black", "casual"),
			product(fmt.Sprintf("s%d", i), "shoes", "black", "casual"),
			product(fmt.Sprintf("a%d", i), "bags", "tan", "casual"),
		)
	}
	got := e.Generate(context.Background(), &Request{Pool: pool, Season: models.SeasonSpring})
	// 5 tops x 5 bottoms x 3 shoes x (no accessory + 2 accessories)
	if want := 5 * 5 * 3 * 3; len(got) != want {
		t.Errorf("len = %d, want %d", len(got), want)
	}
}

func TestGenerateEmptyPool(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, zerolog.Nop())
	got := e.Generate(context.Background(), &Request{})
	if got == nil || len(got) != 0 {
		t.Errorf("Generate(empty) = %v, want empty non-nil", got)
	}
}

func TestReasoningBands(t *testing.T) {
	items := []models.Product{product("1", "tops", "white", "casual"), product("2", "bottoms", "red", "casual")}
	tests := []struct {
		score float64
		want  string
	}{
		{0.9, "Excellent harmony: these pieces work together effortlessly"},
		{0.7, "Good combination: minor adjustments could elevate the look"},
		{0.4, "Needs better coordination between pieces"},
	}
	for _, tt := range tests {
		if got := Reasoning(items, tt.score); got[0] != tt.want {
			t.Errorf("Reasoning(%v)[0] = %q, want %q", tt.score, got[0], tt.want)
		}
	}
}

func TestOccasions(t *testing.T) {
	tests := []struct {
		name      string
		formality int
		want      string
	}{
		{"formal", 5, "formal events"},
		{"business casual", 3, "business casual"},
		{"casual", 2, "casual outings"},
		{"leisure", 1, "leisure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []models.Product{{ID: "x", Category: "tops", Formality: tt.formality}}
			if got := Occasions(items); got[0] != tt.want {
				t.Errorf("Occasions() = %v, want first %q", got, tt.want)
			}
		})
	}
}
