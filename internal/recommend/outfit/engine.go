// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

// Package outfit scores combinations of garments for compatibility and
// generates outfit recommendations from a candidate pool.
package outfit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/scoring"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// Config bounds outfit generation.
type Config struct {
	// Threshold is the minimum compatibility score of a returned outfit.
	Threshold float64 `koanf:"threshold"`

	// TopN is the maximum number of outfits returned.
	TopN int `koanf:"top_n"`

	// Fan-out per anchor slot.
	TopsFanOut      int `koanf:"tops_fan_out"`
	BottomsFanOut   int `koanf:"bottoms_fan_out"`
	ShoesFanOut     int `koanf:"shoes_fan_out"`
	AccessoryFanOut int `koanf:"accessory_fan_out"`
}

// DefaultConfig returns the generation defaults: top-5 tops, top-5 bottoms,
// top-3 shoes, two accessory variants, threshold 0.6, ten results.
func DefaultConfig() Config {
	return Config{
		Threshold:       0.6,
		TopN:            10,
		TopsFanOut:      5,
		BottomsFanOut:   5,
		ShoesFanOut:     3,
		AccessoryFanOut: 2,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("outfit.threshold must be in [0, 1], got %f", c.Threshold)
	}
	if c.TopN < 1 {
		return fmt.Errorf("outfit.top_n must be positive, got %d", c.TopN)
	}
	if c.TopsFanOut < 1 || c.BottomsFanOut < 1 || c.ShoesFanOut < 1 {
		return fmt.Errorf("outfit fan-out must be positive, got %d/%d/%d", c.TopsFanOut, c.BottomsFanOut, c.ShoesFanOut)
	}
	if c.AccessoryFanOut < 0 {
		return fmt.Errorf("outfit.accessory_fan_out must be non-negative, got %d", c.AccessoryFanOut)
	}
	return nil
}

// NewHeuristic returns the outfit fallback scorer: 0.5 plus bonuses for a
// neutral base, aesthetic cohesion and color harmony.
func NewHeuristic() *scoring.WeightedSum {
	return scoring.NewWeightedSum("outfit_heuristic", 0.5,
		scoring.Term{Index: DimNeutralBase, Weight: 0.2},
		scoring.Term{Index: DimAestheticCohesion, Weight: 0.2},
		scoring.Term{Index: DimColorHarmony, Weight: 0.1},
	)
}

// Request is an outfit generation request.
type Request struct {
	// Pool is the candidate garments.
	Pool []models.Product

	// Anchor, when set, appears in every combination and fixes its slot.
	Anchor *models.Product

	// Season drives the seasonal appropriateness dimensions.
	Season models.Season
}

// Engine scores and generates outfits. It is safe for concurrent use.
type Engine struct {
	cfg    Config
	scorer scoring.Scorer
	logger zerolog.Logger
}

// NewEngine creates an outfit engine. A nil scorer selects NewHeuristic.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, scorer scoring.Scorer, logger zerolog.Logger) *Engine {
	if scorer == nil {
		scorer = NewHeuristic()
	}
	return &Engine{
		cfg:    cfg,
		scorer: scorer,
		logger: logger.With().Str("component", "outfit").Logger(),
	}
}

// Compatibility returns the compatibility score of items in [0,1]. It is
// invariant to the order of items.
func (e *Engine) Compatibility(ctx context.Context, items []models.Product, season models.Season) float64 {
	return scoring.Score(ctx, e.scorer, Vector(items, season))
}

// CompatibilityBatch scores several item sets with one scorer call.
func (e *Engine) CompatibilityBatch(ctx context.Context, sets [][]models.Product, season models.Season) []float64 {
	if len(sets) == 0 {
		return []float64{}
	}
	vectors := make([][]float64, len(sets))
	for i := range sets {
		vectors[i] = Vector(sets[i], season)
	}
	return e.scorer.ScoreBatch(ctx, vectors)
}

// Generate enumerates bounded combinations from the pool, scores them in one
// batch and returns at most TopN outfits scoring above the threshold, best first.
func (e *Engine) Generate(ctx context.Context, req *Request) []models.OutfitCombination {
	combos := e.enumerate(req)
	if len(combos) == 0 {
		return []models.OutfitCombination{}
	}

	vectors := make([][]float64, len(combos))
	for i, c := range combos {
		vectors[i] = Vector(c, req.Season)
	}
	scores := e.scorer.ScoreBatch(ctx, vectors)

	out := make([]models.OutfitCombination, 0, len(combos))
	for i, items := range combos {
		if scores[i] <= e.cfg.Threshold {
			continue
		}
		out = append(out, e.describe(items, scores[i]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CompatibilityScore != out[j].CompatibilityScore {
			return out[i].CompatibilityScore > out[j].CompatibilityScore
		}
		return comboKey(out[i].Items) < comboKey(out[j].Items)
	})
	if len(out) > e.cfg.TopN {
		out = out[:e.cfg.TopN]
	}

	e.logger.Debug().
		Int("pool", len(req.Pool)).
		Int("combinations", len(combos)).
		Int("returned", len(out)).
		Msg("outfits generated")
	return out
}

// Describe scores items and attaches reasoning and occasions.
func (e *Engine) Describe(ctx context.Context, items []models.Product, season models.Season) models.OutfitCombination {
	return e.describe(orderItems(items), e.Compatibility(ctx, items, season))
}

func (e *Engine) describe(items []models.Product, score float64) models.OutfitCombination {
	return models.OutfitCombination{
		Items:                items,
		CompatibilityScore:   score,
		StyleReasoning:       Reasoning(items, score),
		RecommendedOccasions: Occasions(items),
	}
}

// enumerate builds the candidate combinations, each ordered top, bottom,
// shoes, accessory. An anchor outside every slot is appended to each
// combination as an extra item.
func (e *Engine) enumerate(req *Request) [][]models.Product {
	slots := partition(req.Pool, req.Anchor)

	tops := topN(slots[taxonomy.SlotTop], e.cfg.TopsFanOut)
	bottoms := topN(slots[taxonomy.SlotBottom], e.cfg.BottomsFanOut)
	shoes := topN(slots[taxonomy.SlotShoes], e.cfg.ShoesFanOut)
	accessories := topN(slots[taxonomy.SlotAccessory], e.cfg.AccessoryFanOut)

	anchorSlot := taxonomy.SlotNone
	var extra []models.Product
	if req.Anchor != nil {
		anchorSlot = taxonomy.SlotFor(req.Anchor.Category)
		switch anchorSlot {
		case taxonomy.SlotTop:
			tops = []models.Product{*req.Anchor}
		case taxonomy.SlotBottom:
			bottoms = []models.Product{*req.Anchor}
		case taxonomy.SlotShoes:
			shoes = []models.Product{*req.Anchor}
		case taxonomy.SlotAccessory:
			accessories = []models.Product{*req.Anchor}
		default:
			extra = []models.Product{*req.Anchor}
		}
	}

	// Accessory variants: none, then each accessory. An anchored accessory is mandatory.
	variants := [][]models.Product{nil}
	if anchorSlot == taxonomy.SlotAccessory {
		variants = variants[:0]
	}
	for i := range accessories {
		variants = append(variants, []models.Product{accessories[i]})
	}

	var combos [][]models.Product
	for _, t := range optional(tops) {
		for _, b := range optional(bottoms) {
			for _, s := range optional(shoes) {
				base := make([]models.Product, 0, 4)
				base = append(base, t...)
				base = append(base, b...)
				base = append(base, s...)
				for _, acc := range variants {
					if countAnchors(base) == 0 {
						continue
					}
					items := make([]models.Product, 0, len(base)+len(acc)+len(extra))
					items = append(items, base...)
					items = append(items, acc...)
					items = append(items, extra...)
					if len(items) < 2 {
						continue
					}
					combos = append(combos, items)
				}
			}
		}
	}
	return combos
}

// partition buckets the pool by slot, removing the anchor and duplicates.
func partition(pool []models.Product, anchor *models.Product) map[taxonomy.Slot][]models.Product {
	out := make(map[taxonomy.Slot][]models.Product)
	seen := make(map[string]struct{}, len(pool))
	if anchor != nil {
		seen[anchor.ID] = struct{}{}
	}
	for i := range pool {
		p := pool[i]
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		slot := taxonomy.SlotFor(p.Category)
		if slot == taxonomy.SlotNone {
			continue
		}
		out[slot] = append(out[slot], p)
	}
	return out
}

// topN keeps the n best items by rating, then featured, then ID.
func topN(items []models.Product, n int) []models.Product {
	sorted := append([]models.Product(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		if sorted[i].Featured != sorted[j].Featured {
			return sorted[i].Featured
		}
		return sorted[i].ID < sorted[j].ID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// optional turns a slot's candidates into choices, or a single empty choice
// when the slot has no candidates.
func optional(items []models.Product) [][]models.Product {
	if len(items) == 0 {
		return [][]models.Product{nil}
	}
	out := make([][]models.Product, len(items))
	for i := range items {
		out[i] = []models.Product{items[i]}
	}
	return out
}

func countAnchors(items []models.Product) int {
	n := 0
	for i := range items {
		switch taxonomy.SlotFor(items[i].Category) {
		case taxonomy.SlotTop, taxonomy.SlotBottom, taxonomy.SlotShoes:
			n++
		}
	}
	return n
}

// orderItems sorts items top, bottom, shoes, accessory, unslotted, then by ID.
func orderItems(items []models.Product) []models.Product {
	out := append([]models.Product(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := slotRank(out[i].Category), slotRank(out[j].Category)
		if si != sj {
			return si < sj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func slotRank(category string) int {
	if s := taxonomy.SlotFor(category); s != taxonomy.SlotNone {
		return int(s)
	}
	return int(taxonomy.SlotAccessory) + 1
}

func comboKey(items []models.Product) string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return strings.Join(ids, "|")
}
