// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

// Package wardrobe analyzes a user's inferred wardrobe: it detects essential
// and seasonal gaps, suggests gap-filling products and computes aggregate
// versatility, seasonal balance and color harmony metrics.
package wardrobe

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/features"
	"github.com/tomtom215/stylist/internal/recommend/reranking"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// Gap reasons.
const (
	ReasonMissing        = "missing essential category"
	ReasonLimitedVariety = "limited variety"
)

// Config holds gap detection thresholds.
type Config struct {
	// MinPerEssential is the owned count below which an essential category is a gap.
	MinPerEssential int `koanf:"min_per_essential"`

	// SeasonalMinimum is the in-season item count below which a seasonal gap is added.
	SeasonalMinimum int `koanf:"seasonal_minimum"`

	// SeasonalSeverity is the severity of the seasonal gap.
	SeasonalSeverity int `koanf:"seasonal_severity"`

	// SuggestionsPerGap is the number of gap-filling candidates per gap.
	SuggestionsPerGap int `koanf:"suggestions_per_gap"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinPerEssential:   3,
		SeasonalMinimum:   5,
		SeasonalSeverity:  4,
		SuggestionsPerGap: 3,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MinPerEssential < 1 {
		return fmt.Errorf("wardrobe.min_per_essential must be positive, got %d", c.MinPerEssential)
	}
	if c.SeasonalMinimum < 0 {
		return fmt.Errorf("wardrobe.seasonal_minimum must be non-negative, got %d", c.SeasonalMinimum)
	}
	if c.SeasonalSeverity < 1 || c.SeasonalSeverity > 5 {
		return fmt.Errorf("wardrobe.seasonal_severity must be in [1, 5], got %d", c.SeasonalSeverity)
	}
	if c.SuggestionsPerGap < 1 {
		return fmt.Errorf("wardrobe.suggestions_per_gap must be positive, got %d", c.SuggestionsPerGap)
	}
	return nil
}

// Severity is the urgency of an essential gap: max(0, 5 - owned).
func Severity(owned int) int {
	if owned >= 5 {
		return 0
	}
	if owned < 0 {
		return 5
	}
	return 5 - owned
}

// Input is the data one analysis needs.
type Input struct {
	UserID string

	// Profile drives the gap-filling score. Nil uses an empty profile.
	Profile *models.UserProfile

	Items      []models.WardrobeItem
	Candidates []models.Product
	Season     models.Season
	Now        time.Time
}

// Analyzer detects wardrobe gaps. It is stateless and safe for concurrent use.
type Analyzer struct {
	cfg    Config
	ranker *reranking.DiversityRanker
	logger zerolog.Logger
}

// NewAnalyzer creates an analyzer that requests suggestions from ranker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAnalyzer(cfg Config, ranker *reranking.DiversityRanker, logger zerolog.Logger) *Analyzer {
	if ranker == nil {
		ranker = reranking.NewDiversityRanker(reranking.DefaultCap)
	}
	return &Analyzer{
		cfg:    cfg,
		ranker: ranker,
		logger: logger.With().Str("component", "wardrobe").Logger(),
	}
}

// Analyze computes gaps, suggestions and aggregate metrics.
func (a *Analyzer) Analyze(in *Input) *models.WardrobeAnalysis {
	profile := in.Profile
	if profile == nil {
		profile = &models.UserProfile{UserID: in.UserID}
	}
	season := in.Season
	if season == "" || season == models.SeasonAll {
		season = models.SeasonAt(in.Now)
	}

	owned := make(map[string]struct{}, len(in.Items))
	counts := make(map[string]int)
	inSeason := 0
	for i := range in.Items {
		owned[in.Items[i].ProductID] = struct{}{}
		counts[taxonomy.NormalizeCategory(in.Items[i].Category)]++
		if in.Items[i].Season.Matches(season) {
			inSeason++
		}
	}

	gaps := make([]models.CategoryGap, 0, len(taxonomy.EssentialCategories)+1)
	for _, cat := range taxonomy.EssentialCategories {
		n := counts[cat]
		if n >= a.cfg.MinPerEssential {
			continue
		}
		reason := ReasonLimitedVariety
		if n == 0 {
			reason = ReasonMissing
		}
		gaps = append(gaps, models.CategoryGap{
			Category:   cat,
			Kind:       models.GapEssential,
			Severity:   Severity(n),
			Reason:     reason,
			OwnedCount: n,
		})
	}
	if len(in.Items) > 0 && inSeason < a.cfg.SeasonalMinimum {
		cat := seasonalCategory(season)
		gaps = append(gaps, models.CategoryGap{
			Category:   cat,
			Kind:       models.GapSeasonal,
			Severity:   a.cfg.SeasonalSeverity,
			Reason:     fmt.Sprintf("only %d items suited to %s", inSeason, season),
			OwnedCount: inSeason,
		})
	}

	var all []models.ScoredProduct
	for i := range gaps {
		scored := a.gapCandidates(&gaps[i], in.Candidates, owned, profile, season)
		top := a.ranker.Rank(scored, a.cfg.SuggestionsPerGap)
		gaps[i].SuggestedItems = make([]models.Product, len(top))
		for j := range top {
			gaps[i].SuggestedItems[j] = top[j].Product
		}
		all = append(all, top...)
	}

	analysis := &models.WardrobeAnalysis{
		UserID:           in.UserID,
		Items:            in.Items,
		Gaps:             gaps,
		Recommendations:  a.ranker.Rank(dedupe(all), len(all)),
		VersatilityScore: versatility(counts, a.cfg.MinPerEssential),
		SeasonalBalance:  SeasonalBalance(in.Items),
		ColorHarmony:     ColorHarmony(in.Items),
		Season:           season,
		AnalyzedAt:       in.Now,
	}
	if analysis.Items == nil {
		analysis.Items = []models.WardrobeItem{}
	}

	a.logger.Debug().
		Str("user_id", in.UserID).
		Int("items", len(in.Items)).
		Int("gaps", len(gaps)).
		Int("recommendations", len(analysis.Recommendations)).
		Msg("wardrobe analyzed")
	return analysis
}

// gapCandidates scores unowned, in-stock products in the gap's category.
func (a *Analyzer) gapCandidates(gap *models.CategoryGap, pool []models.Product, owned map[string]struct{}, profile *models.UserProfile, season models.Season) []models.ScoredProduct {
	out := make([]models.ScoredProduct, 0)
	for i := range pool {
		p := &pool[i]
		if _, ok := owned[p.ID]; ok || !p.InStock() {
			continue
		}
		if taxonomy.NormalizeCategory(p.Category) != gap.Category {
			continue
		}
		if gap.Kind == models.GapSeasonal && !models.ParseSeason(p.Season).Matches(season) {
			continue
		}
		out = append(out, models.ScoredProduct{Product: *p, Score: GapFillScore(profile, p, gap.Category)})
	}
	return out
}

// GapFillScore is the gap-filling score of p for category.
func GapFillScore(profile *models.UserProfile, p *models.Product, category string) float64 {
	score := 0.5
	if taxonomy.NormalizeCategory(p.Category) == taxonomy.NormalizeCategory(category) {
		score += 0.3
	}
	if features.StyleMatch(&profile.Style, p.Style) > 0.7 {
		score += 0.2
	}
	if features.PriceFit(profile.Style.PriceRange, p.Price) > 0.6 {
		score += 0.1
	}
	score += 0.1 * features.Versatility(p)
	if p.Rating > 4 {
		score += 0.1
	}
	return features.Clamp(score)
}

// seasonalCategory picks the essential category most relevant in season.
func seasonalCategory(season models.Season) string {
	best, bestRel := taxonomy.EssentialCategories[0], -1.0
	for _, cat := range taxonomy.EssentialCategories {
		if rel := taxonomy.SeasonRelevance(cat, season); rel > bestRel {
			best, bestRel = cat, rel
		}
	}
	return best
}

func dedupe(items []models.ScoredProduct) []models.ScoredProduct {
	idx := make(map[string]int, len(items))
	out := make([]models.ScoredProduct, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.Product.ID]; ok {
			if it.Score > out[i].Score {
				out[i] = it
			}
			continue
		}
		idx[it.Product.ID] = len(out)
		out = append(out, it)
	}
	return out
}
