// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/outfit"
	"github.com/tomtom215/stylist/internal/recommend/wardrobe"
)

// GenerateOutfitRecommendations returns compatible combinations drawn from
// pool. When anchor is set every combination contains it. No compatible
// combination yields an empty slice.
func (e *Engine) GenerateOutfitRecommendations(ctx context.Context, pool []models.Product, anchor *models.Product) ([]models.OutfitCombination, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	combos := e.outfits.Generate(ctx, &outfit.Request{
		Pool:   pool,
		Anchor: anchor,
		Season: models.SeasonAt(e.now()),
	})
	if err := ctx.Err(); err != nil {
		metrics.RecordOperation("outfits", time.Since(start), 0, err)
		return nil, err
	}
	metrics.RecordOperation("outfits", time.Since(start), len(combos), nil)

	logger := e.requestLogger(ctx, "outfits")
	logger.Debug().
		Int("pool", len(pool)).
		Bool("anchored", anchor != nil).
		Int("returned", len(combos)).
		Dur("latency", time.Since(start)).
		Msg("outfit generation complete")
	return combos, nil
}

// GenerateOutfitsFromCatalog resolves productIDs and anchorID through the
// catalog and generates outfits. An empty productIDs draws the pool from the
// in-stock catalog. Unknown IDs are skipped.
func (e *Engine) GenerateOutfitsFromCatalog(ctx context.Context, productIDs []string, anchorID string) ([]models.OutfitCombination, error) {
	var pool []models.Product
	if len(productIDs) == 0 {
		products, err := e.catalog.GetProducts(ctx, models.ProductFilter{
			InStockOnly: true,
			Limit:       e.config.Limits.MaxCandidates,
		})
		if err != nil {
			return nil, fmt.Errorf("get products: %w", err)
		}
		pool = products
	} else {
		pool = make([]models.Product, 0, len(productIDs))
		for _, id := range productIDs {
			p, err := e.catalog.GetProductByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("get product %s: %w", id, err)
			}
			if p != nil {
				pool = append(pool, *p)
			}
		}
	}

	var anchor *models.Product
	if anchorID != "" {
		p, err := e.catalog.GetProductByID(ctx, anchorID)
		if err != nil {
			return nil, fmt.Errorf("get product %s: %w", anchorID, err)
		}
		anchor = p
	}
	return e.GenerateOutfitRecommendations(ctx, pool, anchor)
}

// AnalyzeWardrobe infers the wardrobe of userID from purchase history and
// reports gaps, gap-filling suggestions and aggregate metrics.
func (e *Engine) AnalyzeWardrobe(ctx context.Context, userID string) (*models.WardrobeAnalysis, error) {
	start := time.Now()
	logger := e.requestLogger(ctx, "wardrobe").With().Str("user_id", userID).Logger()

	analysis, err := e.analyzeWardrobe(ctx, userID)
	if err != nil {
		metrics.RecordOperation("wardrobe", time.Since(start), 0, err)
		return nil, err
	}
	metrics.RecordOperation("wardrobe", time.Since(start), len(analysis.Gaps), nil)

	logger.Debug().
		Int("items", len(analysis.Items)).
		Int("gaps", len(analysis.Gaps)).
		Int("suggestions", len(analysis.Recommendations)).
		Dur("latency", time.Since(start)).
		Msg("wardrobe analysis complete")
	return analysis, nil
}

func (e *Engine) analyzeWardrobe(ctx context.Context, userID string) (*models.WardrobeAnalysis, error) {
	profile, err := e.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	candidates, err := e.catalog.GetProducts(ctx, models.ProductFilter{
		InStockOnly: true,
		Limit:       e.config.Limits.MaxCandidates,
	})
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	known := make(map[string]*models.Product, len(candidates))
	for i := range candidates {
		known[candidates[i].ID] = &candidates[i]
	}

	now := e.now()
	items, _, err := e.inferWardrobe(ctx, userID, known, now)
	if err != nil {
		return nil, err
	}

	return e.analyzer.Analyze(&wardrobe.Input{
		UserID:     userID,
		Profile:    profile,
		Items:      items,
		Candidates: candidates,
		Season:     models.SeasonAt(now),
		Now:        now,
	}), nil
}
