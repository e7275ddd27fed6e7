// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/features"
	"github.com/tomtom215/stylist/internal/recommend/wardrobe"
)

// productScore is the per-product output of the parallel scoring stage.
type productScore struct {
	vector features.Vector
	base   float64
	compat float64
}

// scoreRequest is the shared read-only input of one scoring pass.
type scoreRequest struct {
	profile  *models.UserProfile
	context  string
	season   models.Season
	now      time.Time
	stats    *features.CatalogStats
	wardrobe []models.WardrobeItem

	// anchor, when set, is paired with every product for compatibility.
	anchor *models.Product
}

// GetPersonalizedRecommendations returns up to limit ranked candidates for
// userID. requestContext "outfit_completion" scores compatibility against
// the user's most worn item. A catalog failure is returned; no matches is an
// empty slice.
func (e *Engine) GetPersonalizedRecommendations(ctx context.Context, userID string, limit int, requestContext string) ([]models.RecommendationCandidate, error) {
	start := time.Now()
	limit = e.clampLimit(limit)
	logger := e.requestLogger(ctx, "recommendations").With().
		Str("user_id", userID).
		Str("context", requestContext).
		Logger()

	candidates, scanned, err := e.recommend(ctx, userID, limit, requestContext)
	metrics.RecordOperation("recommendations", time.Since(start), len(candidates), err)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("candidates", scanned).
		Int("returned", len(candidates)).
		Int("limit", limit).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")
	return candidates, nil
}

func (e *Engine) recommend(ctx context.Context, userID string, limit int, requestContext string) ([]models.RecommendationCandidate, int, error) {
	profile, err := e.Profile(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("load profile: %w", err)
	}

	products, err := e.catalog.GetProducts(ctx, models.ProductFilter{
		InStockOnly: true,
		Limit:       e.config.Limits.MaxCandidates,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("get products: %w", err)
	}
	if len(products) >= e.config.Limits.MaxCandidates {
		// The scan is ordered by ID, so later products are never considered.
		metrics.RecordCandidateTruncation()
		logger := e.requestLogger(ctx, "recommendations")
		logger.Debug().
			Int("max_candidates", e.config.Limits.MaxCandidates).
			Msg("catalog scan truncated at candidate cap")
	}

	now := e.now()
	req := &scoreRequest{
		profile: profile,
		context: requestContext,
		season:  models.SeasonAt(now),
		now:     now,
		stats:   features.NewCatalogStats(products),
	}

	if requestContext == features.ContextOutfitCompletion {
		known := make(map[string]*models.Product, len(products))
		for i := range products {
			known[products[i].ID] = &products[i]
		}
		req.wardrobe, req.anchor, err = e.wardrobeAnchor(ctx, userID, known, now)
		if err != nil {
			return nil, 0, err
		}
	}

	pool := excludeOwned(products, profile, req.anchor)
	if len(pool) == 0 {
		return []models.RecommendationCandidate{}, 0, nil
	}

	scores, err := e.scoreProducts(ctx, pool, req)
	if err != nil {
		return nil, 0, fmt.Errorf("score products: %w", err)
	}

	candidates := make([]models.RecommendationCandidate, 0, len(pool))
	for i := range pool {
		p := &pool[i]
		seasonalScore, trendScore := e.adjuster.Adjust(p.Category, req.season)
		breakdown := models.ScoreBreakdown{
			Base:          scores[i].base,
			Seasonal:      seasonalScore,
			Trend:         trendScore,
			Compatibility: scores[i].compat,
		}
		sig := signalsOf(&scores[i].vector, &breakdown, req.anchor != nil)
		candidates = append(candidates, models.RecommendationCandidate{
			Product:        *p,
			RelevanceScore: e.blend(&breakdown),
			Reasoning:      reasoningTags(p, profile, req, &sig),
			Category:       classify(&sig),
			Breakdown:      breakdown,
		})
	}

	return e.ranker.RankCandidates(candidates, limit), len(pool), nil
}

// blend combines the score components with the configured weights.
func (e *Engine) blend(b *models.ScoreBreakdown) float64 {
	w := e.config.Blend
	return features.Clamp(w.Base*b.Base + w.Seasonal*b.Seasonal + w.Trend*b.Trend + w.Compatibility*b.Compatibility)
}

// excludeOwned drops purchased products and the anchor from the pool.
func excludeOwned(products []models.Product, profile *models.UserProfile, anchor *models.Product) []models.Product {
	owned := make(map[string]struct{}, len(profile.History.Purchases)+1)
	for i := range profile.History.Purchases {
		owned[profile.History.Purchases[i].ProductID] = struct{}{}
	}
	if anchor != nil {
		owned[anchor.ID] = struct{}{}
	}
	if len(owned) == 0 {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for i := range products {
		if _, ok := owned[products[i].ID]; !ok {
			out = append(out, products[i])
		}
	}
	return out
}

// wardrobeAnchor infers the wardrobe of userID and picks its most worn item
// as the compatibility anchor. The anchor is nil for an empty wardrobe.
func (e *Engine) wardrobeAnchor(ctx context.Context, userID string, known map[string]*models.Product, now time.Time) ([]models.WardrobeItem, *models.Product, error) {
	items, products, err := e.inferWardrobe(ctx, userID, known, now)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return items, nil, nil
	}

	best := 0
	for i := 1; i < len(items); i++ {
		a, b := &items[i], &items[best]
		if a.WearFrequency > b.WearFrequency ||
			(a.WearFrequency == b.WearFrequency && a.ProductID < b.ProductID) {
			best = i
		}
	}
	return items, products[items[best].ProductID], nil
}

// inferWardrobe builds the wardrobe items of userID from order history.
func (e *Engine) inferWardrobe(ctx context.Context, userID string, known map[string]*models.Product, now time.Time) ([]models.WardrobeItem, map[string]*models.Product, error) {
	orders, err := e.catalog.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get orders: %w", err)
	}
	products, err := e.resolveOrderProducts(ctx, orders, known)
	if err != nil {
		return nil, nil, err
	}
	items := wardrobe.InferItems(orders, func(id string) (*models.Product, bool) {
		p, ok := products[id]
		return p, ok
	}, now)
	return items, products, nil
}

// scoreProducts builds feature vectors and scores them in parallel batches.
// Cancellation is observed at batch boundaries.
func (e *Engine) scoreProducts(ctx context.Context, products []models.Product, req *scoreRequest) ([]productScore, error) {
	results := make([]productScore, len(products))
	batchSize := e.config.Scoring.BatchSize

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.workers())

	for lo := 0; lo < len(products); lo += batchSize {
		if gctx.Err() != nil {
			break
		}
		hi := min(lo+batchSize, len(products))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.scoreBatch(gctx, products[lo:hi], results[lo:hi], req)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	metrics.RecordProductsScored(len(products))
	return results, nil
}

func (e *Engine) scoreBatch(ctx context.Context, products []models.Product, out []productScore, req *scoreRequest) {
	vectors := make([][]float64, len(products))
	for i := range products {
		out[i].vector = features.Build(&features.Input{
			Profile:    req.profile,
			Product:    &products[i],
			Context:    req.context,
			Season:     req.season,
			Now:        req.now,
			Stats:      req.stats,
			Trends:     e.adjuster,
			Wardrobe:   req.wardrobe,
			Extensions: e.extensions,
		})
		vectors[i] = out[i].vector.Slice()
	}

	base := e.scorer.ScoreBatch(ctx, vectors)
	for i := range out {
		out[i].base = features.Clamp(base[i])
		out[i].compat = 1
	}

	if req.anchor == nil {
		return
	}
	sets := make([][]models.Product, len(products))
	for i := range products {
		sets[i] = []models.Product{*req.anchor, products[i]}
	}
	compat := e.outfits.CompatibilityBatch(ctx, sets, req.season)
	for i := range out {
		out[i].compat = features.Clamp(compat[i])
	}
}

// topByScore returns indices of scores sorted descending, ties by ID.
func topByScore(ids []string, scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if sa != sb {
			return sa > sb
		}
		return ids[order[a]] < ids[order[b]]
	})
	return order
}
