// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package recommend

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/features"
)

// productVector is a cached product-intrinsic vector.
type productVector struct {
	fingerprint uint64
	vector      []float64
}

// GetSimilarProducts returns up to limit in-stock products most similar to
// productID by cosine similarity of product-intrinsic vectors. An unknown
// product yields an empty slice.
func (e *Engine) GetSimilarProducts(ctx context.Context, productID string, limit int) ([]models.Product, error) {
	start := time.Now()
	limit = e.clampLimit(limit)
	logger := e.requestLogger(ctx, "similar").With().Str("product_id", productID).Logger()

	similar, err := e.similar(ctx, productID, limit)
	metrics.RecordOperation("similar", time.Since(start), len(similar), err)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("returned", len(similar)).
		Dur("latency", time.Since(start)).
		Msg("similar products complete")
	return similar, nil
}

func (e *Engine) similar(ctx context.Context, productID string, limit int) ([]models.Product, error) {
	base, err := e.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	if base == nil {
		return []models.Product{}, nil
	}

	products, err := e.catalog.GetProducts(ctx, models.ProductFilter{
		InStockOnly: true,
		Limit:       e.config.Limits.MaxCandidates,
	})
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	stats := features.NewCatalogStats(products)
	statsKey := statsFingerprint(stats, len(products))
	target := e.intrinsicVector(base, stats, statsKey)

	others := make([]models.Product, 0, len(products))
	ids := make([]string, 0, len(products))
	scores := make([]float64, 0, len(products))
	for i := range products {
		p := &products[i]
		if p.ID == base.ID {
			continue
		}
		if i%e.config.Scoring.BatchSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		others = append(others, *p)
		ids = append(ids, p.ID)
		scores = append(scores, features.CosineSimilarity(target, e.intrinsicVector(p, stats, statsKey)))
	}
	metrics.SetCacheEntries("product_features", e.productCache.Len())

	order := topByScore(ids, scores)
	n := min(limit, len(order))
	out := make([]models.Product, 0, n)
	for _, idx := range order[:n] {
		out = append(out, others[idx])
	}
	return out, nil
}

// intrinsicVector returns the cached vector of p, rebuilding it when the
// product or the catalog statistics changed.
func (e *Engine) intrinsicVector(p *models.Product, stats *features.CatalogStats, statsKey uint64) []float64 {
	fp := productFingerprint(p) ^ statsKey
	if cached, ok := e.productCache.Get(p.ID); ok && cached.fingerprint == fp {
		metrics.RecordCacheLookup("product_features", "memory", true)
		return cached.vector
	}
	metrics.RecordCacheLookup("product_features", "memory", false)
	v := features.IntrinsicVector(p, stats)
	e.productCache.Set(p.ID, productVector{fingerprint: fp, vector: v})
	return v
}

// productFingerprint hashes the attributes IntrinsicVector reads.
func productFingerprint(p *models.Product) uint64 {
	h := fnv.New64a()
	parts := []string{
		p.Category, p.Style, p.Season, p.Brand,
		strings.Join(p.Colors, ","),
		strconv.FormatFloat(p.Price, 'f', 2, 64),
		strconv.FormatFloat(p.Rating, 'f', 2, 64),
		strconv.Itoa(p.Formality),
		strconv.Itoa(p.Stock),
	}
	for _, s := range parts {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// statsFingerprint hashes the catalog aggregates used for normalization.
func statsFingerprint(stats *features.CatalogStats, n int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	bits := math.Float64bits(stats.MaxPrice)
	for i := range buf {
		buf[i] = byte(bits >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(strconv.Itoa(n)))
	return h.Sum64()
}
