// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package scoring

import (
	"context"

	"github.com/tomtom215/stylist/internal/recommend/features"
)

// Scorer maps feature vectors to probabilities in [0,1]. ScoreBatch returns
// exactly one score per input vector and never fails.
type Scorer interface {
	Name() string
	ScoreBatch(ctx context.Context, vectors [][]float64) []float64
}

// Score scores a single vector with s.
func Score(ctx context.Context, s Scorer, vector []float64) float64 {
	return s.ScoreBatch(ctx, [][]float64{vector})[0]
}

// Term is one weighted dimension of a WeightedSum.
type Term struct {
	Index  int
	Weight float64
}

// WeightedSum is a deterministic linear scorer: Base + sum(Weight * v[Index]),
// clamped to [0,1]. Missing dimensions contribute 0.
type WeightedSum struct {
	name  string
	base  float64
	terms []Term
}

var _ Scorer = (*WeightedSum)(nil)

// NewWeightedSum creates a weighted-sum scorer.
func NewWeightedSum(name string, base float64, terms ...Term) *WeightedSum {
	return &WeightedSum{name: name, base: base, terms: append([]Term(nil), terms...)}
}

// NewProductHeuristic returns the product fallback over style match, color
// match, price fit and rating.
func NewProductHeuristic() *WeightedSum {
	return NewWeightedSum("product_heuristic", 0,
		Term{Index: features.DimStyleMatch, Weight: 0.35},
		Term{Index: features.DimColorMatch, Weight: 0.25},
		Term{Index: features.DimPriceFit, Weight: 0.20},
		Term{Index: features.DimNormalizedRating, Weight: 0.20},
	)
}

// Name returns the scorer identifier.
func (w *WeightedSum) Name() string {
	return w.name
}

// ScoreVector scores one vector.
func (w *WeightedSum) ScoreVector(v []float64) float64 {
	s := w.base
	for _, t := range w.terms {
		if t.Index >= 0 && t.Index < len(v) {
			s += t.Weight * v[t.Index]
		}
	}
	return features.Clamp(s)
}

// ScoreBatch scores each vector independently.
func (w *WeightedSum) ScoreBatch(_ context.Context, vectors [][]float64) []float64 {
	out := make([]float64, len(vectors))
	for i, v := range vectors {
		out[i] = w.ScoreVector(v)
	}
	return out
}
