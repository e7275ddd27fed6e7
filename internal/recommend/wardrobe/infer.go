// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package wardrobe

import (
	"math"
	"sort"
	"time"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
)

// ProductLookup resolves a product by ID from a catalog snapshot.
type ProductLookup func(id string) (*models.Product, bool)

// InferItems derives the wardrobe from purchase orders. Each purchased unit
// becomes one item. Wear frequency and last-worn date are approximations from
// purchase recency: newer purchases are assumed to be worn more often, decaying
// linearly from three wears per week to a floor of one wear every four weeks
// after a year. The result is deterministic for a fixed set of orders, catalog
// snapshot and now.
func InferItems(orders []models.Order, lookup ProductLookup, now time.Time) []models.WardrobeItem {
	sorted := append([]models.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	items := make([]models.WardrobeItem, 0)
	for _, order := range sorted {
		for _, line := range order.Items {
			p, ok := lookup(line.ProductID)
			if !ok || p == nil {
				continue
			}
			units := line.Quantity
			if units < 1 {
				units = 1
			}
			item := newItem(p, order.CreatedAt, now)
			for u := 0; u < units; u++ {
				items = append(items, item)
			}
		}
	}
	return items
}

func newItem(p *models.Product, purchasedAt, now time.Time) models.WardrobeItem {
	freq := WearFrequency(purchasedAt, now)
	lastWorn := now.Add(-time.Duration(7 / freq * float64(24*time.Hour)))
	if lastWorn.Before(purchasedAt) {
		lastWorn = purchasedAt
	}
	return models.WardrobeItem{
		ProductID:     p.ID,
		Category:      taxonomy.NormalizeCategory(p.Category),
		Color:         taxonomy.NormalizeColor(p.PrimaryColor()),
		Style:         p.Style,
		Season:        models.ParseSeason(p.Season),
		WearFrequency: freq,
		LastWorn:      lastWorn,
		PurchasedAt:   purchasedAt,
	}
}

// WearFrequency estimates wears per week from purchase age.
func WearFrequency(purchasedAt, now time.Time) float64 {
	ageDays := now.Sub(purchasedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Max(0.25, 3*(1-ageDays/365))
}
