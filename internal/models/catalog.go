// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package models

import (
	"strings"
	"time"
)

// Product is a catalog item. Colors and Style are lower-case tags.
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Brand    string   `json:"brand"`
	Colors   []string `json:"colors"`
	Style    string   `json:"style"`
	Season   string   `json:"season"`
	Rating   float64  `json:"rating"`
	Stock    int      `json:"stock"`
	Featured bool     `json:"featured"`

	// Formality overrides the category formality when set (1..5, 0 = unset).
	Formality int `json:"formality,omitempty"`

	// DiscountPercent is the active markdown in percent (0..100).
	DiscountPercent float64 `json:"discount_percent,omitempty"`

	Sizes     []string  `json:"sizes,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PrimaryColor returns the first color tag, or "" when the product has none.
func (p *Product) PrimaryColor() string {
	if len(p.Colors) == 0 {
		return ""
	}
	return p.Colors[0]
}

// InStock reports whether the product can be sold.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// HasColor reports whether the product carries the given color tag.
func (p *Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

// Order is a completed purchase.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem is one line of an order. Price is the unit price paid.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// User is an account known to the catalog.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductFilter selects products from the catalog. Zero values mean "no constraint".
type ProductFilter struct {
	Categories  []string `json:"categories,omitempty"`
	Season      string   `json:"season,omitempty"`
	MinPrice    float64  `json:"min_price,omitempty"`
	MaxPrice    float64  `json:"max_price,omitempty"`
	InStockOnly bool     `json:"in_stock_only,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

// Matches reports whether p satisfies every constraint of the filter except Limit.
func (f *ProductFilter) Matches(p *Product) bool {
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if strings.EqualFold(c, p.Category) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Season != "" && !strings.EqualFold(f.Season, p.Season) {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.InStockOnly && !p.InStock() {
		return false
	}
	return true
}
