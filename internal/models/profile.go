// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package models

import (
	"strings"
	"time"
)

// InteractionType classifies a user interaction.
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionPurchase InteractionType = "purchase"
	InteractionWishlist InteractionType = "wishlist"
	InteractionCart     InteractionType = "cart"
	InteractionTryOn    InteractionType = "try_on"
)

// ParseInteractionType normalizes an interaction type. Unknown values are treated as views.
func ParseInteractionType(s string) InteractionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "purchase", "buy", "order":
		return InteractionPurchase
	case "wishlist", "wishlist_add", "wishlist-add":
		return InteractionWishlist
	case "cart", "add_to_cart", "cart_add":
		return InteractionCart
	case "try_on", "tryon", "try-on":
		return InteractionTryOn
	default:
		return InteractionView
	}
}

// Weight is the relative strength of the interaction when building preferences.
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionPurchase:
		return 3.0
	case InteractionWishlist:
		return 2.0
	case InteractionCart:
		return 1.5
	case InteractionTryOn:
		return 1.5
	default:
		return 1.0
	}
}

// InteractionEvent is a single timestamped user signal about a product.
// Product attributes are denormalized so that the profile can be updated
// without a catalog round trip; empty attributes are resolved by the engine.
type InteractionEvent struct {
	ID        string          `json:"id,omitempty"`
	UserID    string          `json:"user_id" validate:"required"`
	ProductID string          `json:"product_id" validate:"required"`
	Type      InteractionType `json:"type"`
	Category  string          `json:"category,omitempty"`
	Brand     string          `json:"brand,omitempty"`
	Color     string          `json:"color,omitempty"`
	Style     string          `json:"style,omitempty"`
	Season    string          `json:"season,omitempty"`
	Price     float64         `json:"price,omitempty"`
	Context   string          `json:"context,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// InteractionHistory groups interaction events by kind, oldest first.
type InteractionHistory struct {
	Views     []InteractionEvent `json:"views,omitempty"`
	Purchases []InteractionEvent `json:"purchases,omitempty"`
	Wishlist  []InteractionEvent `json:"wishlist,omitempty"`
	Cart      []InteractionEvent `json:"cart,omitempty"`
	TryOns    []InteractionEvent `json:"try_ons,omitempty"`
}

// Append adds the event to the list matching its type.
func (h *InteractionHistory) Append(ev InteractionEvent) {
	switch ev.Type {
	case InteractionPurchase:
		h.Purchases = append(h.Purchases, ev)
	case InteractionWishlist:
		h.Wishlist = append(h.Wishlist, ev)
	case InteractionCart:
		h.Cart = append(h.Cart, ev)
	case InteractionTryOn:
		h.TryOns = append(h.TryOns, ev)
	default:
		h.Views = append(h.Views, ev)
	}
}

// All returns every event across all kinds.
func (h *InteractionHistory) All() []InteractionEvent {
	all := make([]InteractionEvent, 0, h.Len())
	all = append(all, h.Views...)
	all = append(all, h.Purchases...)
	all = append(all, h.Wishlist...)
	all = append(all, h.Cart...)
	all = append(all, h.TryOns...)
	return all
}

// Len returns the total number of events.
func (h *InteractionHistory) Len() int {
	return len(h.Views) + len(h.Purchases) + len(h.Wishlist) + len(h.Cart) + len(h.TryOns)
}

// Clone returns a deep copy of the history.
func (h *InteractionHistory) Clone() InteractionHistory {
	return InteractionHistory{
		Views:     append([]InteractionEvent(nil), h.Views...),
		Purchases: append([]InteractionEvent(nil), h.Purchases...),
		Wishlist:  append([]InteractionEvent(nil), h.Wishlist...),
		Cart:      append([]InteractionEvent(nil), h.Cart...),
		TryOns:    append([]InteractionEvent(nil), h.TryOns...),
	}
}

// PriceRange is an inclusive [Min, Max] range.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies inside the range.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// StyleProfile summarizes a user's learned preferences.
type StyleProfile struct {
	DominantStyle   string     `json:"dominant_style"`
	SecondaryStyles []string   `json:"secondary_styles,omitempty"`
	ColorPalette    []string   `json:"color_palette,omitempty"`
	PriceRange      PriceRange `json:"price_range"`

	// BrandAffinities maps brand to affinity in [0,1].
	BrandAffinities map[string]float64 `json:"brand_affinities,omitempty"`

	// CategoryPreferences maps category to preference weight in [0,1].
	CategoryPreferences map[string]float64 `json:"category_preferences,omitempty"`

	FormalityPreference int `json:"formality_preference"`
	Trendiness          int `json:"trendiness"`
}

// HasSecondaryStyle reports whether style is one of the secondary styles.
func (s *StyleProfile) HasSecondaryStyle(style string) bool {
	for _, st := range s.SecondaryStyles {
		if strings.EqualFold(st, style) {
			return true
		}
	}
	return false
}

// HasColor reports whether color is part of the palette.
func (s *StyleProfile) HasColor(color string) bool {
	for _, c := range s.ColorPalette {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

// SeasonPreference is the per-season bias of a user.
type SeasonPreference struct {
	// CategoryWeights maps category to weight in [0,1] for this season.
	CategoryWeights map[string]float64 `json:"category_weights,omitempty"`
	PreferredColors []string           `json:"preferred_colors,omitempty"`
	PreferredStyles []string           `json:"preferred_styles,omitempty"`
}

// SeasonalPreferences maps each season to its preference.
type SeasonalPreferences map[Season]SeasonPreference

// UserProfile is the cached, per-user aggregate used for scoring.
type UserProfile struct {
	UserID    string              `json:"user_id"`
	Style     StyleProfile        `json:"style"`
	History   InteractionHistory  `json:"history"`
	Seasonal  SeasonalPreferences `json:"seasonal"`
	BuiltAt   time.Time           `json:"built_at"`
	IsDefault bool                `json:"is_default"`
}

// Clone returns a deep copy so that cached profiles can be updated copy-on-write.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Style.SecondaryStyles = append([]string(nil), p.Style.SecondaryStyles...)
	out.Style.ColorPalette = append([]string(nil), p.Style.ColorPalette...)
	out.Style.BrandAffinities = cloneWeights(p.Style.BrandAffinities)
	out.Style.CategoryPreferences = cloneWeights(p.Style.CategoryPreferences)
	out.History = p.History.Clone()
	if p.Seasonal != nil {
		out.Seasonal = make(SeasonalPreferences, len(p.Seasonal))
		for season, pref := range p.Seasonal {
			out.Seasonal[season] = SeasonPreference{
				CategoryWeights: cloneWeights(pref.CategoryWeights),
				PreferredColors: append([]string(nil), pref.PreferredColors...),
				PreferredStyles: append([]string(nil), pref.PreferredStyles...),
			}
		}
	}
	return &out
}

func cloneWeights(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
