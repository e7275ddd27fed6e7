// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

// Package taxonomy holds the garment vocabulary shared by the feature builder,
// the outfit engine and the wardrobe analyzer: categories, anchor slots,
// formality, seasonal relevance, and color relationships.
package taxonomy

import (
	"strings"

	"github.com/tomtom215/stylist/internal/models"
)

// Garment categories.
const (
	CategoryTops        = "tops"
	CategoryBottoms     = "bottoms"
	CategoryShoes       = "shoes"
	CategoryOuterwear   = "outerwear"
	CategoryDresses     = "dresses"
	CategoryAccessories = "accessories"
	CategoryBags        = "bags"
	CategoryJewelry     = "jewelry"
	CategoryActivewear  = "activewear"
	CategorySuits       = "suits"
)

// EssentialCategories are the categories every wardrobe is expected to cover.
var EssentialCategories = []string{CategoryTops, CategoryBottoms, CategoryShoes, CategoryOuterwear}

// Categories lists every canonical category.
var Categories = []string{
	CategoryTops, CategoryBottoms, CategoryShoes, CategoryOuterwear, CategoryDresses,
	CategoryAccessories, CategoryBags, CategoryJewelry, CategoryActivewear, CategorySuits,
}

// Slot is the outfit position a category fills.
type Slot int

const (
	SlotNone Slot = iota
	SlotTop
	SlotBottom
	SlotShoes
	SlotAccessory
)

// String implements fmt.Stringer.
func (s Slot) String() string {
	switch s {
	case SlotTop:
		return "top"
	case SlotBottom:
		return "bottom"
	case SlotShoes:
		return "shoes"
	case SlotAccessory:
		return "accessory"
	default:
		return "none"
	}
}

var categoryAliases = map[string]string{
	"top":        CategoryTops,
	"shirts":     CategoryTops,
	"shirt":      CategoryTops,
	"t-shirts":   CategoryTops,
	"blouses":    CategoryTops,
	"sweaters":   CategoryTops,
	"knitwear":   CategoryTops,
	"bottom":     CategoryBottoms,
	"pants":      CategoryBottoms,
	"trousers":   CategoryBottoms,
	"jeans":      CategoryBottoms,
	"skirts":     CategoryBottoms,
	"shorts":     CategoryBottoms,
	"shoe":       CategoryShoes,
	"footwear":   CategoryShoes,
	"sneakers":   CategoryShoes,
	"boots":      CategoryShoes,
	"jackets":    CategoryOuterwear,
	"coats":      CategoryOuterwear,
	"jacket":     CategoryOuterwear,
	"coat":       CategoryOuterwear,
	"dress":      CategoryDresses,
	"accessory":  CategoryAccessories,
	"belts":      CategoryAccessories,
	"hats":       CategoryAccessories,
	"scarves":    CategoryAccessories,
	"bag":        CategoryBags,
	"handbags":   CategoryBags,
	"sportswear": CategoryActivewear,
	"suit":       CategorySuits,
}

// NormalizeCategory lower-cases a category and folds common aliases.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if alias, ok := categoryAliases[c]; ok {
		return alias
	}
	return c
}

// SlotFor returns the outfit slot of a category.
func SlotFor(category string) Slot {
	switch NormalizeCategory(category) {
	case CategoryTops, CategoryDresses, CategoryActivewear, CategorySuits:
		return SlotTop
	case CategoryBottoms:
		return SlotBottom
	case CategoryShoes:
		return SlotShoes
	case CategoryAccessories, CategoryBags, CategoryJewelry, CategoryOuterwear:
		return SlotAccessory
	default:
		return SlotNone
	}
}

// IsEssential reports whether category is one of EssentialCategories.
func IsEssential(category string) bool {
	c := NormalizeCategory(category)
	for _, e := range EssentialCategories {
		if c == e {
			return true
		}
	}
	return false
}

// categoryFormality is the default formality (1 leisure .. 5 formal) of a category.
var categoryFormality = map[string]int{
	CategoryTops:        3,
	CategoryBottoms:     3,
	CategoryShoes:       3,
	CategoryOuterwear:   3,
	CategoryDresses:     4,
	CategoryAccessories: 3,
	CategoryBags:        3,
	CategoryJewelry:     4,
	CategoryActivewear:  1,
	CategorySuits:       5,
}

// styleFormality shifts category formality by style.
var styleFormality = map[string]int{
	"formal":     5,
	"business":   4,
	"classic":    4,
	"elegant":    4,
	"minimalist": 3,
	"preppy":     3,
	"smart":      3,
	"casual":     2,
	"bohemian":   2,
	"vintage":    2,
	"streetwear": 2,
	"sporty":     1,
	"athleisure": 1,
}

// Formality returns the formality of a product on the 1..5 scale. An explicit
// product formality wins; otherwise the style and category defaults are averaged.
func Formality(p *models.Product) int {
	if p.Formality >= 1 && p.Formality <= 5 {
		return p.Formality
	}
	cat, okCat := categoryFormality[NormalizeCategory(p.Category)]
	sty, okSty := styleFormality[strings.ToLower(p.Style)]
	switch {
	case okCat && okSty:
		return (cat + sty + 1) / 2
	case okSty:
		return sty
	case okCat:
		return cat
	default:
		return 3
	}
}

// seasonRelevance is the category x season relevance table in [0,1].
var seasonRelevance = map[string]map[models.Season]float64{
	CategoryTops:        {models.SeasonSpring: 0.8, models.SeasonSummer: 0.9, models.SeasonFall: 0.7, models.SeasonWinter: 0.6},
	CategoryBottoms:     {models.SeasonSpring: 0.7, models.SeasonSummer: 0.7, models.SeasonFall: 0.7, models.SeasonWinter: 0.7},
	CategoryShoes:       {models.SeasonSpring: 0.7, models.SeasonSummer: 0.7, models.SeasonFall: 0.7, models.SeasonWinter: 0.7},
	CategoryOuterwear:   {models.SeasonSpring: 0.5, models.SeasonSummer: 0.1, models.SeasonFall: 0.8, models.SeasonWinter: 1.0},
	CategoryDresses:     {models.SeasonSpring: 0.8, models.SeasonSummer: 1.0, models.SeasonFall: 0.5, models.SeasonWinter: 0.3},
	CategoryAccessories: {models.SeasonSpring: 0.6, models.SeasonSummer: 0.6, models.SeasonFall: 0.6, models.SeasonWinter: 0.7},
	CategoryBags:        {models.SeasonSpring: 0.6, models.SeasonSummer: 0.6, models.SeasonFall: 0.6, models.SeasonWinter: 0.6},
	CategoryJewelry:     {models.SeasonSpring: 0.6, models.SeasonSummer: 0.6, models.SeasonFall: 0.6, models.SeasonWinter: 0.6},
	CategoryActivewear:  {models.SeasonSpring: 0.8, models.SeasonSummer: 0.9, models.SeasonFall: 0.6, models.SeasonWinter: 0.4},
	CategorySuits:       {models.SeasonSpring: 0.6, models.SeasonSummer: 0.4, models.SeasonFall: 0.7, models.SeasonWinter: 0.7},
}

// SeasonRelevance returns how relevant a category is in a season. Unknown
// categories return the neutral 0.5.
func SeasonRelevance(category string, season models.Season) float64 {
	row, ok := seasonRelevance[NormalizeCategory(category)]
	if !ok {
		return 0.5
	}
	v, ok := row[season]
	if !ok {
		return 0.5
	}
	return v
}
