// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package taxonomy

import "strings"

// styleFamilies groups styles that read as one aesthetic.
var styleFamilies = map[string]string{
	"formal":     "tailored",
	"business":   "tailored",
	"classic":    "tailored",
	"elegant":    "tailored",
	"preppy":     "tailored",
	"smart":      "tailored",
	"minimalist": "minimal",
	"modern":     "minimal",
	"casual":     "relaxed",
	"bohemian":   "relaxed",
	"vintage":    "relaxed",
	"streetwear": "street",
	"edgy":       "street",
	"grunge":     "street",
	"sporty":     "active",
	"athleisure": "active",
}

// StyleFamily returns the aesthetic family of a style (the style itself when unknown).
func StyleFamily(style string) string {
	s := strings.ToLower(strings.TrimSpace(style))
	if f, ok := styleFamilies[s]; ok {
		return f
	}
	return s
}

// StylesCompatible reports whether two styles can be worn together. Minimal
// pieces pair with every family.
func StylesCompatible(a, b string) bool {
	fa, fb := StyleFamily(a), StyleFamily(b)
	if fa == fb || fa == "minimal" || fb == "minimal" {
		return true
	}
	pair := fa + "+" + fb
	switch pair {
	case "tailored+relaxed", "relaxed+tailored", "relaxed+street", "street+relaxed", "street+active", "active+street":
		return true
	}
	return false
}
