// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package taxonomy

import "strings"

var neutralColors = map[string]struct{}{
	"black":    {},
	"white":    {},
	"gray":     {},
	"grey":     {},
	"charcoal": {},
	"beige":    {},
	"cream":    {},
	"ivory":    {},
	"tan":      {},
	"camel":    {},
	"khaki":    {},
	"brown":    {},
	"navy":     {},
	"denim":    {},
}

// IsNeutral reports whether color is a neutral base color.
func IsNeutral(color string) bool {
	_, ok := neutralColors[normalizeColor(color)]
	return ok
}

// wheel places chromatic colors on a 12-step color wheel.
var wheel = map[string]int{
	"red":       0,
	"burgundy":  0,
	"maroon":    0,
	"coral":     1,
	"orange":    2,
	"rust":      2,
	"mustard":   3,
	"gold":      3,
	"yellow":    4,
	"lime":      5,
	"green":     6,
	"olive":     6,
	"emerald":   6,
	"mint":      6,
	"teal":      7,
	"turquoise": 7,
	"blue":      8,
	"cobalt":    8,
	"sky":       8,
	"indigo":    9,
	"purple":    10,
	"lavender":  10,
	"violet":    10,
	"plum":      10,
	"magenta":   11,
	"pink":      11,
	"fuchsia":   11,
	"blush":     11,
}

// Hue returns the wheel position of a chromatic color, or -1 for neutrals and
// unknown colors.
func Hue(color string) int {
	if h, ok := wheel[normalizeColor(color)]; ok {
		return h
	}
	return -1
}

// IsAccent reports whether color is a chromatic (non-neutral) color on the wheel.
func IsAccent(color string) bool {
	return !IsNeutral(color) && Hue(color) >= 0
}

// hueDistance is the shortest distance between two wheel positions.
func hueDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > 6 {
		d = 12 - d
	}
	return d
}

// IsComplementary reports whether a and b sit opposite each other on the wheel
// (within one step).
func IsComplementary(a, b string) bool {
	ha, hb := Hue(a), Hue(b)
	if ha < 0 || hb < 0 {
		return false
	}
	return hueDistance(ha, hb) >= 5
}

// IsAnalogous reports whether a and b are neighbors on the wheel.
func IsAnalogous(a, b string) bool {
	ha, hb := Hue(a), Hue(b)
	if ha < 0 || hb < 0 {
		return false
	}
	d := hueDistance(ha, hb)
	return d >= 1 && d <= 2
}

// Harmonizes reports whether two colors form a recognized pairing: equal colors,
// a neutral with anything, analogous or complementary hues.
func Harmonizes(a, b string) bool {
	na, nb := normalizeColor(a), normalizeColor(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb || IsNeutral(na) || IsNeutral(nb) {
		return true
	}
	return IsAnalogous(na, nb) || IsComplementary(na, nb)
}

// SameColorFamily reports whether two colors are identical or share a wheel position.
func SameColorFamily(a, b string) bool {
	na, nb := normalizeColor(a), normalizeColor(b)
	if na == nb {
		return true
	}
	ha, hb := Hue(na), Hue(nb)
	return ha >= 0 && ha == hb
}

func normalizeColor(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "grey" {
		return "gray"
	}
	return c
}

// NormalizeColor exposes the color normalization used by the comparison helpers.
func NormalizeColor(c string) string {
	return normalizeColor(c)
}
