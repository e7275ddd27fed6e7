// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package models

import (
	"strings"
	"time"
)

// Season is a calendar season used for seasonal relevance.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"

	// SeasonAll tags products that are worn year-round.
	SeasonAll Season = "all"
)

// Seasons lists the four calendar seasons in calendar order.
var Seasons = []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

// SeasonForMonth maps a calendar month to its (northern hemisphere) season.
func SeasonForMonth(m time.Month) Season {
	switch m {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonFall
	default:
		return SeasonWinter
	}
}

// SeasonAt returns the season of the given instant.
func SeasonAt(t time.Time) Season {
	return SeasonForMonth(t.Month())
}

// ParseSeason normalizes a season tag. Unknown or empty tags map to SeasonAll;
// "autumn" is accepted as fall.
func ParseSeason(s string) Season {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spring":
		return SeasonSpring
	case "summer":
		return SeasonSummer
	case "fall", "autumn":
		return SeasonFall
	case "winter":
		return SeasonWinter
	default:
		return SeasonAll
	}
}

// Matches reports whether a product tagged with s is appropriate in season target.
func (s Season) Matches(target Season) bool {
	return s == SeasonAll || s == target
}

// String implements fmt.Stringer.
func (s Season) String() string {
	return string(s)
}
