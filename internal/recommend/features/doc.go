// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package features converts a (UserProfile, Product, Context) triple into the
fixed-length signal vector consumed by the scorers.

The vector has 50 dimensions in five blocks of ten:

	[0,10)   user-style alignment   style, color, price fit, brand, formality, trendiness,
	                                category preference, seasonal preference, recency, popularity
	[10,20)  product intrinsics     price, rating, category popularity, seasonal relevance,
	                                trend, new arrival, discount, stock, sizes, image quality
	[20,30)  interaction history    viewed, purchased, wishlisted, carted, tried on,
	                                similar engagement, category engagement, brand engagement,
	                                context match, interaction recency
	[30,40)  seasonal and trend     category trend, color trend, style trend, social, influencer,
	                                purchase velocity, holiday, event, weather, season tag
	[40,50)  outfit completion      wardrobe complement, versatility, mix-and-match, gap filling,
	                                color coordination, style coordination, occasion fit,
	                                seasonal need, wear frequency, value

Build is a pure function: identical inputs (including Input.Now) always produce
the same vector, and every dimension lies in [0,1].

Dimensions without a derivable computation are extension points. They take
DefaultSignal unless the caller supplies an Extensions function.
*/
package features
