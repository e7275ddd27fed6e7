// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package models defines the data structures shared by the Stylist engine.

Catalog records (Product, Order, User) are owned by the Catalog Gateway and are
treated as immutable snapshots for the duration of a request. Profile records
(UserProfile, StyleProfile, InteractionHistory, SeasonalPreferences) are built by
the engine and cached per user. Result records (RecommendationCandidate,
OutfitCombination, CategoryGap, WardrobeAnalysis) are request scoped and never
persisted.

Model Categories:

 1. Catalog Models:
    - Product: garment or accessory with category, price, brand, colors, style, season
    - Order / OrderItem: purchase history
    - User: account record
    - ProductFilter: catalog query parameters

 2. Profile Models:
    - UserProfile: StyleProfile + InteractionHistory + SeasonalPreferences
    - InteractionEvent: view, purchase, wishlist, cart, or try-on signal

 3. Result Models:
    - RecommendationCandidate: ranked product with reasoning tags
    - OutfitCombination: scored garment set with reasoning and occasions
    - WardrobeItem / CategoryGap / WardrobeAnalysis: inferred wardrobe and gaps

All scores carried by result models are in [0,1].
*/
package models
