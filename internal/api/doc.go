// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package api exposes the recommendation engine over HTTP.

Routes are mounted on a chi router under /api/v1:

	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	GET  /api/v1/users/{userID}/recommendations?limit=&context=
	GET  /api/v1/users/{userID}/wardrobe
	POST /api/v1/users/{userID}/interactions
	GET  /api/v1/products/{productID}/similar?limit=
	POST /api/v1/outfits

Prometheus metrics are served at /metrics.

Every JSON response uses the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Failures set success to false and carry an error object with a stable code
(VALIDATION_ERROR, NOT_FOUND, CATALOG_UNAVAILABLE, TIMEOUT, INTERNAL_ERROR).

Interactions are published to the event bus when a publisher is configured
and answered with 202 Accepted. Without one the profile is updated inline.
*/
package api
