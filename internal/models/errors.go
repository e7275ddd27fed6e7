// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package models

import "errors"

// Error taxonomy shared by the engine and its collaborators.
var (
	// ErrModelUnavailable marks a learned-model failure. It is absorbed by the
	// heuristic fallback and never returned from engine operations.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrCatalogUnavailable marks a catalog access failure. It is fatal for the
	// current request and propagated to the caller.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrInvalidProfileInput marks profile input that cannot be repaired with defaults.
	ErrInvalidProfileInput = errors.New("invalid profile input")
)
