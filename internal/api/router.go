// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter builds the HTTP handler serving the API.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(cfg *Config, h *Handler, logger zerolog.Logger) http.Handler {
	m := NewMiddleware(cfg, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(m.RequestContext)
	r.Use(m.Observe)
	r.Use(chimiddleware.Recoverer)
	r.Use(m.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(m.RateLimit())
			r.Use(m.LimitBody)

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Get("/recommendations", h.Recommendations)
				r.Get("/wardrobe", h.Wardrobe)
				r.Post("/interactions", h.RecordInteraction)
			})
			r.Get("/products/{productID}/similar", h.SimilarProducts)
			r.Post("/outfits", h.Outfits)
		})
	})

	return r
}
