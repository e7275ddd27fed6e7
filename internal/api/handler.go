// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/logging"
	"github.com/tomtom215/stylist/internal/models"
)

// Engine is the recommendation surface used by the handlers.
type Engine interface {
	GetPersonalizedRecommendations(ctx context.Context, userID string, limit int, requestContext string) ([]models.RecommendationCandidate, error)
	GetSimilarProducts(ctx context.Context, productID string, limit int) ([]models.Product, error)
	GenerateOutfitsFromCatalog(ctx context.Context, productIDs []string, anchorID string) ([]models.OutfitCombination, error)
	AnalyzeWardrobe(ctx context.Context, userID string) (*models.WardrobeAnalysis, error)
	UpdateUserProfile(ctx context.Context, userID string, ev models.InteractionEvent) error
}

// InteractionPublisher publishes interaction events for asynchronous
// profile updates.
type InteractionPublisher interface {
	Publish(ctx context.Context, ev *models.InteractionEvent) (string, error)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handler serves the API endpoints.
type Handler struct {
	engine    Engine
	publisher InteractionPublisher
	checks    map[string]ReadinessCheck
	timeout   time.Duration
	startTime time.Time
	now       func() time.Time
	logger    zerolog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithPublisher routes interactions through the event bus.
func WithPublisher(p InteractionPublisher) HandlerOption {
	return func(h *Handler) { h.publisher = p }
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, check ReadinessCheck) HandlerOption {
	return func(h *Handler) { h.checks[name] = check }
}

// WithClock overrides the clock stamping interactions without a timestamp.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine Engine, cfg *Config, logger zerolog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:    engine,
		checks:    make(map[string]ReadinessCheck),
		timeout:   cfg.RequestTimeout,
		startTime: time.Now(),
		now:       time.Now,
		logger:    logger.With().Str("component", "api").Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// requestContext bounds engine work by the configured request timeout and
// tags engine logs with the route's user ID.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx := r.Context()
	if userID := chi.URLParam(r, "userID"); userID != "" {
		ctx = logging.ContextWithUserID(ctx, userID)
	}
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// engineError maps engine and catalog failures to responses.
func (h *Handler) engineError(rw *ResponseWriter, r *http.Request, err error) {
	logger := logging.LoggerFromContext(r.Context())
	switch {
	case errors.Is(err, models.ErrCatalogUnavailable):
		logger.Warn().Err(err).Msg("catalog unavailable")
		rw.Error(http.StatusServiceUnavailable, ErrCodeCatalogUnavailable, "Product catalog is temporarily unavailable", nil)
	case errors.Is(err, models.ErrInvalidProfileInput):
		rw.Error(http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Msg("request timed out")
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out", nil)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
		logger.Debug().Err(err).Msg("request canceled")
	default:
		rw.InternalError(err)
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady runs every readiness check and answers 503 if any fails.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ready := true
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			ready = false
			checks[name] = err.Error()
			h.logger.Warn().Err(err).Str("check", name).Msg("readiness check failed")
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		rw.Error(http.StatusServiceUnavailable, ErrCodeNotReady, "Service is not ready", map[string]any{
			"checks": checks,
		})
		return
	}
	rw.Success(map[string]any{
		"ready":  true,
		"checks": checks,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}
