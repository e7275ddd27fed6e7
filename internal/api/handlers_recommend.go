// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/validation"
)

type recommendationsRequest struct {
	UserID  string `json:"user_id" validate:"required,max=128"`
	Limit   int    `json:"limit" validate:"min=0,max=1000"`
	Context string `json:"context" validate:"omitempty,rec_context"`
}

type similarRequest struct {
	ProductID string `json:"product_id" validate:"required,max=128"`
	Limit     int    `json:"limit" validate:"min=0,max=1000"`
}

type wardrobeRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
}

type outfitRequest struct {
	ProductIDs []string `json:"product_ids" validate:"max=200,dive,required,max=128"`
	AnchorID   string   `json:"anchor_id" validate:"omitempty,max=128"`
}

type interactionRequest struct {
	ProductID string     `json:"product_id" validate:"required,max=128"`
	Type      string     `json:"type" validate:"required,interaction"`
	Category  string     `json:"category" validate:"omitempty,max=64"`
	Brand     string     `json:"brand" validate:"omitempty,max=64"`
	Color     string     `json:"color" validate:"omitempty,max=64"`
	Style     string     `json:"style" validate:"omitempty,max=64"`
	Season    string     `json:"season" validate:"omitempty,season"`
	Price     float64    `json:"price" validate:"gte=0"`
	Context   string     `json:"context" validate:"omitempty,rec_context"`
	Timestamp *time.Time `json:"timestamp"`
}

// interactionResponse acknowledges a recorded interaction.
type interactionResponse struct {
	EventID string `json:"event_id,omitempty"`
	Queued  bool   `json:"queued"`
}

// parseLimit reads the optional limit query parameter. Absent means zero,
// which the engine replaces with its default.
func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("limit must be an integer")
	}
	return limit, nil
}

// decodeBody decodes a JSON body into v. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errors.New("request body too large")
	}
	return errors.New("request body must be valid JSON")
}

// Recommendations returns personalized recommendations for a user.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	limit, err := parseLimit(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req := recommendationsRequest{
		UserID:  chi.URLParam(r, "userID"),
		Limit:   limit,
		Context: r.URL.Query().Get("context"),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	recs, err := h.engine.GetPersonalizedRecommendations(ctx, req.UserID, req.Limit, req.Context)
	if err != nil {
		h.engineError(rw, r, err)
		return
	}
	rw.List(recs, len(recs))
}

// SimilarProducts returns products similar to the one in the path.
func (h *Handler) SimilarProducts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	limit, err := parseLimit(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req := similarRequest{ProductID: chi.URLParam(r, "productID"), Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	products, err := h.engine.GetSimilarProducts(ctx, req.ProductID, req.Limit)
	if err != nil {
		h.engineError(rw, r, err)
		return
	}
	rw.List(products, len(products))
}

// Outfits generates outfit combinations from product IDs or the catalog.
func (h *Handler) Outfits(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req outfitRequest
	if err := decodeBody(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	outfits, err := h.engine.GenerateOutfitsFromCatalog(ctx, req.ProductIDs, req.AnchorID)
	if err != nil {
		h.engineError(rw, r, err)
		return
	}
	rw.List(outfits, len(outfits))
}

// Wardrobe returns the wardrobe analysis of a user.
func (h *Handler) Wardrobe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req := wardrobeRequest{UserID: chi.URLParam(r, "userID")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	analysis, err := h.engine.AnalyzeWardrobe(ctx, req.UserID)
	if err != nil {
		h.engineError(rw, r, err)
		return
	}
	rw.Success(analysis)
}

// RecordInteraction records a user interaction. With a publisher the event
// is queued and answered with 202. Otherwise the profile is updated inline.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")
	if strings.TrimSpace(userID) == "" || len(userID) > 128 {
		rw.Error(http.StatusBadRequest, ErrCodeValidation, "user_id is required", map[string]any{"field": "user_id"})
		return
	}

	var req interactionRequest
	if err := decodeBody(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	ev := req.event(userID, h.now())

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if h.publisher != nil {
		id, err := h.publisher.Publish(ctx, &ev)
		if err != nil {
			h.engineError(rw, r, err)
			return
		}
		rw.Accepted(interactionResponse{EventID: id, Queued: true})
		return
	}

	if err := h.engine.UpdateUserProfile(ctx, userID, ev); err != nil {
		h.engineError(rw, r, err)
		return
	}
	rw.Success(interactionResponse{EventID: ev.ID})
}

func (req *interactionRequest) event(userID string, now time.Time) models.InteractionEvent {
	ts := now.UTC()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		ts = req.Timestamp.UTC()
	}
	return models.InteractionEvent{
		UserID:    userID,
		ProductID: req.ProductID,
		Type:      models.ParseInteractionType(req.Type),
		Category:  req.Category,
		Brand:     req.Brand,
		Color:     req.Color,
		Style:     req.Style,
		Season:    strings.ToLower(req.Season),
		Price:     req.Price,
		Context:   req.Context,
		Timestamp: ts,
	}
}
