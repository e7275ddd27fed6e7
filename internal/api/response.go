// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/tomtom215/stylist/internal/logging"
	"github.com/tomtom215/stylist/internal/validation"
)

// Error codes returned in APIError.Code.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeNotReady           = "NOT_READY"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// APIMeta carries request metadata.
type APIMeta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Count      *int      `json:"count,omitempty"`
}

// ResponseWriter writes envelopes for a single request.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
	requestID string
}

// NewResponseWriter creates a ResponseWriter for r.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	requestID := middleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = logging.RequestIDFromContext(r.Context())
	}
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
		requestID: requestID,
	}
}

func (rw *ResponseWriter) meta() *APIMeta {
	return &APIMeta{
		RequestID:  rw.requestID,
		Timestamp:  time.Now().UTC(),
		DurationMs: time.Since(rw.startTime).Milliseconds(),
	}
}

// Success writes data with status 200.
func (rw *ResponseWriter) Success(data any) {
	rw.JSON(http.StatusOK, data)
}

// List writes a slice payload with its length in the metadata.
func (rw *ResponseWriter) List(data any, count int) {
	meta := rw.meta()
	meta.Count = &count
	rw.write(http.StatusOK, &APIResponse{Success: true, Data: data, Meta: meta})
}

// Accepted writes data with status 202.
func (rw *ResponseWriter) Accepted(data any) {
	rw.JSON(http.StatusAccepted, data)
}

// JSON writes a successful envelope with the given status.
func (rw *ResponseWriter) JSON(status int, data any) {
	rw.write(status, &APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// Error writes an error envelope.
func (rw *ResponseWriter) Error(status int, code, message string, details map[string]any) {
	rw.write(status, &APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: rw.requestID,
		},
		Meta: rw.meta(),
	})
}

// BadRequest writes a 400 response.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message, nil)
}

// NotFound writes a 404 response.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message, nil)
}

// ValidationError writes a 400 response from validator output.
func (rw *ResponseWriter) ValidationError(err *validation.RequestValidationError) {
	apiErr := err.ToAPIError()
	rw.Error(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

// InternalError writes a 500 response without leaking err to the client.
func (rw *ResponseWriter) InternalError(err error) {
	logging.Error().Err(err).
		Str("request_id", rw.requestID).
		Str("path", rw.r.URL.Path).
		Msg("request failed")
	rw.Error(http.StatusInternalServerError, ErrCodeInternal, "An internal error occurred", nil)
}

func (rw *ResponseWriter) write(status int, resp *APIResponse) {
	rw.w.Header().Set("Content-Type", "application/json")
	if rw.requestID != "" {
		rw.w.Header().Set("X-Request-ID", rw.requestID)
	}
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(resp); err != nil {
		logging.Warn().Err(err).Str("request_id", rw.requestID).Msg("failed to encode response")
	}
}
