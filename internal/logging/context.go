// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	fieldsKey ctxKey = iota
	loggerKey
)

// requestFields are the identifiers attached to every log line of a request.
// A context holds one immutable copy; setters store a modified copy.
type requestFields struct {
	requestID     string
	correlationID string
	userID        string
}

func fieldsFrom(ctx context.Context) requestFields {
	f, _ := ctx.Value(fieldsKey).(requestFields)
	return f
}

func withFields(ctx context.Context, mutate func(*requestFields)) context.Context {
	f := fieldsFrom(ctx)
	mutate(&f)
	return context.WithValue(ctx, fieldsKey, f)
}

// GenerateRequestID returns a UUIDv4 request ID.
func GenerateRequestID() string {
	return uuid.NewString()
}

// GenerateCorrelationID returns a short ID that follows an interaction from
// the API through the event stream. It is the first 8 characters of a UUID.
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

// ContextWithRequestID attaches a request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *requestFields) { f.requestID = id })
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).requestID
}

// ContextWithCorrelationID attaches a correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *requestFields) { f.correlationID = id })
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).correlationID
}

// ContextWithUserID attaches the user a request acts on.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return withFields(ctx, func(f *requestFields) { f.userID = userID })
}

// UserIDFromContext returns the user ID, or "".
func UserIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).userID
}

// ContextWithLogger stores a request-scoped logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the request-scoped logger, or the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns the context logger with every identifier present in ctx.
//
//	logging.Ctx(ctx).Debug().Int("count", n).Msg("recommendations served")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := WithFields(ctx, LoggerFromContext(ctx))
	return &logger
}

// WithFields returns logger extended with the identifiers present in ctx.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WithFields(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	f := fieldsFrom(ctx)
	if f == (requestFields{}) {
		return logger
	}
	lc := logger.With()
	if f.requestID != "" {
		lc = lc.Str("request_id", f.requestID)
	}
	if f.correlationID != "" {
		lc = lc.Str("correlation_id", f.correlationID)
	}
	if f.userID != "" {
		lc = lc.Str("user_id", f.userID)
	}
	return lc.Logger()
}
