// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// SlogHandler implements slog.Handler on zerolog, so that libraries that
// require a slog.Logger (sutureslog) write through the same output.
// Attributes added by WithAttrs are baked into a child logger under the
// group prefix active at that point.
type SlogHandler struct {
	logger zerolog.Logger
	prefix string
}

// NewSlogHandler wraps the global logger.
func NewSlogHandler() *SlogHandler {
	return &SlogHandler{logger: Logger()}
}

// NewSlogHandlerWithLogger wraps logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSlogHandlerWithLogger(logger zerolog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled implements slog.Handler.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	zl := slogToZerologLevel(level)
	return h.logger.GetLevel() <= zl && zerolog.GlobalLevel() <= zl
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	event := h.logger.WithLevel(slogToZerologLevel(record.Level))
	if event == nil {
		return nil
	}
	record.Attrs(func(attr slog.Attr) bool {
		appendAttr(fieldSink{event: event}, h.prefix, attr)
		return true
	})
	event.Msg(record.Message)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	lc := h.logger.With()
	sink := fieldSink{ctx: &lc}
	for _, attr := range attrs {
		appendAttr(sink, h.prefix, attr)
	}
	return &SlogHandler{logger: lc.Logger(), prefix: h.prefix}
}

// WithGroup implements slog.Handler.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{logger: h.logger, prefix: h.prefix + name + "."}
}

// fieldSink writes fields to either an event or a logger context.
type fieldSink struct {
	event *zerolog.Event
	ctx   *zerolog.Context
}

func (s fieldSink) Interface(key string, v any) {
	if s.event != nil {
		s.event.Interface(key, v)
		return
	}
	*s.ctx = s.ctx.Interface(key, v)
}

func (s fieldSink) Err(key string, err error) {
	if s.event != nil {
		s.event.AnErr(key, err)
		return
	}
	*s.ctx = s.ctx.AnErr(key, err)
}

// appendAttr writes attr under prefix. Groups extend the prefix in dotted
// form, outermost first.
func appendAttr(sink fieldSink, prefix string, attr slog.Attr) {
	v := attr.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		nested := prefix
		if attr.Key != "" {
			nested += attr.Key + "."
		}
		for _, ga := range v.Group() {
			appendAttr(sink, nested, ga)
		}
		return
	}
	if attr.Key == "" {
		return
	}
	key := prefix + attr.Key
	switch v.Kind() {
	case slog.KindString:
		sink.Interface(key, v.String())
	case slog.KindInt64:
		sink.Interface(key, v.Int64())
	case slog.KindUint64:
		sink.Interface(key, v.Uint64())
	case slog.KindFloat64:
		sink.Interface(key, v.Float64())
	case slog.KindBool:
		sink.Interface(key, v.Bool())
	case slog.KindDuration:
		sink.Interface(key, v.Duration().String())
	case slog.KindTime:
		sink.Interface(key, v.Time())
	default:
		if err, ok := v.Any().(error); ok {
			sink.Err(key, err)
			return
		}
		sink.Interface(key, v.Any())
	}
}

// slogToZerologLevel converts slog.Level to zerolog.Level.
func slogToZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// NewSlogLogger creates an slog.Logger backed by the global zerolog logger.
//
//	slogger := logging.NewSlogLogger()
//	sutureHandler := &sutureslog.Handler{Logger: slogger}
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler())
}
