// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package logging provides centralized zerolog-based logging for Stylist.

A process-wide logger is configured once by Init from the logging section of
the configuration. Components still receive a zerolog.Logger by value and
derive a component logger from it:

	logging.Init(logging.Config{Level: "info", Format: "json"})

	logger := logging.With().Str("component", "api").Logger()
	logger.Info().Int("port", 8080).Msg("listening")

# Request Correlation

The API middleware stores a request ID and correlation ID in the request
context, and handlers add the user ID. Ctx returns a logger carrying every
identifier present:

	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
	ctx = logging.ContextWithUserID(ctx, userID)
	logging.Ctx(ctx).Debug().Int("count", n).Msg("recommendations served")

Event consumers use the message UUID as the correlation ID so that a profile
update can be traced from the broker to the engine.

# Adapters

  - NewSlogLogger bridges log/slog to zerolog for sutureslog.
  - NewWatermillLogger implements watermill.LoggerAdapter for the event
    subscriber and publisher.

# Field Conventions

	component       emitting package (api, engine, events, catalog, ...)
	request_id      HTTP request ID
	correlation_id  event or cross-service correlation ID
	user_id         subject of a profile operation
	op              engine or catalog operation name
	latency         operation duration
*/
package logging
