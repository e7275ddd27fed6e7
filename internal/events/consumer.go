// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/cache"
	"github.com/tomtom215/stylist/internal/logging"
	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/validation"
)

// Consume outcomes, used as metric labels.
const (
	ResultProcessed = "processed"
	ResultDuplicate = "duplicate"
	ResultMalformed = "malformed"
	ResultInvalid   = "invalid"
	ResultFailed    = "failed"
)

// errDrop marks a message that is acked without processing.
var errDrop = errors.New("drop message")

// ProfileUpdater applies one interaction to a user profile.
type ProfileUpdater interface {
	UpdateUserProfile(ctx context.Context, userID string, ev models.InteractionEvent) error
}

// Consumer feeds interaction events from a subscriber into a ProfileUpdater.
type Consumer struct {
	subscriber message.Subscriber
	topic      string
	updater    ProfileUpdater
	config     Config
	seen       *cache.LRU[struct{}]
	logger     zerolog.Logger
}

// NewConsumer creates a consumer for cfg.Topic.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConsumer(sub message.Subscriber, updater ProfileUpdater, cfg *Config, logger zerolog.Logger) *Consumer {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return &Consumer{
		subscriber: sub,
		topic:      topic,
		updater:    updater,
		config:     *cfg,
		seen:       cache.NewLRU[struct{}](cfg.DedupeCapacity, cfg.DedupeTTL),
		logger:     logger.With().Str("component", "events").Str("topic", topic).Logger(),
	}
}

// Topic returns the subscribed topic.
func (c *Consumer) Topic() string {
	return c.topic
}

// Run processes messages until ctx is cancelled or the subscription closes.
// Messages are acked on success or drop, nacked on handler failure.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}
	c.logger.Info().Msg("consuming interaction events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg *message.Message) {
	result, err := c.handle(ctx, msg)
	metrics.RecordEventConsumed(result)

	switch {
	case err == nil:
		msg.Ack()
	case errors.Is(err, errDrop):
		c.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Str("result", result).Msg("dropping interaction event")
		msg.Ack()
	default:
		c.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("interaction event failed, requesting redelivery")
		msg.Nack()
	}
}

// handle decodes and applies one message.
func (c *Consumer) handle(ctx context.Context, msg *message.Message) (string, error) {
	var ev models.InteractionEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return ResultMalformed, fmt.Errorf("%w: decode payload: %v", errDrop, err)
	}
	if verr := validation.ValidateStruct(&ev); verr != nil {
		return ResultInvalid, fmt.Errorf("%w: %v", errDrop, verr)
	}
	if ev.ID == "" {
		ev.ID = msg.UUID
	}
	if c.seen.Contains(ev.ID) {
		return ResultDuplicate, nil
	}

	correlationID := msg.Metadata.Get(MetadataCorrelationID)
	if correlationID == "" {
		correlationID = ev.ID
	}
	hctx := logging.ContextWithCorrelationID(ctx, correlationID)
	hctx, cancel := context.WithTimeout(hctx, c.config.HandlerTimeout)
	defer cancel()

	err := c.updater.UpdateUserProfile(hctx, ev.UserID, ev)
	if errors.Is(err, models.ErrInvalidProfileInput) {
		return ResultInvalid, fmt.Errorf("%w: %v", errDrop, err)
	}
	if err != nil {
		return ResultFailed, err
	}

	c.seen.Set(ev.ID, struct{}{})
	c.logger.Debug().
		Str("event_id", ev.ID).
		Str("user_id", ev.UserID).
		Str("type", string(ev.Type)).
		Str("correlation_id", correlationID).
		Msg("profile updated from event")
	return ResultProcessed, nil
}
