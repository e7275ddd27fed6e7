// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// errSubscriptionClosed makes the supervisor restart a consumer whose
// subscription ended while the process is still running.
var errSubscriptionClosed = errors.New("subscription closed")

// EventConsumer runs a blocking consume loop.
type EventConsumer interface {
	Run(ctx context.Context) error
	Topic() string
}

// ConsumerService runs an EventConsumer under supervision.
type ConsumerService struct {
	consumer EventConsumer
	logger   zerolog.Logger
}

// NewConsumerService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConsumerService(consumer EventConsumer, logger zerolog.Logger) *ConsumerService {
	return &ConsumerService{
		consumer: consumer,
		logger:   logger.With().Str("service", "consumer").Str("topic", consumer.Topic()).Logger(),
	}
}

// Serve implements suture.Service.
func (s *ConsumerService) Serve(ctx context.Context) error {
	err := s.consumer.Run(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.logger.Info().Msg("event consumer stopped")
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("consume %s: %w", s.consumer.Topic(), err)
	}
	s.logger.Warn().Msg("event subscription closed unexpectedly")
	return errSubscriptionClosed
}

// String implements fmt.Stringer for supervisor logs.
func (s *ConsumerService) String() string {
	return "event-consumer:" + s.consumer.Topic()
}
