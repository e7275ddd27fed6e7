// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/stylist/internal/logging"
	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
)

// Metadata keys set on every interaction message.
const (
	MetadataUserID        = "user_id"
	MetadataType          = "interaction_type"
	MetadataCorrelationID = "correlation_id"
)

// Publisher publishes interaction events.
type Publisher struct {
	pub   message.Publisher
	topic string
}

// NewPublisher creates a publisher for topic.
func NewPublisher(pub message.Publisher, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{pub: pub, topic: topic}
}

// Publish serializes ev and sends it. An empty ev.ID is assigned a UUID,
// which becomes the message UUID and broker deduplication ID. The event ID
// is returned.
func (p *Publisher) Publish(ctx context.Context, ev *models.InteractionEvent) (string, error) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(ev.ID, data)
	msg.Metadata.Set(natsgo.MsgIdHdr, ev.ID)
	msg.Metadata.Set(MetadataUserID, ev.UserID)
	msg.Metadata.Set(MetadataType, string(ev.Type))
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	msg.SetContext(ctx)

	if err := p.pub.Publish(p.topic, msg); err != nil {
		return "", fmt.Errorf("publish event %s: %w", ev.ID, err)
	}
	metrics.RecordEventPublished()
	return ev.ID, nil
}
