// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package events

import (
	"fmt"
	"time"
)

// Supported transports.
const (
	BackendNATS    = "nats"
	BackendChannel = "channel"
)

// DefaultTopic is the interaction event topic.
const DefaultTopic = "stylist.interactions"

// Config holds event stream settings.
type Config struct {
	Enabled bool   `koanf:"enabled"`
	Backend string `koanf:"backend"`
	URL     string `koanf:"url"`
	Topic   string `koanf:"topic"`

	// DurableName prefixes the JetStream durable consumer.
	DurableName string `koanf:"durable_name"`

	// QueueGroup load-balances messages across instances.
	QueueGroup       string `koanf:"queue_group"`
	SubscribersCount int    `koanf:"subscribers_count"`

	AckWaitTimeout time.Duration `koanf:"ack_wait_timeout"`
	CloseTimeout   time.Duration `koanf:"close_timeout"`
	MaxDeliver     int           `koanf:"max_deliver"`
	MaxAckPending  int           `koanf:"max_ack_pending"`
	MaxReconnects  int           `koanf:"max_reconnects"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`

	// HandlerTimeout bounds one profile update.
	HandlerTimeout time.Duration `koanf:"handler_timeout"`

	// DedupeCapacity and DedupeTTL size the processed-event window.
	DedupeCapacity int           `koanf:"dedupe_capacity"`
	DedupeTTL      time.Duration `koanf:"dedupe_ttl"`
}

// DefaultConfig returns the event stream defaults. The stream is disabled
// until a backend is configured.
func DefaultConfig() Config {
	return Config{
		Enabled:          false,
		Backend:          BackendChannel,
		URL:              "nats://127.0.0.1:4222",
		Topic:            DefaultTopic,
		DurableName:      "stylist-profiles",
		QueueGroup:       "stylist",
		SubscribersCount: 2,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     30 * time.Second,
		MaxDeliver:       5,
		MaxAckPending:    1000,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		HandlerTimeout:   10 * time.Second,
		DedupeCapacity:   100000,
		DedupeTTL:        10 * time.Minute,
	}
}

// Validate checks the event stream settings.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Backend {
	case BackendChannel:
	case BackendNATS:
		if c.URL == "" {
			return fmt.Errorf("events.url is required for backend nats")
		}
		if c.SubscribersCount < 1 {
			return fmt.Errorf("events.subscribers_count must be positive, got %d", c.SubscribersCount)
		}
		if c.AckWaitTimeout <= 0 {
			return fmt.Errorf("events.ack_wait_timeout must be positive, got %v", c.AckWaitTimeout)
		}
	default:
		return fmt.Errorf("events.backend must be nats or channel, got %q", c.Backend)
	}
	if c.Topic == "" {
		return fmt.Errorf("events.topic is required")
	}
	if c.HandlerTimeout <= 0 {
		return fmt.Errorf("events.handler_timeout must be positive, got %v", c.HandlerTimeout)
	}
	if c.DedupeCapacity < 1 {
		return fmt.Errorf("events.dedupe_capacity must be positive, got %d", c.DedupeCapacity)
	}
	return nil
}
