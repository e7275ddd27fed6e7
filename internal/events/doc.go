// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package events carries user interaction events to the profile builder.

Storefronts publish one message per interaction on the stylist.interactions
topic. The payload is a JSON models.InteractionEvent; the message UUID is the
event ID and doubles as the JetStream Nats-Msg-Id for broker deduplication.

The Consumer subscribes to the topic and calls UpdateUserProfile for each
event:

  - malformed or invalid payloads are acked and dropped, since redelivery
    cannot fix them
  - events already processed within the dedupe window are acked and skipped
  - handler failures (catalog outage, timeout) are nacked for redelivery

Two transports are supported through watermill:

  - nats: JetStream via watermill-nats, durable and load-balanced across a
    queue group
  - channel: in-process gochannel, used by tests and single-node setups
*/
package events
