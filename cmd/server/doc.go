// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package main is the entry point for the Stylist server.

Stylist serves personalized product recommendations, similar-product
lookups, outfit compatibility scoring and wardrobe gap analysis over a
JSON HTTP API. User profiles are built from interaction history and kept
current by an optional interaction event stream.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("stylist")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Refresh service (trend table, cache pruning)
	├── EventsSupervisor ("events-layer")
	│   └── Interaction consumer (optional, EVENTS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON/console output modes
 3. Catalog: in-memory, DuckDB or PostgreSQL behind a circuit breaker
 4. Profile store: optional Redis or BadgerDB second tier
 5. Scorers: heuristic, or a remote model with heuristic fallback
 6. Trends: built-in table or a JSON file refreshed on an interval
 7. Engine: recommendation, outfit and wardrobe engines
 8. Events: Watermill over NATS JetStream or an in-process channel
 9. HTTP Server: Chi router with middleware stack
 10. Supervisor Tree: starts every service and waits for a signal

# Configuration

See internal/config for the full list. Common variables:

	HTTP_PORT=8080
	LOG_LEVEL=info
	CATALOG_DRIVER=duckdb
	CATALOG_DSN=/data/catalog.duckdb
	CATALOG_SEED_FILE=/data/seed.json
	CACHE_BACKEND=redis
	REDIS_ADDR=redis:6379
	MODEL_ENABLED=true
	MODEL_URL=http://model:9000/predict
	MODEL_OUTFIT_URL=http://model:9000/outfit
	EVENTS_ENABLED=true
	EVENTS_BACKEND=nats
	NATS_URL=nats://nats:4222

# Graceful Shutdown

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the consumer stops acking, and the catalog, profile
store and event transport are closed after the tree has stopped.
*/
package main
