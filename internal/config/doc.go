// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package config loads the service configuration.

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, else config.yaml or
    /etc/stylist/config.yaml
 3. Environment variables from an explicit mapping table

Unmapped environment variables are ignored. Comma-separated values are
accepted for list settings such as CORS_ORIGINS.

Example file:

	server:
	  port: 8080
	api:
	  cors_origins: ["https://shop.example.com"]
	catalog:
	  driver: postgres
	  dsn: postgres://stylist@db/stylist
	cache:
	  backend: redis
	  redis:
	    addr: redis:6379
	events:
	  enabled: true
	  backend: nats
	  url: nats://nats:4222

Every section is validated by Config.Validate; LoadWithKoanf fails on the
first invalid setting.
*/
package config
