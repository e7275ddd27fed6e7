// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/stylist/config.yaml",
	"/etc/stylist/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// LoadWithKoanf loads configuration with layered sources. Precedence is
// environment over file over defaults. The result is validated.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if cfg.Logging.Output == nil {
		cfg.Logging.Output = os.Stderr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when set from env.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// API
	"cors_origins":        "api.cors_origins",
	"rate_limit_requests": "api.rate_limit_requests",
	"rate_limit_window":   "api.rate_limit_window",
	"disable_rate_limit":  "api.rate_limit_disabled",
	"api_request_timeout": "api.request_timeout",
	"api_max_body_bytes":  "api.max_body_bytes",

	// Logging
	"log_level":     "logging.level",
	"log_format":    "logging.format",
	"log_caller":    "logging.caller",
	"log_timestamp": "logging.timestamp",

	// Engine
	"recommend_default_limit":    "engine.limits.default_limit",
	"recommend_max_limit":        "engine.limits.max_limit",
	"recommend_max_candidates":   "engine.limits.max_candidates",
	"recommend_diversity_cap":    "engine.limits.diversity_cap",
	"recommend_batch_size":       "engine.scoring.batch_size",
	"recommend_workers":          "engine.scoring.workers",
	"recommend_profile_ttl":      "engine.cache.profile_ttl",
	"recommend_profile_capacity": "engine.cache.profile_capacity",
	"recommend_feature_ttl":      "engine.cache.feature_ttl",
	"recommend_feature_capacity": "engine.cache.feature_capacity",
	"recommend_history_ttl":      "engine.cache.history_ttl",
	"recommend_history_capacity": "engine.cache.history_capacity",
	"outfit_threshold":           "engine.outfit.threshold",
	"outfit_top_n":               "engine.outfit.top_n",

	// Model
	"model_enabled":         "model.enabled",
	"model_url":             "model.url",
	"model_timeout":         "model.timeout",
	"model_request_timeout": "model.request_timeout",
	"model_rps":             "model.requests_per_second",
	"model_burst":           "model.burst",
	"model_outfit_url":      "model.outfit_url",

	// Cache
	"cache_backend":  "cache.backend",
	"redis_addr":     "cache.redis.addr",
	"redis_password": "cache.redis.password",
	"redis_db":       "cache.redis.db",
	"badger_path":    "cache.badger.path",

	// Catalog
	"catalog_driver":        "catalog.driver",
	"catalog_dsn":           "catalog.dsn",
	"catalog_seed_file":     "catalog.seed_file",
	"catalog_query_timeout": "catalog.query_timeout",

	// Events
	"events_enabled":     "events.enabled",
	"events_backend":     "events.backend",
	"nats_url":           "events.url",
	"events_topic":       "events.topic",
	"events_durable":     "events.durable_name",
	"events_queue_group": "events.queue_group",
	"events_subscribers": "events.subscribers_count",

	// Refresh
	"refresh_interval": "refresh.interval",
	"trend_file":       "refresh.trend_file",
}

// envTransformFunc maps an environment variable name to a config path.
// Unmapped names return "" so unrelated variables never reach the config.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - REDIS_ADDR -> cache.redis.addr
//   - NATS_URL -> events.url
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
