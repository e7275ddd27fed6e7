// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

// Package supervisor builds the suture supervision tree that runs the
// long-lived services of the process.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64

	// FailureBackoff is the wait once the threshold is exceeded.
	FailureBackoff time.Duration

	// EventsFailureBackoff replaces FailureBackoff for the events layer,
	// whose failures are usually broker outages.
	EventsFailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for services to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns the tree defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold:     5.0,
		FailureDecay:         30.0,
		FailureBackoff:       15 * time.Second,
		EventsFailureBackoff: 30 * time.Second,
		ShutdownTimeout:      10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.EventsFailureBackoff == 0 {
		c.EventsFailureBackoff = d.EventsFailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec(backoff time.Duration) suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   backoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree is the process supervision hierarchy:
//   - maintenance: trend refresh and cache pruning
//   - events: interaction event consumers
//   - api: HTTP server
//
// A consumer crash loop does not stop the API from serving.
type SupervisorTree struct {
	root        *suture.Supervisor
	maintenance *suture.Supervisor
	events      *suture.Supervisor
	api         *suture.Supervisor
	config      TreeConfig
}

// NewSupervisorTree creates the tree. Zero config values take defaults.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) *SupervisorTree {
	config = config.withDefaults()

	// MustHook has a pointer receiver. Children inherit the hook from root.
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()
	rootSpec := config.spec(config.FailureBackoff)
	rootSpec.EventHook = hook

	t := &SupervisorTree{
		root:        suture.New("stylist", rootSpec),
		maintenance: suture.New("maintenance-layer", config.spec(config.FailureBackoff)),
		events:      suture.New("events-layer", config.spec(config.EventsFailureBackoff)),
		api:         suture.New("api-layer", config.spec(config.FailureBackoff)),
		config:      config,
	}
	t.root.Add(t.maintenance)
	t.root.Add(t.events)
	t.root.Add(t.api)
	return t
}

// Config returns the effective tree configuration.
func (t *SupervisorTree) Config() TreeConfig {
	return t.config
}

// AddMaintenanceService adds a background maintenance service.
func (t *SupervisorTree) AddMaintenanceService(svc suture.Service) suture.ServiceToken {
	return t.maintenance.Add(svc)
}

// AddEventService adds an event consumer.
func (t *SupervisorTree) AddEventService(svc suture.Service) suture.ServiceToken {
	return t.events.Add(svc)
}

// AddAPIService adds an HTTP-facing service.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs the tree until ctx is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// result when the tree stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
