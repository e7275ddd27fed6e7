// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

func TestBreakerOpensAfterFailures(t *testing.T) {
	cfg := Config{
		Name:         "test-open",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.5,
	}
	b := New[int](cfg, zerolog.Nop())
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		if _, err := b.Execute(func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v, want boom", i, err)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	_, err := b.Execute(func() (int, error) { return 1, nil })
	if !IsRejected(err) {
		t.Errorf("err = %v, want rejection", err)
	}
}

func TestBreakerIgnoresCallerCancellation(t *testing.T) {
	cfg := Config{
		Name:         "test-cancel",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  2,
		FailureRatio: 0.5,
	}
	b := New[int](cfg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		_, err := b.Execute(func() (int, error) { return 0, CallerCanceled(ctx, ctx.Err()) })
		if !errors.Is(err, ErrCallerCanceled) || !errors.Is(err, context.Canceled) {
			t.Fatalf("call %d: err = %v, want caller canceled", i, err)
		}
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestCallerCanceled(t *testing.T) {
	boom := errors.New("boom")
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancelExpired := context.WithTimeout(context.Background(), -time.Second)
	defer cancelExpired()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want bool
	}{
		{"nil error", canceled, nil, false},
		{"live context", context.Background(), boom, false},
		{"canceled context", canceled, boom, true},
		{"deadline is not a cancellation", expired, boom, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CallerCanceled(tt.ctx, tt.err)
			if got := errors.Is(err, ErrCallerCanceled); got != tt.want {
				t.Errorf("errors.Is(ErrCallerCanceled) = %v, want %v", got, tt.want)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("original error lost: %v", err)
			}
		})
	}
}

func TestBreakerPassesResults(t *testing.T) {
	b := New[string](DefaultConfig("test-pass"), zerolog.Nop())
	got, err := b.Execute(func() (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Errorf("Execute() = %q, %v", got, err)
	}
	if b.Name() != "test-pass" {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig("x")
	if err := valid.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing name", func(c *Config) { c.Name = "" }},
		{"zero max requests", func(c *Config) { c.MaxRequests = 0 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"ratio above one", func(c *Config) { c.FailureRatio = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("x")
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestStateHelpers(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		value float64
		name  string
	}{
		{gobreaker.StateClosed, 0, "closed"},
		{gobreaker.StateHalfOpen, 1, "half-open"},
		{gobreaker.StateOpen, 2, "open"},
	}
	for _, tt := range tests {
		if got := StateValue(tt.state); got != tt.value {
			t.Errorf("StateValue(%v) = %v, want %v", tt.state, got, tt.value)
		}
		if got := StateString(tt.state); got != tt.name {
			t.Errorf("StateString(%v) = %q, want %q", tt.state, got, tt.name)
		}
	}
}
