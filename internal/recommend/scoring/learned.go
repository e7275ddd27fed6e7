// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/breaker"
	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
)

// Model is a trained predictive model. Predict returns one probability per
// input vector.
type Model interface {
	Predict(ctx context.Context, vectors [][]float64) ([]float64, error)
}

// ModelFunc adapts an ordinary function to Model.
type ModelFunc func(ctx context.Context, vectors [][]float64) ([]float64, error)

// Predict calls f.
func (f ModelFunc) Predict(ctx context.Context, vectors [][]float64) ([]float64, error) {
	return f(ctx, vectors)
}

// Fallback reasons recorded in metrics and logs.
const (
	ReasonUnavailable   = "unavailable"
	ReasonTimeout       = "timeout"
	ReasonError         = "error"
	ReasonCircuitOpen   = "circuit_open"
	ReasonInvalidOutput = "invalid_output"
	ReasonCanceled      = "canceled"
)

var errInvalidOutput = errors.New("invalid model output")

// LearnedConfig configures a LearnedScorer.
type LearnedConfig struct {
	// Name labels metrics and the breaker.
	Name string

	// Timeout bounds each Predict call.
	Timeout time.Duration

	// Breaker configures the circuit breaker around the model.
	Breaker breaker.Config
}

// DefaultLearnedConfig returns defaults for a scorer named name.
func DefaultLearnedConfig(name string) LearnedConfig {
	return LearnedConfig{
		Name:    name,
		Timeout: 200 * time.Millisecond,
		Breaker: breaker.DefaultConfig(name + "-model"),
	}
}

// LearnedScorer delegates to a Model and falls back on any failure.
type LearnedScorer struct {
	name     string
	model    Model
	fallback Scorer
	timeout  time.Duration
	breaker  *breaker.Breaker[[]float64]
	logger   zerolog.Logger
}

var _ Scorer = (*LearnedScorer)(nil)

// NewLearnedScorer wraps model with a timeout, a circuit breaker and fallback.
// A nil model makes every call use the fallback.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLearnedScorer(model Model, fallback Scorer, cfg LearnedConfig, logger zerolog.Logger) *LearnedScorer {
	if cfg.Name == "" {
		cfg.Name = "learned"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLearnedConfig(cfg.Name).Timeout
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = breaker.DefaultConfig(cfg.Name + "-model")
	}
	return &LearnedScorer{
		name:     cfg.Name,
		model:    model,
		fallback: fallback,
		timeout:  cfg.Timeout,
		breaker:  breaker.New[[]float64](cfg.Breaker, logger),
		logger:   logger.With().Str("component", "scoring").Str("scorer", cfg.Name).Logger(),
	}
}

// Name returns the scorer identifier.
func (s *LearnedScorer) Name() string {
	return s.name
}

// ScoreBatch returns model predictions, or fallback scores when the model fails.
func (s *LearnedScorer) ScoreBatch(ctx context.Context, vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return []float64{}
	}
	if s.model == nil {
		metrics.RecordScoringFallback(s.name, ReasonUnavailable, len(vectors))
		return s.fallback.ScoreBatch(ctx, vectors)
	}

	preds, err := s.breaker.Execute(func() ([]float64, error) {
		return s.predict(ctx, vectors)
	})
	if err != nil {
		reason := fallbackReason(err)
		metrics.RecordScoringFallback(s.name, reason, len(vectors))
		event := s.logger.Warn()
		if reason == ReasonCanceled {
			event = s.logger.Debug()
		}
		event.
			Err(err).
			Str("reason", reason).
			Int("batch", len(vectors)).
			Msg("model scoring failed, using fallback")
		return s.fallback.ScoreBatch(ctx, vectors)
	}
	return preds
}

type prediction struct {
	scores []float64
	err    error
}

// predict enforces the timeout even when the model ignores its context.
// Failures after the caller cancelled parent are not held against the model.
func (s *LearnedScorer) predict(parent context.Context, vectors [][]float64) ([]float64, error) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	done := make(chan prediction, 1)
	go func() {
		scores, err := s.model.Predict(ctx, vectors)
		done <- prediction{scores: scores, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, breaker.CallerCanceled(parent, fmt.Errorf("predict: %w", ctx.Err()))
	case p := <-done:
		if p.err != nil {
			return nil, breaker.CallerCanceled(parent, fmt.Errorf("predict: %w", p.err))
		}
		if err := checkPredictions(p.scores, len(vectors)); err != nil {
			return nil, err
		}
		return p.scores, nil
	}
}

func checkPredictions(scores []float64, want int) error {
	if len(scores) != want {
		return fmt.Errorf("%w: got %d predictions for %d vectors", errInvalidOutput, len(scores), want)
	}
	for i, x := range scores {
		if math.IsNaN(x) || x < 0 || x > 1 {
			return fmt.Errorf("%w: prediction %d = %v", errInvalidOutput, i, x)
		}
	}
	return nil
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, breaker.ErrCallerCanceled):
		return ReasonCanceled
	case breaker.IsRejected(err):
		return ReasonCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, errInvalidOutput):
		return ReasonInvalidOutput
	case errors.Is(err, models.ErrModelUnavailable):
		return ReasonUnavailable
	default:
		return ReasonError
	}
}
