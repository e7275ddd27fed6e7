// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package scoring

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
)

// HTTPModelConfig configures an HTTPModel.
type HTTPModelConfig struct {
	URL string

	// RequestTimeout bounds the HTTP round trip independently of the scorer timeout.
	RequestTimeout time.Duration

	// RequestsPerSecond and Burst limit outbound calls. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

type predictRequest struct {
	Instances [][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// HTTPModel calls a remote prediction endpoint.
type HTTPModel struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Model = (*HTTPModel)(nil)

// NewHTTPModel creates a remote model client.
func NewHTTPModel(cfg HTTPModelConfig) *HTTPModel {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	m := &HTTPModel{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		m.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return m
}

// Predict posts vectors and decodes one prediction per vector.
func (m *HTTPModel) Predict(ctx context.Context, vectors [][]float64) ([]float64, error) {
	start := time.Now()
	preds, err := m.predict(ctx, vectors)
	metrics.RecordModelRequest(time.Since(start), err)
	return preds, err
}

func (m *HTTPModel) predict(ctx context.Context, vectors [][]float64) ([]float64, error) {
	if m.url == "" {
		return nil, models.ErrModelUnavailable
	}
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(predictRequest{Instances: vectors})
	if err != nil {
		return nil, fmt.Errorf("failed to encode prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read prediction response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: status %d", models.ErrModelUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("prediction failed with status %d: %s", resp.StatusCode, string(data))
	}

	var out predictResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse prediction response: %w", err)
	}
	return out.Predictions, nil
}
