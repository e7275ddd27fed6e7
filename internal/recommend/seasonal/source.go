// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package seasonal

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// FileTrendSource reads a TrendData JSON document from disk on every fetch, so
// an external job can replace the file between refreshes.
type FileTrendSource struct {
	Path string
}

// Name returns the source identifier.
func (s *FileTrendSource) Name() string { return "file:" + s.Path }

// Fetch reads and decodes the trend file.
func (s *FileTrendSource) Fetch(ctx context.Context) (*TrendData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read trend file: %w", err)
	}
	var data TrendData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse trend file: %w", err)
	}
	return &data, nil
}
