// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package catalog

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/breaker"
	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
)

// BreakerGateway guards a Gateway with a query timeout and a circuit breaker.
// Every failure is returned wrapping models.ErrCatalogUnavailable, except a
// cancelled caller context which is returned as is.
type BreakerGateway struct {
	inner   Gateway
	cb      *breaker.Breaker[any]
	timeout time.Duration
	logger  zerolog.Logger
}

var (
	_ Gateway = (*BreakerGateway)(nil)
	_ Pinger  = (*BreakerGateway)(nil)
)

// NewBreakerGateway wraps inner. A non-positive timeout disables the per-query deadline.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerGateway(inner Gateway, cfg breaker.Config, timeout time.Duration, logger zerolog.Logger) *BreakerGateway {
	return &BreakerGateway{
		inner:   inner,
		cb:      breaker.New[any](cfg, logger),
		timeout: timeout,
		logger:  logger.With().Str("component", "catalog_breaker").Logger(),
	}
}

// Inner returns the wrapped gateway.
func (g *BreakerGateway) Inner() Gateway {
	return g.inner
}

// GetProducts implements Gateway.
func (g *BreakerGateway) GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	v, err := g.do(ctx, "get_products", func(ctx context.Context) (any, error) {
		return g.inner.GetProducts(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	products, _ := v.([]models.Product)
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetProductByID implements Gateway.
func (g *BreakerGateway) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	v, err := g.do(ctx, "get_product", func(ctx context.Context) (any, error) {
		return g.inner.GetProductByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	p, _ := v.(*models.Product)
	return p, nil
}

// GetOrdersByUserID implements Gateway.
func (g *BreakerGateway) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	v, err := g.do(ctx, "get_orders", func(ctx context.Context) (any, error) {
		return g.inner.GetOrdersByUserID(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	orders, _ := v.([]models.Order)
	return orders, nil
}

// GetUser implements Gateway.
func (g *BreakerGateway) GetUser(ctx context.Context, id string) (*models.User, error) {
	v, err := g.do(ctx, "get_user", func(ctx context.Context) (any, error) {
		return g.inner.GetUser(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	u, _ := v.(*models.User)
	return u, nil
}

// Ping checks the wrapped gateway when it supports health checks.
func (g *BreakerGateway) Ping(ctx context.Context) error {
	p, ok := g.inner.(Pinger)
	if !ok {
		return nil
	}
	_, err := g.do(ctx, "ping", func(ctx context.Context) (any, error) {
		return nil, p.Ping(ctx)
	})
	return err
}

// Close closes the wrapped gateway when it holds resources.
func (g *BreakerGateway) Close() error {
	if c, ok := g.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (g *BreakerGateway) do(ctx context.Context, op string, fn func(context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	v, err := g.cb.Execute(func() (any, error) {
		qctx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			qctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		v, err := fn(qctx)
		return v, breaker.CallerCanceled(ctx, err)
	})
	metrics.RecordCatalogQuery(op, time.Since(start), err)
	if err == nil {
		return v, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if breaker.IsRejected(err) {
		g.logger.Debug().Str("op", op).Msg("catalog call rejected by open circuit")
	} else {
		g.logger.Warn().Err(err).Str("op", op).Msg("catalog call failed")
	}
	return nil, fmt.Errorf("%s: %w: %w", op, models.ErrCatalogUnavailable, err)
}
