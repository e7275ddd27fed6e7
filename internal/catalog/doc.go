// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package catalog provides read-only access to products, users and orders.

Three implementations of Gateway are available:

  - MemoryGateway keeps the catalog in process, optionally loaded from a
    JSON seed file. It backs tests and single-node demos.
  - SQLGateway reads from DuckDB (embedded) or PostgreSQL through
    database/sql. EnsureSchema creates the products, users, orders and
    order_items tables when they are missing.
  - BreakerGateway wraps any Gateway with a per-query timeout and a circuit
    breaker, and reports every failure as models.ErrCatalogUnavailable.

Unknown IDs are not errors: GetProductByID and GetUser return (nil, nil).

Usage:

	gw, err := catalog.Open(ctx, &cfg.Catalog, logger)
	if err != nil {
	    return err
	}
	defer gw.Close()

	products, err := gw.GetProducts(ctx, models.ProductFilter{InStockOnly: true})
*/
package catalog
