// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB database/sql driver
	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL database/sql driver

	"github.com/tomtom215/stylist/internal/models"
)

// SQLGateway reads the catalog from DuckDB or PostgreSQL. Both dialects
// accept $n placeholders; only column types differ.
type SQLGateway struct {
	db     *sql.DB
	driver string
}

var (
	_ Gateway = (*SQLGateway)(nil)
	_ Pinger  = (*SQLGateway)(nil)
)

const productColumns = `id, name, category, price, brand, colors, style, season, rating, stock,
	featured, formality, discount_percent, sizes, image_url, created_at`

// OpenSQL opens and pings a catalog database. driver is duckdb or postgres.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLGateway, error) {
	var name string
	switch driver {
	case DriverDuckDB:
		name = "duckdb"
	case DriverPostgres:
		name = "pgx"
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", driver)
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	if driver == DriverPostgres {
		db.SetMaxIdleConns(8)
		db.SetMaxOpenConns(30)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}
	return &SQLGateway{db: db, driver: driver}, nil
}

// NewSQLGateway wraps an already open database.
func NewSQLGateway(db *sql.DB, driver string) *SQLGateway {
	return &SQLGateway{db: db, driver: driver}
}

// Close closes the database.
func (g *SQLGateway) Close() error {
	return g.db.Close()
}

// Ping checks the database connection.
func (g *SQLGateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

// EnsureSchema creates the catalog tables when they do not exist.
func (g *SQLGateway) EnsureSchema(ctx context.Context) error {
	floatType := "DOUBLE"
	if g.driver == DriverPostgres {
		floatType = "DOUBLE PRECISION"
	}
	queries := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			price ` + floatType + ` NOT NULL DEFAULT 0,
			brand TEXT NOT NULL DEFAULT '',
			colors TEXT NOT NULL DEFAULT '[]',
			style TEXT NOT NULL DEFAULT '',
			season TEXT NOT NULL DEFAULT '',
			rating ` + floatType + ` NOT NULL DEFAULT 0,
			stock INTEGER NOT NULL DEFAULT 0,
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			formality INTEGER NOT NULL DEFAULT 0,
			discount_percent ` + floatType + ` NOT NULL DEFAULT 0,
			sizes TEXT NOT NULL DEFAULT '[]',
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			total ` + floatType + ` NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			price ` + floatType + ` NOT NULL DEFAULT 0,
			PRIMARY KEY (order_id, product_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
	}
	for _, query := range queries {
		if _, err := g.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// Load inserts every record of seed, skipping rows whose key already exists.
func (g *SQLGateway) Load(ctx context.Context, seed *Seed) error {
	for i := range seed.Products {
		if err := g.InsertProduct(ctx, &seed.Products[i]); err != nil {
			return err
		}
	}
	for i := range seed.Users {
		u := &seed.Users[i]
		if _, err := g.db.ExecContext(ctx,
			`INSERT INTO users (id, name, email, created_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			u.ID, u.Name, u.Email, timeOrNow(u.CreatedAt)); err != nil {
			return fmt.Errorf("insert user %s: %w", u.ID, err)
		}
	}
	for i := range seed.Orders {
		if err := g.InsertOrder(ctx, &seed.Orders[i]); err != nil {
			return err
		}
	}
	return nil
}

// InsertProduct inserts p unless a product with the same ID exists.
func (g *SQLGateway) InsertProduct(ctx context.Context, p *models.Product) error {
	colors, err := encodeTags(p.Colors)
	if err != nil {
		return err
	}
	sizes, err := encodeTags(p.Sizes)
	if err != nil {
		return err
	}
	_, err = g.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Name, p.Category, p.Price, p.Brand, colors, p.Style, p.Season, p.Rating, p.Stock,
		p.Featured, p.Formality, p.DiscountPercent, sizes, p.ImageURL, timeOrNow(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert product %s: %w", p.ID, err)
	}
	return nil
}

// InsertOrder inserts o and its items in one transaction.
func (g *SQLGateway) InsertOrder(ctx context.Context, o *models.Order) (err error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order %s: %w", o.ID, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, total, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		o.ID, o.UserID, o.Total, timeOrNow(o.CreatedAt)); err != nil {
		return fmt.Errorf("insert order %s: %w", o.ID, err)
	}
	for _, item := range o.Items {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)
			ON CONFLICT (order_id, product_id) DO NOTHING`,
			o.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("insert order item %s/%s: %w", o.ID, item.ProductID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit order %s: %w", o.ID, err)
	}
	return nil
}

// GetProducts returns products matching filter ordered by ID.
func (g *SQLGateway) GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query, args := buildProductQuery(&filter)
	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer closeQuietly(rows)

	products := make([]models.Product, 0, limitOr(filter.Limit, 128))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// buildProductQuery translates filter into SQL. Category and season
// comparisons are case-insensitive like ProductFilter.Matches.
func buildProductQuery(filter *models.ProductFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Categories) > 0 {
		ph := make([]string, len(filter.Categories))
		for i, c := range filter.Categories {
			ph[i] = next(strings.ToLower(c))
		}
		where = append(where, "lower(category) IN ("+strings.Join(ph, ", ")+")")
	}
	if filter.Season != "" {
		where = append(where, "lower(season) = "+next(strings.ToLower(filter.Season)))
	}
	if filter.MinPrice > 0 {
		where = append(where, "price >= "+next(filter.MinPrice))
	}
	if filter.MaxPrice > 0 {
		where = append(where, "price <= "+next(filter.MaxPrice))
	}
	if filter.InStockOnly {
		where = append(where, "stock > 0")
	}

	var b strings.Builder
	b.WriteString("SELECT " + productColumns + " FROM products")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY id")
	if filter.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", filter.Limit)
	}
	return b.String(), args
}

// GetProductByID returns the product or nil when it is unknown.
func (g *SQLGateway) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	row := g.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrdersByUserID returns the user's orders with their items, oldest first.
func (g *SQLGateway) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT o.id, o.total, o.created_at, i.product_id, i.quantity, i.price
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		WHERE o.user_id = $1
		ORDER BY o.created_at, o.id, i.product_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer closeQuietly(rows)

	orders := make([]models.Order, 0, 8)
	for rows.Next() {
		var (
			id        string
			total     float64
			createdAt time.Time
			productID sql.NullString
			quantity  sql.NullInt64
			price     sql.NullFloat64
		)
		if err := rows.Scan(&id, &total, &createdAt, &productID, &quantity, &price); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if n := len(orders); n == 0 || orders[n-1].ID != id {
			orders = append(orders, models.Order{
				ID:        id,
				UserID:    userID,
				Total:     total,
				CreatedAt: createdAt,
			})
		}
		if productID.Valid {
			last := &orders[len(orders)-1]
			last.Items = append(last.Items, models.OrderItem{
				ProductID: productID.String,
				Quantity:  int(quantity.Int64),
				Price:     price.Float64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// GetUser returns the user or nil when it is unknown.
func (g *SQLGateway) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := g.db.QueryRowContext(ctx,
		"SELECT id, name, email, created_at FROM users WHERE id = $1", id).
		Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user %s: %w", id, err)
	}
	return &u, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (models.Product, error) {
	var (
		p      models.Product
		colors string
		sizes  string
	)
	err := s.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Brand, &colors, &p.Style, &p.Season,
		&p.Rating, &p.Stock, &p.Featured, &p.Formality, &p.DiscountPercent, &sizes, &p.ImageURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("scan product: %w", err)
	}
	if p.Colors, err = decodeTags(colors); err != nil {
		return p, fmt.Errorf("product %s colors: %w", p.ID, err)
	}
	if p.Sizes, err = decodeTags(sizes); err != nil {
		return p, fmt.Errorf("product %s sizes: %w", p.ID, err)
	}
	return p, nil
}

// Tag sets are stored as JSON arrays so both dialects share one schema.
func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
