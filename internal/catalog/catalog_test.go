// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/stylist/internal/breaker"
	"github.com/tomtom215/stylist/internal/models"
)

const seedJSON = `{
  "products": [
    {"id": "p1", "name": "Oxford Shirt", "category": "tops", "price": 60, "brand": "acme", "colors": ["white"], "style": "classic", "season": "spring", "rating": 4.5, "stock": 3},
    {"id": "p2", "name": "Chinos", "category": "bottoms", "price": 80, "brand": "acme", "colors": ["beige"], "style": "classic", "season": "spring", "rating": 4.1, "stock": 0},
    {"id": "p3", "name": "Sneakers", "category": "Shoes", "price": 120, "brand": "stride", "colors": ["white", "red"], "style": "casual", "season": "summer", "rating": 3.9, "stock": 7, "sizes": ["42", "43"]}
  ],
  "users": [{"id": "u1", "name": "Sam"}],
  "orders": [
    {"id": "o2", "user_id": "u1", "total": 120, "created_at": "2026-03-02T10:00:00Z", "items": [{"product_id": "p3", "quantity": 1, "price": 120}]},
    {"id": "o1", "user_id": "u1", "total": 140, "created_at": "2026-03-01T10:00:00Z", "items": [{"product_id": "p1", "quantity": 1, "price": 60}, {"product_id": "p2", "quantity": 1, "price": 80}]}
  ]
}`

func testSeed(t *testing.T) *Seed {
	t.Helper()
	seed, err := DecodeSeed(strings.NewReader(seedJSON))
	if err != nil {
		t.Fatalf("DecodeSeed() error = %v", err)
	}
	return seed
}

// exerciseGateway runs the same behavior checks against any seeded gateway.
func exerciseGateway(t *testing.T, gw Gateway) {
	t.Helper()
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.ProductFilter
		want   []string
	}{
		{"all", models.ProductFilter{}, []string{"p1", "p2", "p3"}},
		{"in stock", models.ProductFilter{InStockOnly: true}, []string{"p1", "p3"}},
		{"category case-insensitive", models.ProductFilter{Categories: []string{"shoes"}}, []string{"p3"}},
		{"price window", models.ProductFilter{MinPrice: 70, MaxPrice: 100}, []string{"p2"}},
		{"season", models.ProductFilter{Season: "SPRING"}, []string{"p1", "p2"}},
		{"limit", models.ProductFilter{Limit: 2}, []string{"p1", "p2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := gw.GetProducts(ctx, tt.filter)
			if err != nil {
				t.Fatalf("GetProducts() error = %v", err)
			}
			got := make([]string, len(products))
			for i := range products {
				got[i] = products[i].ID
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("GetProducts() = %v, want %v", got, tt.want)
			}
		})
	}

	p, err := gw.GetProductByID(ctx, "p3")
	if err != nil || p == nil {
		t.Fatalf("GetProductByID(p3) = %v, %v", p, err)
	}
	if len(p.Colors) != 2 || p.Colors[1] != "red" || len(p.Sizes) != 2 {
		t.Errorf("GetProductByID(p3) tags = %v / %v", p.Colors, p.Sizes)
	}

	missing, err := gw.GetProductByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("GetProductByID(unknown) = %v, %v, want nil, nil", missing, err)
	}

	u, err := gw.GetUser(ctx, "u1")
	if err != nil || u == nil || u.Name != "Sam" {
		t.Errorf("GetUser(u1) = %v, %v", u, err)
	}
	nobody, err := gw.GetUser(ctx, "ghost")
	if err != nil || nobody != nil {
		t.Errorf("GetUser(unknown) = %v, %v, want nil, nil", nobody, err)
	}

	orders, err := gw.GetOrdersByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrdersByUserID() error = %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "o1" || orders[1].ID != "o2" {
		t.Fatalf("orders = %+v, want o1 then o2", orders)
	}
	if len(orders[0].Items) != 2 || orders[0].Items[0].ProductID != "p1" {
		t.Errorf("order o1 items = %+v", orders[0].Items)
	}

	none, err := gw.GetOrdersByUserID(ctx, "ghost")
	if err != nil || len(none) != 0 {
		t.Errorf("GetOrdersByUserID(unknown) = %v, %v", none, err)
	}
}

func TestMemoryGateway(t *testing.T) {
	gw := NewMemoryGateway()
	gw.Load(testSeed(t))
	exerciseGateway(t, gw)

	if gw.Len() != 3 {
		t.Errorf("Len() = %d, want 3", gw.Len())
	}
}

func TestMemoryGatewayReturnsCopies(t *testing.T) {
	gw := NewMemoryGateway()
	gw.Load(testSeed(t))
	ctx := context.Background()

	p, _ := gw.GetProductByID(ctx, "p1")
	p.Colors[0] = "black"
	p.Stock = 0

	again, _ := gw.GetProductByID(ctx, "p1")
	if again.Colors[0] != "white" || again.Stock != 3 {
		t.Errorf("stored product mutated through returned copy: %+v", again)
	}
}

func TestMemoryGatewayPutReplaces(t *testing.T) {
	gw := NewMemoryGateway()
	gw.PutProducts(models.Product{ID: "a", Category: "tops", Stock: 1})
	gw.PutProducts(models.Product{ID: "a", Category: "shoes", Stock: 1})

	p, _ := gw.GetProductByID(context.Background(), "a")
	if gw.Len() != 1 || p.Category != "shoes" {
		t.Errorf("PutProducts() did not replace: len=%d category=%s", gw.Len(), p.Category)
	}
}

func TestMemoryGatewayCancelledContext(t *testing.T) {
	gw := NewMemoryGateway()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gw.GetProducts(ctx, models.ProductFilter{}); !errors.Is(err, context.Canceled) {
		t.Errorf("GetProducts() error = %v, want context.Canceled", err)
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(seedJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	seed, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if len(seed.Products) != 3 || len(seed.Orders) != 2 {
		t.Errorf("seed = %d products, %d orders", len(seed.Products), len(seed.Orders))
	}

	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadSeedFile(missing) error = nil")
	}
	if _, err := DecodeSeed(strings.NewReader("{not json")); err == nil {
		t.Error("DecodeSeed(malformed) error = nil")
	}
}

func TestSQLGatewayDuckDB(t *testing.T) {
	ctx := context.Background()
	gw, err := OpenSQL(ctx, DriverDuckDB, "")
	if err != nil {
		t.Fatalf("OpenSQL() error = %v", err)
	}
	defer closeQuietly(gw)

	if err := gw.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	// Idempotent schema creation and seeding.
	if err := gw.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() second call error = %v", err)
	}
	seed := testSeed(t)
	if err := gw.Load(ctx, seed); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := gw.Load(ctx, seed); err != nil {
		t.Fatalf("Load() second call error = %v", err)
	}

	exerciseGateway(t, gw)

	if err := gw.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestBuildProductQuery(t *testing.T) {
	query, args := buildProductQuery(&models.ProductFilter{
		Categories:  []string{"Tops", "shoes"},
		MaxPrice:    90,
		InStockOnly: true,
		Limit:       5,
	})
	want := "SELECT " + productColumns + " FROM products WHERE lower(category) IN ($1, $2) AND price <= $3 AND stock > 0 ORDER BY id LIMIT 5"
	if query != want {
		t.Errorf("query =\n%s\nwant\n%s", query, want)
	}
	if len(args) != 3 || args[0] != "tops" {
		t.Errorf("args = %v", args)
	}
}

func TestOpenSQLUnsupportedDriver(t *testing.T) {
	if _, err := OpenSQL(context.Background(), "oracle", ""); err == nil {
		t.Error("OpenSQL(oracle) error = nil")
	}
}

// failingGateway fails every call with err.
type failingGateway struct {
	err   error
	calls int
}

func (f *failingGateway) GetProducts(context.Context, models.ProductFilter) ([]models.Product, error) {
	f.calls++
	return nil, f.err
}

func (f *failingGateway) GetProductByID(context.Context, string) (*models.Product, error) {
	f.calls++
	return nil, f.err
}

func (f *failingGateway) GetOrdersByUserID(context.Context, string) ([]models.Order, error) {
	f.calls++
	return nil, f.err
}

func (f *failingGateway) GetUser(context.Context, string) (*models.User, error) {
	f.calls++
	return nil, f.err
}

func testBreakerConfig(name string) breaker.Config {
	cfg := breaker.DefaultConfig(name)
	cfg.MinRequests = 3
	cfg.FailureRatio = 0.5
	cfg.Timeout = time.Hour
	return cfg
}

func TestBreakerGatewayWrapsFailures(t *testing.T) {
	inner := &failingGateway{err: errors.New("connection refused")}
	gw := NewBreakerGateway(inner, testBreakerConfig("catalog_wrap_test"), time.Second, zerolog.Nop())
	ctx := context.Background()

	checks := []struct {
		name string
		call func() error
	}{
		{"products", func() error { _, err := gw.GetProducts(ctx, models.ProductFilter{}); return err }},
		{"product", func() error { _, err := gw.GetProductByID(ctx, "p"); return err }},
		{"orders", func() error { _, err := gw.GetOrdersByUserID(ctx, "u"); return err }},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			err := c.call()
			if !errors.Is(err, models.ErrCatalogUnavailable) {
				t.Errorf("error = %v, want ErrCatalogUnavailable", err)
			}
		})
	}

	// The breaker is open now; calls are rejected without reaching inner.
	before := inner.calls
	_, err := gw.GetUser(ctx, "u")
	if !errors.Is(err, models.ErrCatalogUnavailable) {
		t.Errorf("rejected call error = %v, want ErrCatalogUnavailable", err)
	}
	if inner.calls != before {
		t.Errorf("inner called %d times while circuit open", inner.calls-before)
	}
}

func TestBreakerGatewayPassesThrough(t *testing.T) {
	mem := NewMemoryGateway()
	mem.Load(testSeed(t))
	gw := NewBreakerGateway(mem, testBreakerConfig("catalog_pass_test"), time.Second, zerolog.Nop())
	exerciseGateway(t, gw)

	if err := gw.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if gw.Inner() != Gateway(mem) {
		t.Error("Inner() does not return the wrapped gateway")
	}
	if err := gw.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestBreakerGatewayEmptyProductsNotNil(t *testing.T) {
	gw := NewBreakerGateway(NewMemoryGateway(), testBreakerConfig("catalog_empty_test"), time.Second, zerolog.Nop())
	products, err := gw.GetProducts(context.Background(), models.ProductFilter{})
	if err != nil || products == nil {
		t.Errorf("GetProducts() = %v, %v, want empty non-nil slice", products, err)
	}
}

func TestBreakerGatewayCancelledContext(t *testing.T) {
	inner := &failingGateway{err: errors.New("boom")}
	gw := NewBreakerGateway(inner, testBreakerConfig("catalog_cancel_test"), time.Second, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.GetProducts(ctx, models.ProductFilter{})
	if !errors.Is(err, context.Canceled) || errors.Is(err, models.ErrCatalogUnavailable) {
		t.Errorf("error = %v, want bare context.Canceled", err)
	}
	if inner.calls != 0 {
		t.Error("inner called with cancelled context")
	}
}

// abandoningGateway cancels the caller mid-query, like a disconnecting client.
type abandoningGateway struct {
	failingGateway
	cancel context.CancelFunc
}

func (a *abandoningGateway) GetProducts(ctx context.Context, _ models.ProductFilter) ([]models.Product, error) {
	a.calls++
	a.cancel()
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBreakerGatewayMidQueryCancelKeepsCircuitClosed(t *testing.T) {
	inner := &abandoningGateway{}
	gw := NewBreakerGateway(inner, testBreakerConfig("catalog_abandon_test"), time.Second, zerolog.Nop())

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		inner.cancel = cancel
		_, err := gw.GetProducts(ctx, models.ProductFilter{})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("call %d: error = %v, want context.Canceled", i, err)
		}
	}
	if inner.calls != 5 {
		t.Errorf("inner called %d times, want 5", inner.calls)
	}
	if gw.cb.State() != gobreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed", gw.cb.State())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"duckdb without dsn", func(c *Config) { c.Driver = DriverDuckDB }, false},
		{"postgres without dsn", func(c *Config) { c.Driver = DriverPostgres }, true},
		{"unknown driver", func(c *Config) { c.Driver = "mongo" }, true},
		{"zero timeout", func(c *Config) { c.QueryTimeout = 0 }, true},
		{"bad breaker", func(c *Config) { c.Breaker.FailureRatio = 2 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenMemoryWithSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(seedJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.SeedFile = path
	cfg.Breaker.Name = "catalog_open_test"

	gw, err := Open(context.Background(), &cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer closeQuietly(gw)
	exerciseGateway(t, gw)
}
