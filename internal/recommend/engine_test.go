// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/features"
	"github.com/tomtom215/stylist/internal/recommend/outfit"
	"github.com/tomtom215/stylist/internal/recommend/scoring"
	"github.com/tomtom215/stylist/internal/recommend/taxonomy"
	"github.com/tomtom215/stylist/internal/recommend/wardrobe"
)

var summer = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

// fakeCatalog is an in-memory CatalogGateway with injectable failure.
type fakeCatalog struct {
	mu       sync.Mutex
	products []models.Product
	users    map[string]*models.User
	orders   map[string][]models.Order
	err      error
}

func newFakeCatalog(products ...models.Product) *fakeCatalog {
	return &fakeCatalog{
		products: products,
		users:    map[string]*models.User{},
		orders:   map[string][]models.Order{},
	}
}

func (f *fakeCatalog) addUser(id string, orders ...models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id] = &models.User{ID: id, Name: id}
	f.orders[id] = orders
}

func (f *fakeCatalog) GetProducts(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Product, 0, len(f.products))
	for i := range f.products {
		if filter.Matches(&f.products[i]) {
			out = append(out, f.products[i])
		}
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) GetOrdersByUserID(_ context.Context, userID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.orders[userID], nil
}

func (f *fakeCatalog) GetUser(_ context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.users[userID], nil
}

func (f *fakeCatalog) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func product(id, category, style, color string, price float64) models.Product {
	return models.Product{
		ID:       id,
		Name:     id,
		Category: category,
		Style:    style,
		Colors:   []string{color},
		Price:    price,
		Rating:   4,
		Stock:    5,
		Season:   "all",
	}
}

func testCatalog() *fakeCatalog {
	return newFakeCatalog(
		product("t1", "tops", "casual", "white", 40),
		product("t2", "tops", "casual", "navy", 60),
		product("b1", "bottoms", "casual", "denim", 80),
		product("b2", "bottoms", "classic", "black", 90),
		product("s1", "shoes", "casual", "white", 120),
		product("o1", "outerwear", "classic", "camel", 180),
	)
}

func newTestEngine(t *testing.T, catalog CatalogGateway, opts ...Option) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Scoring.BatchSize = 2
	cfg.Scoring.Workers = 2
	opts = append([]Option{WithClock(func() time.Time { return summer })}, opts...)
	e, err := NewEngine(cfg, catalog, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngineValidation(t *testing.T) {
	if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
		t.Error("expected error for nil catalog")
	}

	cfg := DefaultConfig()
	cfg.Blend.Base = 0.9
	if _, err := NewEngine(cfg, testCatalog(), zerolog.Nop()); err == nil {
		t.Error("expected error for blend weights not summing to 1")
	}

	if _, err := NewEngine(nil, testCatalog(), zerolog.Nop()); err != nil {
		t.Errorf("NewEngine(nil config) error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero default limit", func(c *Config) { c.Limits.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Limits.MaxLimit = 1 }},
		{"zero diversity cap", func(c *Config) { c.Limits.DiversityCap = 0 }},
		{"zero batch", func(c *Config) { c.Scoring.BatchSize = 0 }},
		{"negative weight", func(c *Config) { c.Blend.Trend = -0.1; c.Blend.Base = 0.8 }},
		{"inverted price", func(c *Config) { c.Profile.PriceMin = 300 }},
		{"formality out of range", func(c *Config) { c.Profile.Formality = 6 }},
		{"zero ttl", func(c *Config) { c.Cache.ProfileTTL = 0 }},
		{"history ttl below profile ttl", func(c *Config) { c.Cache.HistoryTTL = time.Minute }},
		{"bad outfit threshold", func(c *Config) { c.Outfit.Threshold = 2 }},
		{"bad wardrobe severity", func(c *Config) { c.Wardrobe.SeasonalSeverity = 9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestUnknownUserGetsDefaultProfile(t *testing.T) {
	e := newTestEngine(t, testCatalog())

	p, err := e.Profile(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if !p.IsDefault {
		t.Error("expected default profile")
	}
	if p.Style.PriceRange != (models.PriceRange{Min: 50, Max: 200}) {
		t.Errorf("PriceRange = %+v", p.Style.PriceRange)
	}
	if p.Style.FormalityPreference != 2 || p.Style.Trendiness != 3 {
		t.Errorf("formality/trendiness = %d/%d, want 2/3", p.Style.FormalityPreference, p.Style.Trendiness)
	}
}

func TestUpdateThenRecommendReflectsCategoryPreference(t *testing.T) {
	catalog := testCatalog()
	catalog.addUser("u1")

	categoryScorer := scoring.NewWeightedSum("category", 0,
		scoring.Term{Index: features.DimCategoryPreference, Weight: 1})
	e := newTestEngine(t, catalog, WithScorer(categoryScorer))
	ctx := context.Background()

	before, err := e.GetPersonalizedRecommendations(ctx, "u1", 3, "")
	if err != nil {
		t.Fatalf("GetPersonalizedRecommendations() error = %v", err)
	}
	if len(before) == 0 || before[0].Product.Category == "bottoms" {
		t.Fatalf("unexpected baseline ranking: %+v", before)
	}

	err = e.UpdateUserProfile(ctx, "u1", models.InteractionEvent{
		ProductID: "b1",
		Type:      models.InteractionView,
	})
	if err != nil {
		t.Fatalf("UpdateUserProfile() error = %v", err)
	}

	p, _ := e.Profile(ctx, "u1")
	if got := p.Style.CategoryPreferences["bottoms"]; got != 1 {
		t.Errorf("CategoryPreferences[bottoms] = %v, want 1", got)
	}
	if p.History.Len() != 1 || p.History.Views[0].Category != "bottoms" {
		t.Errorf("event not enriched into history: %+v", p.History)
	}

	after, err := e.GetPersonalizedRecommendations(ctx, "u1", 3, "")
	if err != nil {
		t.Fatalf("GetPersonalizedRecommendations() error = %v", err)
	}
	if after[0].Product.Category != "bottoms" {
		t.Errorf("top recommendation category = %s, want bottoms", after[0].Product.Category)
	}

	// Re-running with no new events is idempotent.
	again, _ := e.GetPersonalizedRecommendations(ctx, "u1", 3, "")
	for i := range after {
		if again[i].Product.ID != after[i].Product.ID || again[i].RelevanceScore != after[i].RelevanceScore {
			t.Fatalf("repeat call differs at %d: %+v vs %+v", i, again[i], after[i])
		}
	}
}

func TestUpdateUserProfileRejectsEmptyUser(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	err := e.UpdateUserProfile(context.Background(), "", models.InteractionEvent{ProductID: "t1"})
	if !errors.Is(err, models.ErrInvalidProfileInput) {
		t.Errorf("error = %v, want ErrInvalidProfileInput", err)
	}
}

func TestUpdateUserProfileConcurrent(t *testing.T) {
	catalog := testCatalog()
	catalog.addUser("u1")
	e := newTestEngine(t, catalog)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.UpdateUserProfile(ctx, "u1", models.InteractionEvent{
				ID:        fmt.Sprintf("ev-%d", i),
				ProductID: "t1",
				Type:      models.InteractionWishlist,
			})
		}()
	}
	wg.Wait()

	p, err := e.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if got := len(p.History.Wishlist); got != n {
		t.Errorf("wishlist events = %d, want %d", got, n)
	}
}

func TestExpiredProfileKeepsRecordedInteractions(t *testing.T) {
	catalog := testCatalog()
	catalog.addUser("u1", models.Order{
		ID:        "o-1",
		UserID:    "u1",
		Items:     []models.OrderItem{{ProductID: "t1", Quantity: 1, Price: 40}},
		CreatedAt: summer.AddDate(0, -1, 0),
	})

	cfg := DefaultConfig()
	cfg.Cache.ProfileTTL = 20 * time.Millisecond
	e, err := NewEngine(cfg, catalog, zerolog.Nop(), WithClock(func() time.Time { return summer }))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := e.UpdateUserProfile(ctx, "u1", models.InteractionEvent{
			ID:        fmt.Sprintf("wish-%d", i),
			ProductID: "b1",
			Type:      models.InteractionWishlist,
		})
		if err != nil {
			t.Fatalf("UpdateUserProfile() error = %v", err)
		}
	}
	before, _ := e.Profile(ctx, "u1")
	wantBottoms := before.Style.CategoryPreferences["bottoms"]

	time.Sleep(50 * time.Millisecond)

	after, err := e.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if after.IsDefault {
		t.Fatal("expired profile rebuilt as default")
	}
	if len(after.History.Wishlist) != 3 {
		t.Errorf("wishlist events = %d, want 3", len(after.History.Wishlist))
	}
	if len(after.History.Purchases) != 1 {
		t.Errorf("purchases = %d, want 1 (orders only, not duplicated)", len(after.History.Purchases))
	}
	if got := after.Style.CategoryPreferences["bottoms"]; got != wantBottoms {
		t.Errorf("CategoryPreferences[bottoms] = %v, want %v", got, wantBottoms)
	}
}

func TestRecommendationsScoresAndCap(t *testing.T) {
	var products []models.Product
	for i := 0; i < 10; i++ {
		products = append(products, product(fmt.Sprintf("top-%02d", i), "tops", "casual", "white", 50+float64(i)))
	}
	products = append(products, product("b1", "bottoms", "casual", "black", 70))
	catalog := newFakeCatalog(products...)
	e := newTestEngine(t, catalog)

	got, err := e.GetPersonalizedRecommendations(context.Background(), "anyone", 10, "")
	if err != nil {
		t.Fatalf("GetPersonalizedRecommendations() error = %v", err)
	}
	if len(got) != 4 {
		t.Errorf("len = %d, want 4 (3 tops + 1 bottom, short list)", len(got))
	}
	tops := 0
	for _, c := range got {
		if c.RelevanceScore < 0 || c.RelevanceScore > 1 {
			t.Errorf("score %v out of range", c.RelevanceScore)
		}
		if c.Breakdown.Compatibility != 1 {
			t.Errorf("compatibility = %v, want 1 outside outfit_completion", c.Breakdown.Compatibility)
		}
		if len(c.Reasoning) == 0 || c.Category == "" {
			t.Errorf("missing reasoning or category: %+v", c)
		}
		if taxonomy.NormalizeCategory(c.Product.Category) == "tops" {
			tops++
		}
	}
	if tops > 3 {
		t.Errorf("tops = %d, diversity cap exceeded", tops)
	}
}

func TestRecommendationsCountsTruncatedScan(t *testing.T) {
	tests := []struct {
		name          string
		maxCandidates int
		wantDelta     float64
	}{
		{"scan below cap", 100, 0},
		{"scan hits cap", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Limits.MaxCandidates = tt.maxCandidates
			e, err := NewEngine(cfg, testCatalog(), zerolog.Nop(), WithClock(func() time.Time { return summer }))
			if err != nil {
				t.Fatalf("NewEngine() error = %v", err)
			}

			before := testutil.ToFloat64(metrics.CandidateScansTruncated)
			if _, err := e.GetPersonalizedRecommendations(context.Background(), "u1", 5, ""); err != nil {
				t.Fatalf("GetPersonalizedRecommendations() error = %v", err)
			}
			if delta := testutil.ToFloat64(metrics.CandidateScansTruncated) - before; delta != tt.wantDelta {
				t.Errorf("truncated scans delta = %v, want %v", delta, tt.wantDelta)
			}
		})
	}
}

func TestRecommendationsEmptyCatalog(t *testing.T) {
	e := newTestEngine(t, newFakeCatalog())
	got, err := e.GetPersonalizedRecommendations(context.Background(), "u1", 5, "")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestCatalogErrorsPropagate(t *testing.T) {
	catalog := testCatalog()
	e := newTestEngine(t, catalog)
	catalog.fail(fmt.Errorf("query failed: %w", models.ErrCatalogUnavailable))
	ctx := context.Background()

	if _, err := e.GetPersonalizedRecommendations(ctx, "u1", 5, ""); !errors.Is(err, models.ErrCatalogUnavailable) {
		t.Errorf("recommendations error = %v", err)
	}
	if _, err := e.GetSimilarProducts(ctx, "t1", 5); !errors.Is(err, models.ErrCatalogUnavailable) {
		t.Errorf("similar error = %v", err)
	}
	if _, err := e.AnalyzeWardrobe(ctx, "u1"); !errors.Is(err, models.ErrCatalogUnavailable) {
		t.Errorf("wardrobe error = %v", err)
	}
	if _, err := e.GenerateOutfitsFromCatalog(ctx, []string{"t1"}, ""); !errors.Is(err, models.ErrCatalogUnavailable) {
		t.Errorf("outfits error = %v", err)
	}
	if err := e.UpdateUserProfile(ctx, "u1", models.InteractionEvent{ProductID: "t1"}); !errors.Is(err, models.ErrCatalogUnavailable) {
		t.Errorf("update error = %v", err)
	}
}

func TestModelFailureFallsBack(t *testing.T) {
	failing := scoring.ModelFunc(func(context.Context, [][]float64) ([]float64, error) {
		return nil, errors.New("model crashed")
	})
	learned := scoring.NewLearnedScorer(failing, scoring.NewProductHeuristic(),
		scoring.DefaultLearnedConfig("test"), zerolog.Nop())
	e := newTestEngine(t, testCatalog(), WithScorer(learned))

	got, err := e.GetPersonalizedRecommendations(context.Background(), "u1", 5, "")
	if err != nil {
		t.Fatalf("model failure surfaced: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected heuristic results")
	}
	for _, c := range got {
		if c.Breakdown.Base <= 0 || c.Breakdown.Base > 1 {
			t.Errorf("base score %v not from heuristic", c.Breakdown.Base)
		}
	}
}

func TestOutfitModelFailureFallsBack(t *testing.T) {
	var calls atomic.Int32
	failing := scoring.ModelFunc(func(context.Context, [][]float64) ([]float64, error) {
		calls.Add(1)
		return nil, errors.New("outfit model unavailable")
	})
	learned := scoring.NewLearnedScorer(failing, outfit.NewHeuristic(),
		scoring.DefaultLearnedConfig("outfit-test"), zerolog.Nop())
	ctx := context.Background()

	want, err := newTestEngine(t, testCatalog()).GenerateOutfitsFromCatalog(ctx, nil, "t1")
	if err != nil {
		t.Fatalf("heuristic engine error = %v", err)
	}
	got, err := newTestEngine(t, testCatalog(), WithOutfitScorer(learned)).GenerateOutfitsFromCatalog(ctx, nil, "t1")
	if err != nil {
		t.Fatalf("outfit model failure surfaced: %v", err)
	}

	if calls.Load() == 0 {
		t.Error("outfit model was never called")
	}
	if len(got) != len(want) || len(got) == 0 {
		t.Fatalf("len = %d, want %d (non-zero)", len(got), len(want))
	}
	for i := range got {
		if got[i].CompatibilityScore != want[i].CompatibilityScore {
			t.Errorf("outfit %d score = %v, want heuristic %v", i, got[i].CompatibilityScore, want[i].CompatibilityScore)
		}
	}
}

func TestRecommendationsCancelled(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.GetPersonalizedRecommendations(ctx, "u1", 5, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestOutfitCompletionContext(t *testing.T) {
	catalog := testCatalog()
	catalog.addUser("u1", models.Order{
		ID:        "o-1",
		UserID:    "u1",
		Items:     []models.OrderItem{{ProductID: "t1", Quantity: 1, Price: 40}},
		CreatedAt: summer.AddDate(0, -1, 0),
	})
	e := newTestEngine(t, catalog)

	got, err := e.GetPersonalizedRecommendations(context.Background(), "u1", 5, features.ContextOutfitCompletion)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected recommendations")
	}
	for _, c := range got {
		if c.Product.ID == "t1" {
			t.Error("owned anchor item recommended")
		}
		if c.Breakdown.Compatibility < 0 || c.Breakdown.Compatibility > 1 {
			t.Errorf("compatibility %v out of range", c.Breakdown.Compatibility)
		}
	}
}

func TestGetSimilarProducts(t *testing.T) {
	catalog := newFakeCatalog(
		product("base", "tops", "casual", "red", 50),
		product("near", "tops", "casual", "red", 52),
		product("mid", "tops", "formal", "blue", 150),
		product("far", "shoes", "sporty", "green", 300),
	)
	e := newTestEngine(t, catalog)
	ctx := context.Background()

	got, err := e.GetSimilarProducts(ctx, "base", 10)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "near" {
		t.Errorf("most similar = %s, want near", got[0].ID)
	}
	for _, p := range got {
		if p.ID == "base" {
			t.Error("base product returned as similar to itself")
		}
	}

	// Cached vectors give identical results.
	again, _ := e.GetSimilarProducts(ctx, "base", 10)
	for i := range got {
		if again[i].ID != got[i].ID {
			t.Fatalf("cached ranking differs at %d", i)
		}
	}

	unknown, err := e.GetSimilarProducts(ctx, "missing", 10)
	if err != nil || unknown == nil || len(unknown) != 0 {
		t.Errorf("unknown product = %v, %v; want empty slice", unknown, err)
	}

	limited, _ := e.GetSimilarProducts(ctx, "base", 1)
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d", len(limited))
	}
}

func TestAnalyzeWardrobeZeroHistory(t *testing.T) {
	catalog := testCatalog()
	catalog.addUser("new")
	e := newTestEngine(t, catalog)

	a, err := e.AnalyzeWardrobe(context.Background(), "new")
	if err != nil {
		t.Fatalf("AnalyzeWardrobe() error = %v", err)
	}
	if len(a.Gaps) != 4 {
		t.Fatalf("gaps = %d, want 4", len(a.Gaps))
	}
	for _, g := range a.Gaps {
		if g.Severity != 5 || g.Reason != wardrobe.ReasonMissing {
			t.Errorf("gap %s = severity %d reason %q", g.Category, g.Severity, g.Reason)
		}
	}
}

func TestAnalyzeWardrobeWithPurchases(t *testing.T) {
	catalog := testCatalog()
	catalog.addUser("u1", models.Order{
		ID:     "o-1",
		UserID: "u1",
		Items: []models.OrderItem{
			{ProductID: "t1", Quantity: 2, Price: 40},
			{ProductID: "b1", Quantity: 1, Price: 80},
		},
		CreatedAt: summer.AddDate(0, -2, 0),
	})
	e := newTestEngine(t, catalog)

	a, err := e.AnalyzeWardrobe(context.Background(), "u1")
	if err != nil {
		t.Fatalf("AnalyzeWardrobe() error = %v", err)
	}
	if len(a.Items) != 3 {
		t.Errorf("items = %d, want 3", len(a.Items))
	}
	for _, rec := range a.Recommendations {
		if rec.Product.ID == "t1" || rec.Product.ID == "b1" {
			t.Errorf("owned product %s suggested", rec.Product.ID)
		}
	}
}

func TestGenerateOutfitsFromCatalog(t *testing.T) {
	e := newTestEngine(t, testCatalog())

	combos, err := e.GenerateOutfitsFromCatalog(context.Background(), nil, "t1")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	for _, c := range combos {
		if c.CompatibilityScore <= 0.6 {
			t.Errorf("combination below threshold: %v", c.CompatibilityScore)
		}
		found := false
		for _, it := range c.Items {
			if it.ID == "t1" {
				found = true
			}
		}
		if !found {
			t.Error("anchor missing from combination")
		}
	}

	empty, err := e.GenerateOutfitRecommendations(context.Background(), nil, nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("empty pool = %v, %v", empty, err)
	}
}

func TestPruneCaches(t *testing.T) {
	now := summer
	e := newTestEngine(t, testCatalog(), WithClock(func() time.Time { return now }))
	if _, err := e.Profile(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	profiles, products := e.PruneCaches()
	if profiles != 0 || products != 0 {
		t.Errorf("PruneCaches() = %d, %d; want nothing expired", profiles, products)
	}
}
