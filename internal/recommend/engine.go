// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylist/internal/cache"
	"github.com/tomtom215/stylist/internal/logging"
	"github.com/tomtom215/stylist/internal/metrics"
	"github.com/tomtom215/stylist/internal/models"
	"github.com/tomtom215/stylist/internal/recommend/features"
	"github.com/tomtom215/stylist/internal/recommend/outfit"
	"github.com/tomtom215/stylist/internal/recommend/reranking"
	"github.com/tomtom215/stylist/internal/recommend/scoring"
	"github.com/tomtom215/stylist/internal/recommend/seasonal"
	"github.com/tomtom215/stylist/internal/recommend/wardrobe"
)

// CatalogGateway is read-only access to the product catalog. Unknown IDs are
// reported as a nil result with a nil error.
type CatalogGateway interface {
	GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// Option customizes an Engine.
type Option func(*Engine)

// WithScorer sets the product scorer. The default is the heuristic fallback.
func WithScorer(s scoring.Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithOutfitScorer sets the outfit compatibility scorer. The default is the
// outfit heuristic.
func WithOutfitScorer(s scoring.Scorer) Option {
	return func(e *Engine) { e.outfitScorer = s }
}

// WithTrendAdjuster sets the seasonal/trend adjuster.
func WithTrendAdjuster(a *seasonal.Adjuster) Option {
	return func(e *Engine) { e.adjuster = a }
}

// WithProfileStore adds a second-tier profile store.
func WithProfileStore(s cache.Store[*models.UserProfile]) Option {
	return func(e *Engine) { e.profileStore = s }
}

// WithExtensions supplies extension-point feature signals.
func WithExtensions(x *features.Extensions) Option {
	return func(e *Engine) { e.extensions = x }
}

// WithClock overrides the engine clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine is the personalization engine. It is safe for concurrent use.
type Engine struct {
	config  *Config
	catalog CatalogGateway
	logger  zerolog.Logger

	scorer       scoring.Scorer
	outfitScorer scoring.Scorer
	adjuster     *seasonal.Adjuster
	extensions   *features.Extensions

	builder  *ProfileBuilder
	ranker   *reranking.DiversityRanker
	outfits  *outfit.Engine
	analyzer *wardrobe.Analyzer

	profileStore cache.Store[*models.UserProfile]
	profiles     *cache.Tiered[*models.UserProfile]
	profileLocks *cache.KeyedMutex
	productCache *cache.LRU[productVector]

	// interactions holds recorded non-purchase events per user. Purchases
	// are rebuilt from orders, everything else only lives here.
	interactions *cache.LRU[[]models.InteractionEvent]

	now func() time.Time
}

// NewEngine creates an engine reading from catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog CatalogGateway, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog gateway is required")
	}

	e := &Engine{
		config:  cfg,
		catalog: catalog,
		logger:  logger.With().Str("component", "recommend").Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.scorer == nil {
		e.scorer = scoring.NewProductHeuristic()
	}
	if e.outfitScorer == nil {
		e.outfitScorer = outfit.NewHeuristic()
	}
	if e.adjuster == nil {
		e.adjuster = seasonal.NewAdjuster(nil, logger)
	}
	e.builder = NewProfileBuilder(cfg.Profile)
	e.ranker = reranking.NewDiversityRanker(cfg.Limits.DiversityCap)
	e.outfits = outfit.NewEngine(cfg.Outfit, e.outfitScorer, logger)
	e.analyzer = wardrobe.NewAnalyzer(cfg.Wardrobe, e.ranker, logger)
	e.profiles = cache.NewTiered[*models.UserProfile](
		"profile",
		cache.NewLRU[*models.UserProfile](cfg.Cache.ProfileCapacity, cfg.Cache.ProfileTTL),
		e.profileStore,
		logger,
	)
	e.profileLocks = cache.NewKeyedMutex()
	e.productCache = cache.NewLRU[productVector](cfg.Cache.FeatureCapacity, cfg.Cache.FeatureTTL)
	e.interactions = cache.NewLRU[[]models.InteractionEvent](cfg.Cache.HistoryCapacity, cfg.Cache.HistoryTTL)

	e.logger.Info().
		Str("scorer", e.scorer.Name()).
		Str("outfit_scorer", e.outfitScorer.Name()).
		Int("diversity_cap", cfg.Limits.DiversityCap).
		Int("workers", cfg.workers()).
		Bool("profile_store", e.profileStore != nil).
		Msg("recommendation engine initialized")

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Adjuster returns the seasonal/trend adjuster so callers can refresh it.
func (e *Engine) Adjuster() *seasonal.Adjuster {
	return e.adjuster
}

// requestLogger returns a logger carrying the request correlation fields.
func (e *Engine) requestLogger(ctx context.Context, operation string) zerolog.Logger {
	return logging.WithFields(ctx, e.logger.With().Str("operation", operation).Logger())
}

// clampLimit applies the default and maximum limits.
func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.config.Limits.DefaultLimit
	}
	if limit > e.config.Limits.MaxLimit {
		return e.config.Limits.MaxLimit
	}
	return limit
}

// Profile returns the cached profile of userID, building it on a miss. The
// returned value is shared and must not be modified.
func (e *Engine) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if p, ok := e.profiles.Get(ctx, userID); ok {
		return p, nil
	}

	unlock := e.profileLocks.Lock(userID)
	defer unlock()
	return e.loadProfileLocked(ctx, userID)
}

// loadProfileLocked returns the cached profile or builds and caches it. The
// caller holds the user's lock.
func (e *Engine) loadProfileLocked(ctx context.Context, userID string) (*models.UserProfile, error) {
	if p, ok := e.profiles.Get(ctx, userID); ok {
		return p, nil
	}

	now := e.now()
	events, err := e.purchaseEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	if recorded, ok := e.interactions.Get(userID); ok {
		events = append(events, recorded...)
	}

	profile := e.builder.Build(userID, events, now)
	e.profiles.Set(ctx, userID, profile)
	return profile, nil
}

// purchaseEvents converts a user's order history into purchase events.
// Unknown users have no history.
func (e *Engine) purchaseEvents(ctx context.Context, userID string) ([]models.InteractionEvent, error) {
	user, err := e.catalog.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		e.logger.Debug().Str("user_id", userID).Msg("unknown user, using default profile")
		return nil, nil
	}

	orders, err := e.catalog.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	products, err := e.resolveOrderProducts(ctx, orders, nil)
	if err != nil {
		return nil, err
	}

	var events []models.InteractionEvent
	for i := range orders {
		o := &orders[i]
		for _, item := range o.Items {
			ev := models.InteractionEvent{
				ID:        o.ID + ":" + item.ProductID,
				UserID:    userID,
				ProductID: item.ProductID,
				Type:      models.InteractionPurchase,
				Price:     item.Price,
				Timestamp: o.CreatedAt,
			}
			EnrichEvent(&ev, products[item.ProductID])
			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}
			for q := 0; q < qty; q++ {
				events = append(events, ev)
			}
		}
	}
	return events, nil
}

// resolveOrderProducts looks up every product referenced by orders, reusing
// known snapshots.
func (e *Engine) resolveOrderProducts(ctx context.Context, orders []models.Order, known map[string]*models.Product) (map[string]*models.Product, error) {
	out := make(map[string]*models.Product)
	for i := range orders {
		for _, item := range orders[i].Items {
			if _, ok := out[item.ProductID]; ok {
				continue
			}
			if p, ok := known[item.ProductID]; ok {
				out[item.ProductID] = p
				continue
			}
			p, err := e.catalog.GetProductByID(ctx, item.ProductID)
			if err != nil {
				return nil, fmt.Errorf("get product %s: %w", item.ProductID, err)
			}
			if p != nil {
				out[item.ProductID] = p
			}
		}
	}
	return out, nil
}

// UpdateUserProfile applies one interaction event to the user's profile. The
// cached profile is replaced with a rebuilt copy, so concurrent readers keep
// a consistent snapshot.
func (e *Engine) UpdateUserProfile(ctx context.Context, userID string, ev models.InteractionEvent) error {
	start := time.Now()
	if userID == "" {
		err := fmt.Errorf("update profile: empty user id: %w", models.ErrInvalidProfileInput)
		metrics.RecordOperation("update_profile", time.Since(start), 0, err)
		return err
	}
	logger := e.requestLogger(ctx, "update_profile").With().Str("user_id", userID).Logger()

	unlock := e.profileLocks.Lock(userID)
	defer unlock()

	current, err := e.loadProfileLocked(ctx, userID)
	if err != nil {
		metrics.RecordOperation("update_profile", time.Since(start), 0, err)
		return err
	}

	now := e.now()
	ev.UserID = userID
	NormalizeEvent(&ev, now)
	if ev.ProductID != "" && (ev.Category == "" || ev.Style == "" || ev.Price == 0) {
		p, err := e.catalog.GetProductByID(ctx, ev.ProductID)
		if err != nil {
			err = fmt.Errorf("get product %s: %w", ev.ProductID, err)
			metrics.RecordOperation("update_profile", time.Since(start), 0, err)
			return err
		}
		EnrichEvent(&ev, p)
	}

	events := append(current.History.All(), ev)
	updated := e.builder.Build(userID, events, now)
	e.profiles.Set(ctx, userID, updated)
	e.interactions.Set(userID, recordedInteractions(&updated.History))

	logger.Debug().
		Str("product_id", ev.ProductID).
		Str("type", string(ev.Type)).
		Int("history", updated.History.Len()).
		Dur("latency", time.Since(start)).
		Msg("profile updated")
	metrics.RecordOperation("update_profile", time.Since(start), 1, nil)
	return nil
}

// recordedInteractions returns the events of h that orders cannot rebuild.
func recordedInteractions(h *models.InteractionHistory) []models.InteractionEvent {
	out := make([]models.InteractionEvent, 0, h.Len()-len(h.Purchases))
	out = append(out, h.Views...)
	out = append(out, h.Wishlist...)
	out = append(out, h.Cart...)
	out = append(out, h.TryOns...)
	return out
}

// InvalidateProfile drops the cached profile of userID.
func (e *Engine) InvalidateProfile(ctx context.Context, userID string) {
	unlock := e.profileLocks.Lock(userID)
	defer unlock()
	e.profiles.Delete(ctx, userID)
}

// PruneCaches removes expired profile and product vector entries and returns
// how many were removed.
func (e *Engine) PruneCaches() (profiles, products int) {
	profiles = e.profiles.CleanupExpired()
	products = e.productCache.CleanupExpired()
	e.interactions.CleanupExpired()
	metrics.SetCacheEntries("product_features", e.productCache.Len())
	return profiles, products
}

// Close releases the profile store.
func (e *Engine) Close() error {
	return e.profiles.Close()
}
