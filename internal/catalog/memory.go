// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/stylist/internal/models"
)

// Seed is the JSON layout of a catalog seed file.
type Seed struct {
	Products []models.Product `json:"products"`
	Users    []models.User    `json:"users"`
	Orders   []models.Order   `json:"orders"`
}

// DecodeSeed reads a seed document from r.
func DecodeSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode catalog seed: %w", err)
	}
	return &seed, nil
}

// LoadSeedFile reads a seed document from path.
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open catalog seed: %w", err)
	}
	defer closeQuietly(f)
	return DecodeSeed(f)
}

// MemoryGateway is an in-process catalog. Products keep insertion order.
type MemoryGateway struct {
	mu       sync.RWMutex
	products []models.Product
	index    map[string]int
	users    map[string]models.User
	orders   map[string][]models.Order
}

var (
	_ Gateway = (*MemoryGateway)(nil)
	_ Pinger  = (*MemoryGateway)(nil)
)

// NewMemoryGateway creates an empty in-memory catalog.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		index:  make(map[string]int),
		users:  make(map[string]models.User),
		orders: make(map[string][]models.Order),
	}
}

// Load adds every record of seed.
func (m *MemoryGateway) Load(seed *Seed) {
	m.PutProducts(seed.Products...)
	for i := range seed.Users {
		m.PutUser(&seed.Users[i])
	}
	for i := range seed.Orders {
		m.AddOrder(&seed.Orders[i])
	}
}

// PutProducts inserts or replaces products by ID.
func (m *MemoryGateway) PutProducts(products ...models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range products {
		p := cloneProduct(&products[i])
		if idx, ok := m.index[p.ID]; ok {
			m.products[idx] = p
			continue
		}
		m.index[p.ID] = len(m.products)
		m.products = append(m.products, p)
	}
}

// PutUser inserts or replaces a user.
func (m *MemoryGateway) PutUser(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
}

// AddOrder appends an order to its user's history.
func (m *MemoryGateway) AddOrder(o *models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order := *o
	order.Items = append([]models.OrderItem(nil), o.Items...)
	m.orders[o.UserID] = append(m.orders[o.UserID], order)
}

// GetProducts returns products matching filter in insertion order.
func (m *MemoryGateway) GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Product, 0, min(len(m.products), limitOr(filter.Limit, len(m.products))))
	for i := range m.products {
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
		if filter.Matches(&m.products[i]) {
			out = append(out, cloneProduct(&m.products[i]))
		}
	}
	return out, nil
}

// GetProductByID returns the product or nil when it is unknown.
func (m *MemoryGateway) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.index[id]
	if !ok {
		return nil, nil
	}
	p := cloneProduct(&m.products[idx])
	return &p, nil
}

// GetOrdersByUserID returns the user's orders, oldest first.
func (m *MemoryGateway) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.orders[userID]
	out := make([]models.Order, len(src))
	for i := range src {
		out[i] = src[i]
		out[i].Items = append([]models.OrderItem(nil), src[i].Items...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetUser returns the user or nil when it is unknown.
func (m *MemoryGateway) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Ping always succeeds.
func (m *MemoryGateway) Ping(context.Context) error {
	return nil
}

// Len returns the number of products.
func (m *MemoryGateway) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}

func cloneProduct(p *models.Product) models.Product {
	c := *p
	c.Colors = append([]string(nil), p.Colors...)
	c.Sizes = append([]string(nil), p.Sizes...)
	return c
}

func limitOr(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	return fallback
}

// closeQuietly closes c and ignores the error; cleanup is best-effort.
func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
