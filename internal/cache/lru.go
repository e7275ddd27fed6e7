// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package cache

import (
	"container/list"
	"sync"
	"time"
)

// Defaults applied by NewLRU to non-positive arguments.
const (
	DefaultLRUCapacity = 10000
	DefaultLRUTTL      = 5 * time.Minute
)

type lruItem[V any] struct {
	key      string
	value    V
	deadline time.Time
}

// LRU is a goroutine-safe least-recently-used cache with per-entry TTL.
// Expired entries are dropped when touched or in bulk by CleanupExpired.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front is most recently used
	index    map[string]*list.Element
	hits     int64
	misses   int64
	now      func() time.Time
}

// NewLRU creates an LRU holding at most capacity entries for ttl each.
func NewLRU[V any](capacity int, ttl time.Duration) *LRU[V] {
	if capacity <= 0 {
		capacity = DefaultLRUCapacity
	}
	if ttl <= 0 {
		ttl = DefaultLRUTTL
	}
	return &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		index:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

// TTL returns the default entry lifetime.
func (c *LRU[V]) TTL() time.Duration {
	return c.ttl
}

// lookup returns the live element for key, dropping it if expired.
// Must be called with mu held.
func (c *LRU[V]) lookup(key string, now time.Time) *list.Element {
	el, ok := c.index[key]
	if !ok {
		return nil
	}
	if now.After(el.Value.(*lruItem[V]).deadline) {
		c.drop(el)
		return nil
	}
	return el
}

func (c *LRU[V]) drop(el *list.Element) {
	c.order.Remove(el)
	delete(c.index, el.Value.(*lruItem[V]).key)
}

// Get returns the live value for key and marks it most recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el := c.lookup(key, c.now())
	if el == nil {
		c.misses++
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return el.Value.(*lruItem[V]).value, true
}

// Contains reports whether key is live without changing recency or stats.
func (c *LRU[V]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(key, c.now()) != nil
}

// Set stores value under key with the default TTL.
func (c *LRU[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key for ttl and evicts the least recently
// used entries beyond capacity. A non-positive ttl uses the default.
func (c *LRU[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := c.now().Add(ttl)
	if el, ok := c.index[key]; ok {
		item := el.Value.(*lruItem[V])
		item.value, item.deadline = value, deadline
		c.order.MoveToFront(el)
		return
	}

	c.index[key] = c.order.PushFront(&lruItem[V]{key: key, value: value, deadline: deadline})
	for c.order.Len() > c.capacity {
		c.drop(c.order.Back())
	}
}

// Remove deletes key and reports whether it was present.
func (c *LRU[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if ok {
		c.drop(el)
	}
	return ok
}

// Len returns the entry count, including expired entries not yet dropped.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// CleanupExpired drops every expired entry and returns how many it dropped.
func (c *LRU[V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*lruItem[V]).deadline) {
			c.drop(el)
			removed++
		}
		el = prev
	}
	return removed
}

// Stats returns hit and miss counts and the current size.
func (c *LRU[V]) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.order.Len()
}
