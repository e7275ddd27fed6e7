// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// BadgerConfig configures a BadgerStore. An empty Path opens an in-memory
// database.
type BadgerConfig struct {
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// BadgerStore persists JSON-encoded values in BadgerDB using native TTLs.
type BadgerStore[T any] struct {
	db     *badger.DB
	prefix string

	mu     sync.RWMutex
	closed bool
}

// OpenBadgerStore opens (or creates) the database described by cfg.
func OpenBadgerStore[T any](cfg BadgerConfig, prefix string) (*BadgerStore[T], error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &BadgerStore[T]{db: db, prefix: prefix}, nil
}

func (s *BadgerStore[T]) key(k string) []byte {
	return []byte(s.prefix + k)
}

func (s *BadgerStore[T]) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Get implements Store.
func (s *BadgerStore[T]) Get(_ context.Context, key string) (T, bool, error) {
	var zero T
	if err := s.checkOpen(); err != nil {
		return zero, false, err
	}

	var v T
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		})
	})
	if err != nil {
		return zero, false, fmt.Errorf("badger get %s: %w", key, err)
	}
	if !found {
		return zero, false, nil
	}
	return v, true, nil
}

// Set implements Store.
func (s *BadgerStore[T]) Set(_ context.Context, key string, value T, ttl time.Duration) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(s.key(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *BadgerStore[T]) Delete(_ context.Context, key string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(s.key(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}
	return nil
}

// Close implements Store. It is safe to call more than once.
func (s *BadgerStore[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

var _ Store[int] = (*BadgerStore[int])(nil)
