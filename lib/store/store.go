// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/gossamer-forge/gossamer/lib/codec"
	"github.com/gossamer-forge/gossamer/lib/kv"
	"github.com/gossamer-forge/gossamer/lib/record"
	"github.com/gossamer-forge/gossamer/lib/ref"
)

// keyPrefix namespaces record collections in the KV.
const keyPrefix = "records/"

// Store persists record collections keyed by (container, resource
// type). Safe for concurrent use.
type Store struct {
	kv     kv.KV
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a store over the given KV. A nil logger discards.
func New(backend kv.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		kv:     backend,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// collectionKey is the KV key of one collection.
func collectionKey(container ref.Container, resourceType record.ResourceType) string {
	return keyPrefix + container.String() + "/" + string(resourceType)
}

// lockFor returns the mutex serializing writers of one collection.
func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// Get returns the stored collection with tombstoned records
// suppressed, ordered by display number (unnumbered records last, by
// creation time). The returned slice is a copy.
func (s *Store) Get(container ref.Container, resourceType record.ResourceType) ([]record.Record, error) {
	all, err := s.GetAll(container, resourceType)
	if err != nil {
		return nil, err
	}
	visible := all[:0]
	for _, r := range all {
		if !r.Tombstoned() {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// GetAll returns the stored collection including tombstoned records.
// Reconciliation needs the tombstones; read views do not.
func (s *Store) GetAll(container ref.Container, resourceType record.ResourceType) ([]record.Record, error) {
	if container.IsZero() {
		return nil, fmt.Errorf("store: get with zero container: %w", ref.ErrInvalidContainer)
	}
	if !resourceType.Valid() {
		return nil, fmt.Errorf("store: get with unknown resource type %q", resourceType)
	}

	key := collectionKey(container, resourceType)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	return s.load(key)
}

// load reads and decodes a collection. Caller holds the key lock.
func (s *Store) load(key string) ([]record.Record, error) {
	data, ok, err := s.kv.Get(key)
	if err != nil {
		return nil, fmt.Errorf("store: loading %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var records []record.Record
	if err := codec.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("store: decoding %s: %w", key, err)
	}
	return records, nil
}

// persist encodes and writes a collection in deterministic order.
// Caller holds the key lock.
func (s *Store) persist(key string, records []record.Record) error {
	sortCollection(records)
	data, err := codec.Marshal(records)
	if err != nil {
		return fmt.Errorf("store: encoding %s: %w", key, err)
	}
	if err := s.kv.Set(key, data); err != nil {
		return err
	}
	return nil
}

// sortCollection orders records by number (assigned numbers first,
// ascending), then creation time, then ID. This is both the read
// view order and the persisted order, so identical logical state
// always persists to identical bytes.
func sortCollection(records []record.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := &records[i], &records[j]
		switch {
		case a.Number != 0 && b.Number != 0 && a.Number != b.Number:
			return a.Number < b.Number
		case (a.Number != 0) != (b.Number != 0):
			return a.Number != 0
		case a.CreatedAt != b.CreatedAt:
			return a.CreatedAt < b.CreatedAt
		default:
			return a.ID < b.ID
		}
	})
}
