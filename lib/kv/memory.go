// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package kv

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
)

// Memory is an in-memory KV with an exact byte quota. Usage accounts
// for key and value bytes of every stored entry. Replacing a value
// only charges the delta, so refreshing a collection in place never
// trips the quota spuriously.
type Memory struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	capacity int
	used     int
}

// NewMemory creates a memory backend with the given capacity in
// bytes. A non-positive capacity means unlimited.
func NewMemory(capacity int) *Memory {
	return &Memory{
		entries:  make(map[string][]byte),
		capacity: capacity,
	}
}

// Get implements KV.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(value), true, nil
}

// Set implements KV. Returns ErrQuotaExceeded without storing
// anything when the write would exceed the capacity ceiling.
func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.used + len(key) + len(value)
	if existing, ok := m.entries[key]; ok {
		next -= len(key) + len(existing)
	}
	if m.capacity > 0 && next > m.capacity {
		return fmt.Errorf("kv: setting %q (%d bytes) would use %d of %d bytes: %w",
			key, len(value), next, m.capacity, ErrQuotaExceeded)
	}

	m.entries[key] = bytes.Clone(value)
	m.used = next
	return nil
}

// Delete implements KV.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[key]; ok {
		m.used -= len(key) + len(existing)
		delete(m.entries, key)
	}
	return nil
}

// Keys implements KV.
func (m *Memory) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Used returns the current byte usage. For quota diagnostics.
func (m *Memory) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}
