// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package kv

import "errors"

// ErrQuotaExceeded means a Set was refused because it would push the
// backend past its capacity ceiling. The store already holds the
// merged state in memory; callers degrade (drop payload weight and
// retry) instead of failing the merge.
var ErrQuotaExceeded = errors.New("kv: quota exceeded")

// KV is the synchronous key-value surface the record store persists
// through. Implementations must be safe for concurrent use; the
// store serializes writers per collection key above this layer, but
// different collections write concurrently.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any existing value.
	// May return ErrQuotaExceeded.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns all keys with the given prefix, in unspecified
	// order.
	Keys(prefix string) ([]string, error)
}
