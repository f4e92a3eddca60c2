// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package kv

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"testing"
)

// backends returns a fresh instance of every KV implementation under
// a shared conformance suite.
func backends(t *testing.T) map[string]KV {
	t.Helper()
	sqliteStore, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]KV{
		"memory":     NewMemory(0),
		"sqlite":     sqliteStore,
		"compressed": NewCompressed(NewMemory(0), 64),
	}
}

func TestConformance(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := store.Get("missing"); err != nil || ok {
				t.Fatalf("Get missing = ok:%v err:%v", ok, err)
			}

			if err := store.Set("records/a/1", []byte("first")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := store.Set("records/a/2", []byte("second")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := store.Set("records/b/1", []byte("other")); err != nil {
				t.Fatalf("Set: %v", err)
			}

			value, ok, err := store.Get("records/a/1")
			if err != nil || !ok || !bytes.Equal(value, []byte("first")) {
				t.Fatalf("Get = %q ok:%v err:%v", value, ok, err)
			}

			// Replace in place.
			if err := store.Set("records/a/1", []byte("replaced")); err != nil {
				t.Fatalf("Set replace: %v", err)
			}
			value, _, _ = store.Get("records/a/1")
			if !bytes.Equal(value, []byte("replaced")) {
				t.Errorf("after replace: %q", value)
			}

			keys, err := store.Keys("records/a/")
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			sort.Strings(keys)
			if len(keys) != 2 || keys[0] != "records/a/1" || keys[1] != "records/a/2" {
				t.Errorf("Keys = %v", keys)
			}

			if err := store.Delete("records/a/1"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, ok, _ := store.Get("records/a/1"); ok {
				t.Error("deleted key still present")
			}
			// Deleting an absent key is not an error.
			if err := store.Delete("records/a/1"); err != nil {
				t.Errorf("Delete absent: %v", err)
			}
		})
	}
}

func TestMemoryQuota(t *testing.T) {
	store := NewMemory(64)
	if err := store.Set("k", bytes.Repeat([]byte("x"), 32)); err != nil {
		t.Fatalf("Set within quota: %v", err)
	}
	err := store.Set("k2", bytes.Repeat([]byte("x"), 64))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Set over quota: err = %v, want ErrQuotaExceeded", err)
	}
	// The failed write must not have been stored.
	if _, ok, _ := store.Get("k2"); ok {
		t.Error("over-quota value was stored")
	}
	// Replacing the existing value with one of equal size charges no
	// extra quota.
	if err := store.Set("k", bytes.Repeat([]byte("y"), 32)); err != nil {
		t.Errorf("in-place replace: %v", err)
	}
}

func TestMemoryQuotaFreedByDelete(t *testing.T) {
	store := NewMemory(40)
	if err := store.Set("a", bytes.Repeat([]byte("x"), 30)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("b", bytes.Repeat([]byte("x"), 30)); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Set("b", bytes.Repeat([]byte("x"), 30)); err != nil {
		t.Errorf("Set after Delete: %v", err)
	}
}

func TestCompressedRoundTripLargeValue(t *testing.T) {
	inner := NewMemory(0)
	store := NewCompressed(inner, 64)

	// Highly compressible and above the threshold.
	value := []byte(strings.Repeat("gossamer ", 200))
	if err := store.Set("big", value); err != nil {
		t.Fatalf("Set: %v", err)
	}

	stored, ok, err := inner.Get("big")
	if err != nil || !ok {
		t.Fatalf("inner Get: ok:%v err:%v", ok, err)
	}
	if stored[0] != frameZstd {
		t.Errorf("frame tag = 0x%02x, want zstd", stored[0])
	}
	if len(stored) >= len(value) {
		t.Errorf("compressed size %d >= original %d", len(stored), len(value))
	}

	back, ok, err := store.Get("big")
	if err != nil || !ok || !bytes.Equal(back, value) {
		t.Errorf("round trip failed: ok:%v err:%v", ok, err)
	}
}

func TestCompressedSmallValueStaysRaw(t *testing.T) {
	inner := NewMemory(0)
	store := NewCompressed(inner, 64)
	if err := store.Set("small", []byte("tiny")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	stored, _, _ := inner.Get("small")
	if stored[0] != frameRaw {
		t.Errorf("frame tag = 0x%02x, want raw", stored[0])
	}
}

func TestCompressedPropagatesQuota(t *testing.T) {
	store := NewCompressed(NewMemory(16), 1<<20)
	err := store.Set("k", bytes.Repeat([]byte("x"), 64))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/kv.db"
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := store.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	value, ok, err := reopened.Get("k")
	if err != nil || !ok || !bytes.Equal(value, []byte("v")) {
		t.Errorf("Get after reopen = %q ok:%v err:%v", value, ok, err)
	}
}
