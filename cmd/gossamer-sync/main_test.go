// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gossamer-forge/gossamer/lib/config"
	"github.com/gossamer-forge/gossamer/lib/kv"
)

func TestOpenBackendWrapsCompression(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name string
		cfg  func(t *testing.T) config.StoreConfig
	}{
		{"memory", func(t *testing.T) config.StoreConfig {
			return config.StoreConfig{}
		}},
		{"sqlite", func(t *testing.T) config.StoreConfig {
			return config.StoreConfig{Path: filepath.Join(t.TempDir(), "records.db")}
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			backend, cleanup, err := openBackend(test.cfg(t), logger)
			if err != nil {
				t.Fatalf("openBackend: %v", err)
			}
			defer cleanup()

			if _, ok := backend.(*kv.Compressed); !ok {
				t.Fatalf("backend is %T, want the compression wrapper", backend)
			}

			// A large repetitive value round-trips through the
			// zstd framing.
			value := []byte(strings.Repeat("gossamer ", 4096))
			if err := backend.Set("records/x", value); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, ok, err := backend.Get("records/x")
			if err != nil || !ok {
				t.Fatalf("Get: ok=%v err=%v", ok, err)
			}
			if !bytes.Equal(got, value) {
				t.Errorf("Get returned %d bytes, want %d", len(got), len(value))
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	if level, err := parseLevel("debug"); err != nil || level != slog.LevelDebug {
		t.Errorf("parseLevel(debug) = %v, %v", level, err)
	}
	if _, err := parseLevel("loud"); err == nil {
		t.Error("unknown level accepted")
	}
}
