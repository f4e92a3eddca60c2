// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package kv

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Value frame tags. Every stored value is prefixed with one byte so
// reads know whether to decompress.
const (
	frameRaw  = 0x00
	frameZstd = 0x01
)

// DefaultCompressThreshold is the value size above which Compressed
// tries zstd. Small values gain nothing and the frame byte would be
// pure overhead.
const DefaultCompressThreshold = 4096

var zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
var zstdDecoder, _ = zstd.NewReader(nil)

// Compressed wraps a KV and transparently zstd-compresses values
// larger than the threshold. Compression runs before the quota check
// of the underlying backend, so it buys headroom before the store's
// degradation path has to drop payloads. Incompressible values are
// stored raw.
type Compressed struct {
	inner     KV
	threshold int
}

// NewCompressed wraps inner. A non-positive threshold uses
// [DefaultCompressThreshold].
func NewCompressed(inner KV, threshold int) *Compressed {
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	return &Compressed{inner: inner, threshold: threshold}
}

// Get implements KV.
func (c *Compressed) Get(key string) ([]byte, bool, error) {
	framed, ok, err := c.inner.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(framed) == 0 {
		return nil, true, nil
	}
	body := framed[1:]
	switch framed[0] {
	case frameRaw:
		return bytes.Clone(body), true, nil
	case frameZstd:
		value, err := zstdDecoder.DecodeAll(body, nil)
		if err != nil {
			return nil, false, fmt.Errorf("kv: decompressing %q: %w", key, err)
		}
		return value, true, nil
	default:
		return nil, false, fmt.Errorf("kv: %q has unknown frame tag 0x%02x", key, framed[0])
	}
}

// Set implements KV.
func (c *Compressed) Set(key string, value []byte) error {
	framed := make([]byte, 1, len(value)+1)
	framed[0] = frameRaw
	framed = append(framed, value...)

	if len(value) >= c.threshold {
		compressed := zstdEncoder.EncodeAll(value, []byte{frameZstd})
		if len(compressed) < len(framed) {
			framed = compressed
		}
	}
	return c.inner.Set(key, framed)
}

// Delete implements KV.
func (c *Compressed) Delete(key string) error { return c.inner.Delete(key) }

// Keys implements KV.
func (c *Compressed) Keys(prefix string) ([]string, error) { return c.inner.Keys(prefix) }
