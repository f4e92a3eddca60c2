// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Gossamer's standard CBOR encoding
// configuration.
//
// Gossamer uses two serialization formats with a clear boundary:
//
//   - JSON for the wire: relay events and profile content arrive and
//     leave as JSON.
//   - CBOR for persistence: record batches, sequence state, and
//     contributor lists are stored as CBOR in the key-value backend.
//
// This package provides the shared CBOR encoding and decoding modes
// so that every package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces
// identical bytes, so re-persisting an unchanged batch writes
// identical bytes and idempotence is observable at the storage layer.
//
// Types that cross both boundaries (records, contributor entries)
// carry both `cbor` and `json` struct tags; fxamacker/cbor reads the
// `cbor` tag, encoding/json reads the `json` tag.
package codec
