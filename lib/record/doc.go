// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package record defines the records the engine synchronizes —
// repositories, issues, pull requests, discussions, commits — and the
// pure merge rules that govern them: the status state machine, the
// field-level source-precedence policy, and content fingerprinting.
//
// Everything here is a pure data transformation with no I/O and no
// locking. The record store (lib/store) orchestrates these rules over
// persisted collections; the engine (lib/engine) feeds them events.
//
// # Sources
//
// A record originates from one of three sources with fixed precedence
// for conflicting content fields:
//
//	Network > LocalPending > Polled
//
// Status does not follow field precedence. It follows the state
// machine in status.go: network status events are ordered by their
// own timestamps (arrival order is irrelevant), polled status is only
// a default until the first network status event arrives, and a
// deletion marker moves a record to the sticky terminal Tombstoned
// state that nothing can leave.
//
// # Payloads
//
// Wire events come in two shapes: the current structured form and a
// legacy blob form from older clients. The shape is resolved exactly
// once, at ingestion, by [NormalizePayload] — stored records carry a
// tagged [Payload] and nothing downstream re-sniffs JSON.
package record
