// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package store is the record store: one persistent, deduplicated
// collection per (container, resource type), with get and merge as
// the only operations. Callers never touch storage keys directly —
// every page-level ad hoc cache this replaces is a [Store.Get] or
// [Store.Merge] call now.
//
// # Merge semantics
//
// Merge is idempotent and id-for-id: new identifiers insert, known
// identifiers field-merge under the source precedence policy from
// lib/record, and status always goes through the state machine.
// Records from different sources that represent the same logical
// entity — same external numeric ID, or same content fingerprint —
// collapse to a single record whose surviving identifier prefers
// network event IDs over local IDs over external IDs.
//
// A merge is all-or-nothing: the collection is rebuilt in memory and
// persisted with a single Set. A malformed container or batch fails
// before anything is read or written. A quota failure on persist
// degrades once (large payload bodies are shed) and, if persistence
// still fails, the merged state is returned to the caller anyway —
// reconciled state is never lost to a storage error, it is only
// unpersisted.
//
// # Sequence numbers
//
// Records without a display number get max+1 within their collection,
// assigned in (CreatedAt, ID) order for determinism. A number, once
// persisted, never changes; when an externally numbered record later
// collides with an assigned number, both records keep their numbers
// and are flagged instead of renumbered, because outstanding links
// point at them.
//
// # Concurrency
//
// Merges for the same collection are serialized on a per-key mutex;
// different collections proceed independently. Reads copy under the
// lock and never hold it across I/O outside the KV call itself.
package store
