// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package kv is the local persistence collaborator: a synchronous
// key-value surface with a capacity ceiling, the durable analog of a
// browser's per-origin local store.
//
// Two backends ship here. [Memory] enforces an exact byte quota and
// returns [ErrQuotaExceeded] from Set when a write would exceed it —
// the record store reacts by shedding payload weight rather than
// losing reconciled in-memory state. [SQLite] persists to a local
// database file with the WAL and busy-timeout discipline gossamer
// uses everywhere it touches SQLite.
//
// [Compressed] wraps any backend and transparently zstd-compresses
// values above a threshold, buying headroom before the quota
// degradation path has to drop anything.
package kv
