// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package engine is the reconciliation engine: the one component that
// feeds the record store from all three sources and gates every write.
//
// Intake paths:
//
//   - SubmitLocal stores an optimistic local record, publishes the
//     corresponding network event, and merges the published form so
//     the network event ID supersedes the local ID immediately.
//   - Run drains the push subscription, batches events per container
//     and resource type, and merges each batch. Anomalous events are
//     logged and skipped; they never break the batch.
//   - Poll fetches the centralized host's listings under a deadline
//     and merges them at the lowest source precedence. A timeout is
//     retryable and leaves the store untouched.
//
// Every mutating path passes through the checkWrite guard exactly
// once: container validity first, then actor resolution, then the
// role requirement. Call sites never re-implement these checks.
package engine
