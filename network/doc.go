// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package network defines the push-network wire model: signed events,
// subscription filters, and the Subscriber/Publisher collaborator
// interfaces the reconciliation engine is built against.
//
// Events are the only thing that crosses the network. A record in the
// local store is a reconciled view over events; this package owns the
// mapping from an incoming event to a store record (EventToRecord) and
// from a profile event to a display profile (ProfileFromEvent).
//
// Subscriptions are channels, not callbacks. A subscriber owns the
// receiving goroutine and its lifetime; the relay side never calls
// into subscriber code. Duplicate delivery is legal everywhere: the
// store's merge is idempotent, so re-delivered events are harmless.
//
// LoopbackRelay is an in-process relay: it backfills stored events on
// subscribe and fans out live publishes, but nothing leaves the
// process. FakeRelay extends it for tests with injection and
// re-delivery of arbitrary stored events to exercise duplicate
// handling.
package network
