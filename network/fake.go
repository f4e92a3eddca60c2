// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"github.com/gossamer-forge/gossamer/lib/clock"
	"github.com/gossamer-forge/gossamer/lib/identity"
)

// FakeRelay is a [LoopbackRelay] with test-only controls: Inject for
// events authored by other identities, Redeliver for exercising
// duplicate delivery, and Events for inspecting what was published.
//
// Redeliver re-sends a stored event to all matching subscriptions:
// idempotence under duplicate delivery is a property consumers must
// hold, and tests use this to exercise it.
type FakeRelay struct {
	*LoopbackRelay
}

// NewFakeRelay creates a fake relay publishing as the given identity.
func NewFakeRelay(author identity.Identity, clk clock.Clock) *FakeRelay {
	return &FakeRelay{LoopbackRelay: NewLoopback(author, clk)}
}

// Inject stores and fans out a fully formed event, as if another
// client had published it. Tests use this for events from identities
// other than the relay's own author.
func (f *FakeRelay) Inject(event Event) {
	f.inject(event)
}

// Redeliver re-sends a stored event to all matching subscriptions.
// Returns false if no stored event has the given ID.
func (f *FakeRelay) Redeliver(eventID string) bool {
	return f.redeliver(eventID)
}

// Events returns a copy of every stored event in publish order.
func (f *FakeRelay) Events() []Event {
	return f.storedEvents()
}
