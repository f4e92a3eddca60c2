// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package network

import "context"

// SubscriptionChannelSize is the buffer size for subscription event
// channels. Must be large enough to absorb burst delivery from a
// relay backfill without drops; a consumer that falls further behind
// than this loses events and relies on merge idempotence plus the
// next poll to catch up.
const SubscriptionChannelSize = 256

// Subscriber is the push-network intake side. Subscribe opens a
// subscription for events matching any of the filters and returns the
// channel events arrive on. The channel is closed when ctx is
// cancelled or the subscription fails; callers range over it.
//
// Delivery guarantees are deliberately weak: events may arrive out of
// order and more than once. The consumer must be idempotent.
type Subscriber interface {
	Subscribe(ctx context.Context, filters ...Filter) (<-chan Event, error)
}

// Publisher is the push-network output side. Publish signs the draft
// as the local identity, transmits it, and returns the complete event
// with its network-assigned ID. The caller never handles key
// material.
type Publisher interface {
	Publish(ctx context.Context, draft EventDraft) (Event, error)
}

// Relay is a bidirectional connection to the push network.
type Relay interface {
	Subscriber
	Publisher
}
