// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/gossamer-forge/gossamer/lib/clock"
	"github.com/gossamer-forge/gossamer/lib/identity"
)

// LoopbackRelay is an in-process relay: publishes are stored and
// fanned out to matching local subscriptions, and no events leave the
// process. The daemon runs on it until the relay wire transport
// lands, and it backs [FakeRelay] in tests. Subscribe backfills
// matching stored events before going live, the way a real relay
// replays history for a new filter.
type LoopbackRelay struct {
	mu     sync.Mutex
	author identity.Identity
	clock  clock.Clock
	events []Event
	subs   []*loopbackSubscription
}

type loopbackSubscription struct {
	ctx     context.Context
	filters []Filter
	ch      chan Event
}

// NewLoopback creates a loopback relay publishing as the given
// identity. A nil clock uses the real clock.
func NewLoopback(author identity.Identity, clk clock.Clock) *LoopbackRelay {
	if clk == nil {
		clk = clock.Real()
	}
	return &LoopbackRelay{author: author, clock: clk}
}

// Subscribe implements Subscriber. Stored events matching the filters
// are delivered first, then live publishes. The channel closes when
// ctx is cancelled, detected lazily at the next fanout.
func (l *LoopbackRelay) Subscribe(ctx context.Context, filters ...Filter) (<-chan Event, error) {
	if len(filters) == 0 {
		return nil, fmt.Errorf("network: subscription needs at least one filter")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sub := &loopbackSubscription{
		ctx:     ctx,
		filters: filters,
		ch:      make(chan Event, SubscriptionChannelSize),
	}
	for i := range l.events {
		if MatchesAny(filters, &l.events[i]) {
			sub.deliver(l.events[i])
		}
	}
	l.subs = append(l.subs, sub)

	context.AfterFunc(ctx, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.remove(sub)
	})

	return sub.ch, nil
}

// Publish implements Publisher.
func (l *LoopbackRelay) Publish(ctx context.Context, draft EventDraft) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	event := Event{
		Kind:      draft.Kind,
		Author:    l.author,
		CreatedAt: l.clock.Now().Unix(),
		Tags:      draft.Tags,
		Content:   draft.Content,
	}
	event.ID = eventID(&event)
	l.events = append(l.events, event)
	l.fanout(&event)
	return event, nil
}

// inject stores and fans out a fully formed event, as if another
// client had published it.
func (l *LoopbackRelay) inject(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	l.fanout(&event)
}

// redeliver re-sends a stored event to all matching subscriptions.
// Returns false if no stored event has the given ID.
func (l *LoopbackRelay) redeliver(eventID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.events {
		if l.events[i].ID == eventID {
			l.fanout(&l.events[i])
			return true
		}
	}
	return false
}

// storedEvents returns a copy of every stored event in publish order.
func (l *LoopbackRelay) storedEvents() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// fanout dispatches to matching live subscriptions and reaps
// cancelled ones. Caller holds l.mu.
func (l *LoopbackRelay) fanout(event *Event) {
	for i := len(l.subs) - 1; i >= 0; i-- {
		sub := l.subs[i]
		if sub.ctx.Err() != nil {
			l.remove(sub)
			continue
		}
		if MatchesAny(sub.filters, event) {
			sub.deliver(*event)
		}
	}
}

// remove drops the subscription and closes its channel. Caller holds
// l.mu.
func (l *LoopbackRelay) remove(sub *loopbackSubscription) {
	for i, existing := range l.subs {
		if existing == sub {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			close(sub.ch)
			return
		}
	}
}

// deliver is a non-blocking send. A consumer that is further behind
// than the channel buffer loses the event; the next poll reconciles.
func (s *loopbackSubscription) deliver(event Event) {
	select {
	case s.ch <- event:
	default:
	}
}

// eventID derives a deterministic ID from the event's signed fields,
// mirroring how the wire protocol hashes the canonical serialization.
func eventID(event *Event) string {
	canonical, _ := json.Marshal([]any{
		event.Author, event.CreatedAt, int(event.Kind), event.Tags, event.Content,
	})
	sum := blake3.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
