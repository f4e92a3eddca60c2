// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"

	"github.com/gossamer-forge/gossamer/lib/record"
	"github.com/gossamer-forge/gossamer/lib/ref"
	"github.com/gossamer-forge/gossamer/network"
)

// maxBatch bounds how many queued events one merge cycle absorbs.
const maxBatch = 64

// Run subscribes to the push network and reconciles incoming events
// until ctx is cancelled or the subscription channel closes. When the
// engine has a poll interval configured, a background ticker also
// polls every bound container.
//
// Events are drained in batches and grouped per container and
// resource type so a burst of related events costs one merge, not
// one per event.
func (e *Engine) Run(ctx context.Context) error {
	events, err := e.relay.Subscribe(ctx, e.subscriptionFilters()...)
	if err != nil {
		return fmt.Errorf("engine: subscribing: %w", err)
	}

	var tickerC <-chan struct{}
	if e.pollInterval > 0 && e.poller != nil {
		ticker := e.clock.NewTicker(e.pollInterval)
		defer ticker.Stop()
		ticks := make(chan struct{}, 1)
		tickerC = ticks
		go func() {
			for {
				select {
				case <-ticker.C:
					select {
					case ticks <- struct{}{}:
					default:
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tickerC:
			e.pollAll(ctx)
		case event, open := <-events:
			if !open {
				return nil
			}
			batch := e.drain(events, event)
			e.applyBatch(batch)
		}
	}
}

// subscriptionFilters builds the subscription: every record-bearing
// kind for each bound container, plus all profile events for display
// resolution.
func (e *Engine) subscriptionFilters() []network.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()

	recordKinds := []network.Kind{
		network.KindRepository,
		network.KindIssue,
		network.KindPullRequest,
		network.KindDiscussion,
		network.KindStatus,
		network.KindDeletion,
	}

	filters := []network.Filter{{Kinds: []network.Kind{network.KindProfile}}}
	for container := range e.bindings {
		filters = append(filters, network.Filter{
			Kinds:      recordKinds,
			Containers: []ref.Container{container},
		})
	}
	return filters
}

// drain collects everything already queued on the subscription
// channel, up to maxBatch, without blocking.
func (e *Engine) drain(events <-chan network.Event, first network.Event) []network.Event {
	batch := []network.Event{first}
	for len(batch) < maxBatch {
		select {
		case event, open := <-events:
			if !open {
				return batch
			}
			batch = append(batch, event)
		default:
			return batch
		}
	}
	return batch
}

// collectionKey groups batched records by their merge target.
type collectionKey struct {
	container ref.Container
	typ       record.ResourceType
}

// applyBatch converts a batch of events to records, groups them, and
// merges each group. An event that cannot be converted is logged and
// skipped; it never fails the batch.
func (e *Engine) applyBatch(batch []network.Event) {
	groups := make(map[collectionKey][]record.Record)

	for i := range batch {
		event := &batch[i]

		if event.Kind == network.KindProfile {
			e.ingestProfile(event)
			continue
		}

		r, err := network.EventToRecord(event)
		if err != nil {
			e.logger.Warn("anomalous event dropped",
				"event", event.ID,
				"kind", event.Kind,
				"error", err,
			)
			continue
		}
		key := collectionKey{container: r.Container, typ: r.Type}
		groups[key] = append(groups[key], r)
	}

	for key, records := range groups {
		result, err := e.store.Merge(key.container, key.typ, records)
		if err != nil {
			e.logger.Error("merge failed",
				"container", key.container,
				"type", key.typ,
				"records", len(records),
				"error", err,
			)
			continue
		}
		e.logger.Debug("batch merged",
			"container", key.container,
			"type", key.typ,
			"inserted", result.Inserted,
			"updated", result.Updated,
			"collapsed", result.Collapsed,
		)
	}
}

// ingestProfile feeds a profile event into the display cache.
func (e *Engine) ingestProfile(event *network.Event) {
	profile, err := network.ProfileFromEvent(event)
	if err != nil {
		e.logger.Warn("anomalous event dropped",
			"event", event.ID,
			"kind", event.Kind,
			"error", err,
		)
		return
	}
	e.mu.Lock()
	e.profiles.Put(event.Author, profile)
	e.mu.Unlock()
}
