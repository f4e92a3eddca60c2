// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"

	"github.com/gossamer-forge/gossamer/lib/kv"
	"github.com/gossamer-forge/gossamer/lib/record"
	"github.com/gossamer-forge/gossamer/lib/ref"
)

// MergeResult reports what one merge call did. Records holds the
// full merged collection (tombstones included) so callers keep the
// reconciled state even when persistence degraded or failed.
type MergeResult struct {
	Records   []record.Record
	Inserted  int
	Updated   int
	Collapsed int

	// Degraded is set when the persisted form had to shed payload
	// weight to fit the storage quota.
	Degraded bool

	// Persisted is false when even the degraded form did not fit.
	// The merged state survives in Records; the next successful
	// merge persists it.
	Persisted bool
}

// Merge folds an incoming batch into the stored collection. See the
// package documentation for the full semantics. The batch is
// validated before any state is read or written; a malformed
// container or record rejects the whole call with [ErrMergeRejected]
// and the stored state is untouched.
func (s *Store) Merge(container ref.Container, resourceType record.ResourceType, incoming []record.Record) (MergeResult, error) {
	if container.IsZero() {
		return MergeResult{}, fmt.Errorf("store: merge with zero container: %w (%w)", ref.ErrInvalidContainer, ErrMergeRejected)
	}
	if !resourceType.Valid() {
		return MergeResult{}, fmt.Errorf("store: merge with unknown resource type %q: %w", resourceType, ErrMergeRejected)
	}
	for i := range incoming {
		r := &incoming[i]
		if err := r.Validate(); err != nil {
			return MergeResult{}, fmt.Errorf("store: batch record %d: %w (%w)", i, err, ErrMergeRejected)
		}
		if r.Container != container {
			return MergeResult{}, fmt.Errorf("store: batch record %s belongs to %s, not %s: %w", r.ID, r.Container, container, ErrMergeRejected)
		}
		if r.Type != resourceType {
			return MergeResult{}, fmt.Errorf("store: batch record %s is a %s, not a %s: %w", r.ID, r.Type, resourceType, ErrMergeRejected)
		}
	}

	key := collectionKey(container, resourceType)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.load(key)
	if err != nil {
		return MergeResult{}, err
	}

	result := MergeResult{}
	byID := make(map[string]int, len(records))
	for i := range records {
		byID[records[i].ID] = i
	}

	for i := range incoming {
		r := &incoming[i]

		index, known := byID[r.ID]
		if !known {
			index, known = findCollapseTarget(records, r)
			if known {
				result.Collapsed++
				// The surviving identifier prefers network event
				// IDs over local IDs over external IDs.
				if idRank(r.ID) > idRank(records[index].ID) {
					delete(byID, records[index].ID)
					records[index].ID = r.ID
					byID[r.ID] = index
				}
			}
		}

		if !known {
			records = append(records, normalizeInsert(r))
			byID[r.ID] = len(records) - 1
			result.Inserted++
			continue
		}

		target := &records[index]
		record.MergeFields(target, r)
		if target.Number == 0 && r.Number != 0 {
			target.Number = r.Number
		}
		if event, ok := statusObservation(r); ok {
			target.ApplyStatus(event)
		}
		result.Updated++
	}

	assignNumbers(records)
	flagNumberCollisions(records)

	result.Persisted = true
	if err := s.persist(key, records); err != nil {
		if !errors.Is(err, kv.ErrQuotaExceeded) {
			return MergeResult{}, fmt.Errorf("store: persisting %s: %w", key, err)
		}
		// Over quota: shed payload weight and retry once. The
		// reconciled state is kept either way.
		shedPayloads(records)
		result.Degraded = true
		if err := s.persist(key, records); err != nil {
			s.logger.Warn("collection not persisted, serving reconciled state from memory",
				"key", key, "error", err)
			result.Persisted = false
		}
	}

	result.Records = cloneAll(records)
	return result, nil
}

// normalizeInsert prepares an incoming record for first insertion.
func normalizeInsert(r *record.Record) record.Record {
	inserted := r.Clone()
	if inserted.Status == "" {
		inserted.Status = record.StatusOpen
	}
	// An explicit network status transition makes the status
	// authoritative from the start; a bare create does not, so a
	// later poll may still supply the default status.
	inserted.StatusAuthoritative = inserted.Source == record.SourceNetwork &&
		inserted.StatusChangedAt > 0 && !inserted.Tombstoned()
	return inserted
}

// statusObservation extracts the status event an incoming record
// carries, if any. A record with no explicit transition timestamp
// and the default open status is a creation, and creation is not a
// status transition. Polled records always carry their snapshot
// status as a default observation.
func statusObservation(r *record.Record) (record.StatusEvent, bool) {
	if r.Tombstoned() {
		return record.StatusEvent{Deletion: true, At: r.StatusChangedAt, Source: r.Source}, true
	}
	if r.Source == record.SourcePolled {
		return record.StatusEvent{Status: r.Status, At: r.StatusChangedAt, Source: r.Source}, true
	}
	if r.StatusChangedAt == 0 {
		return record.StatusEvent{}, false
	}
	return record.StatusEvent{Status: r.Status, At: r.StatusChangedAt, Source: r.Source}, true
}

// findCollapseTarget looks for an existing record that represents
// the same logical entity as r: same external numeric ID, or same
// content fingerprint.
func findCollapseTarget(records []record.Record, r *record.Record) (int, bool) {
	for i := range records {
		e := &records[i]
		if r.ExternalID != 0 && e.ExternalID == r.ExternalID {
			return i, true
		}
		if r.Fingerprint != "" && e.Fingerprint == r.Fingerprint {
			return i, true
		}
	}
	return 0, false
}

// idRank orders identifier kinds for collapse survival: network
// event IDs above local IDs above external IDs.
func idRank(id string) int {
	switch {
	case record.IsExternalID(id):
		return 0
	case record.IsLocalID(id):
		return 1
	default:
		return 2
	}
}

// shedPayloads drops the heavy content from every record in place:
// legacy payload blobs, structured payload fields, and oversized
// bodies. Everything a list view needs (titles, identifiers, status,
// numbers) survives.
func shedPayloads(records []record.Record) {
	const maxBody = 1024
	for i := range records {
		records[i].Payload = record.Payload{}
		if len(records[i].Body) > maxBody {
			records[i].Body = records[i].Body[:maxBody]
		}
	}
}

func cloneAll(records []record.Record) []record.Record {
	out := make([]record.Record, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out
}
