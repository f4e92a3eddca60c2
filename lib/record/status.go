// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package record

import "fmt"

// Status is a record's lifecycle state.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"

	// StatusMerged applies to pull requests only.
	StatusMerged Status = "merged"

	// StatusTombstoned is the terminal deleted state. It is sticky:
	// no later event of any kind moves a record out of it, even a
	// re-delivered older non-deletion event for the same ID.
	StatusTombstoned Status = "tombstoned"
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusMerged, StatusTombstoned:
		return true
	}
	return false
}

// StatusEvent is one status-bearing observation: a network status
// event, a polled snapshot, or a deletion marker.
type StatusEvent struct {
	// Status is the state the event asserts. Ignored for deletion
	// markers.
	Status Status

	// At is the event's own timestamp, unix seconds. Network
	// delivery is unordered; this timestamp, not arrival order,
	// decides whether the event applies.
	At int64

	// Source is where the observation came from.
	Source Source

	// Deletion marks the event as a deletion marker. Deletion
	// transitions are unconditional and sticky.
	Deletion bool
}

// ApplyStatus runs one status event through the state machine and
// reports whether the record changed. The rules, in order:
//
//  1. Tombstoned is terminal — nothing applies, not even another
//     deletion marker (it is already there).
//  2. A deletion marker transitions to Tombstoned unconditionally,
//     regardless of timestamp ordering.
//  3. A polled status is only a default: it applies while no network
//     status event has ever been applied, and is ignored afterwards.
//  4. A network status event applies iff its timestamp is strictly
//     newer than the last applied transition. Older and duplicate
//     events are dropped silently — out-of-order delivery must not
//     regress state.
//
// Events asserting StatusMerged on a non-pull-request are dropped.
func (r *Record) ApplyStatus(event StatusEvent) bool {
	if r.Status == StatusTombstoned {
		return false
	}

	if event.Deletion {
		r.Status = StatusTombstoned
		if event.At > r.StatusChangedAt {
			r.StatusChangedAt = event.At
		}
		return true
	}

	if !event.Status.Valid() || event.Status == StatusTombstoned {
		return false
	}
	if event.Status == StatusMerged && r.Type != PullRequest {
		return false
	}

	switch event.Source {
	case SourcePolled:
		if r.StatusAuthoritative {
			return false
		}
		if r.Status == event.Status {
			return false
		}
		// A polled status is a default, not a transition: it does
		// not advance StatusChangedAt, so the first network status
		// event always supersedes it regardless of how the poll
		// time compares to the event's own timestamp.
		r.Status = event.Status
		return true

	case SourceNetwork, SourceLocal:
		if event.At <= r.StatusChangedAt {
			return false
		}
		r.Status = event.Status
		r.StatusChangedAt = event.At
		if event.Source == SourceNetwork {
			r.StatusAuthoritative = true
		}
		return true
	}

	return false
}

// Tombstoned reports whether the record is in the terminal deleted
// state. Read views suppress tombstoned records permanently.
func (r *Record) Tombstoned() bool { return r.Status == StatusTombstoned }

// ParseStatus validates a wire status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() || s == StatusTombstoned {
		return "", fmt.Errorf("record: unknown status %q", raw)
	}
	return s, nil
}
