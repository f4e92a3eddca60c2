// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"

	"github.com/gossamer-forge/gossamer/lib/identity"
	"github.com/gossamer-forge/gossamer/lib/ref"
)

// ResourceType classifies a record. It doubles as a storage-key
// component, so values are short and stable.
type ResourceType string

const (
	Repository  ResourceType = "repository"
	Issue       ResourceType = "issue"
	PullRequest ResourceType = "pull-request"
	Discussion  ResourceType = "discussion"
	Commit      ResourceType = "commit"
)

// Valid reports whether t is one of the defined resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case Repository, Issue, PullRequest, Discussion, Commit:
		return true
	}
	return false
}

// Source identifies where a record (or a field value) came from.
// Ordering is significant: a higher value outranks a lower one for
// conflicting content fields.
type Source int

const (
	// SourcePolled is data pulled from the centralized REST host.
	// Lowest trust: it is a third-party mirror of the network state.
	SourcePolled Source = iota

	// SourceLocal is a locally authored, optimistic record that has
	// not yet been observed on the network.
	SourceLocal

	// SourceNetwork is a signed event observed on the gossip
	// network. Authoritative for every field it carries.
	SourceNetwork
)

// String returns "polled", "local", or "network".
func (s Source) String() string {
	switch s {
	case SourcePolled:
		return "polled"
	case SourceLocal:
		return "local"
	case SourceNetwork:
		return "network"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Outranks reports whether s takes precedence over other for
// conflicting content fields. Equal sources do not outrank each
// other — within one source, later arrivals win.
func (s Source) Outranks(other Source) bool { return s > other }

// Record is one synchronized entity. Records are plain data; all
// mutation goes through the state machine and merge functions in
// this package.
type Record struct {
	// ID is the stable identifier: a network event ID, a locally
	// generated "local-" ID for unpublished records, or an
	// "ext-<n>" ID for records known only from polling. Unique
	// within a (container, resource type) scope.
	ID string `cbor:"id" json:"id"`

	// Container scopes the record.
	Container ref.Container `cbor:"container" json:"container"`

	// Type is the resource type.
	Type ResourceType `cbor:"type" json:"type"`

	// Author is the creating identity. Zero for polled records
	// whose author has no resolvable network identity.
	Author identity.Identity `cbor:"author,omitempty" json:"author,omitempty"`

	// CreatedAt is the creation timestamp, unix seconds.
	CreatedAt int64 `cbor:"created_at" json:"created_at"`

	// Number is the human-facing display sequence number. Zero
	// means "not yet assigned". Once assigned and persisted it
	// never changes.
	Number int `cbor:"number,omitempty" json:"number,omitempty"`

	// NumberCollision is set when a later merge discovered an
	// externally sourced record claiming the same number. Both
	// records keep their numbers; renumbering would break
	// outstanding links.
	NumberCollision bool `cbor:"number_collision,omitempty" json:"number_collision,omitempty"`

	// Title and Body are the primary content fields.
	Title string `cbor:"title,omitempty" json:"title,omitempty"`
	Body  string `cbor:"body,omitempty" json:"body,omitempty"`

	// Labels are free-form classification strings.
	Labels []string `cbor:"labels,omitempty" json:"labels,omitempty"`

	// Source is the origin of the record's current content fields.
	Source Source `cbor:"source" json:"source"`

	// Status is the lifecycle state. See status.go for the
	// transition rules.
	Status Status `cbor:"status" json:"status"`

	// StatusChangedAt is the timestamp of the last applied status
	// transition, unix seconds. Used to order out-of-order status
	// events; zero until any transition has been applied.
	StatusChangedAt int64 `cbor:"status_changed_at,omitempty" json:"status_changed_at,omitempty"`

	// StatusAuthoritative is set once a network status event has
	// been applied. From then on, polled status updates for this
	// record are ignored.
	StatusAuthoritative bool `cbor:"status_authoritative,omitempty" json:"status_authoritative,omitempty"`

	// ExternalID is the numeric identifier assigned by the
	// centralized host, when known. Zero means none. Records from
	// different sources with the same external ID are the same
	// logical entity.
	ExternalID int64 `cbor:"external_id,omitempty" json:"external_id,omitempty"`

	// Fingerprint is the blake3 content fingerprint, used to
	// collapse records that represent the same logical entity
	// across sources before any shared ID is known.
	Fingerprint string `cbor:"fingerprint,omitempty" json:"fingerprint,omitempty"`

	// Payload carries the resource-specific content, already
	// resolved to its legacy or structured shape at ingestion.
	Payload Payload `cbor:"payload,omitempty" json:"payload,omitempty"`
}

// Validate checks the structural invariants every record must hold
// before it may enter the store.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record: empty ID")
	}
	if r.Container.IsZero() {
		return fmt.Errorf("record %s: zero container", r.ID)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("record %s: unknown resource type %q", r.ID, r.Type)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("record %s: unknown status %q", r.ID, r.Status)
	}
	if r.Status == StatusMerged && r.Type != PullRequest {
		return fmt.Errorf("record %s: status %q on a %s", r.ID, r.Status, r.Type)
	}
	return nil
}

// Clone returns a deep copy. Slices and the payload are copied so
// callers can hand out records without aliasing stored state.
func (r *Record) Clone() Record {
	clone := *r
	if r.Labels != nil {
		clone.Labels = append([]string(nil), r.Labels...)
	}
	clone.Payload = r.Payload.clone()
	return clone
}

// MergeFields folds incoming's content fields into target under the
// source precedence policy: incoming wins a conflicting field when
// its source outranks the target's, or when both came from the same
// source (later arrival wins within one source). Status and Number
// are never touched here — status follows the state machine, numbers
// are assigned once by the store.
func MergeFields(target *Record, incoming *Record) {
	if target.Source.Outranks(incoming.Source) {
		// Lower-ranked content never overwrites, but identifying
		// metadata still fills gaps: a polled refresh may be the
		// first to tell us the external number.
		if target.ExternalID == 0 {
			target.ExternalID = incoming.ExternalID
		}
		if target.Author.IsZero() {
			target.Author = incoming.Author
		}
		return
	}

	// Content-bearing records always carry a title. An incoming
	// record without one is a status-only or deletion observation
	// and must not blank out content the target already has.
	if incoming.Title != "" {
		target.Title = incoming.Title
		target.Body = incoming.Body
		if incoming.Labels != nil {
			target.Labels = append([]string(nil), incoming.Labels...)
		}
		if !incoming.Payload.IsZero() {
			target.Payload = incoming.Payload.clone()
		}
		if incoming.Fingerprint != "" {
			target.Fingerprint = incoming.Fingerprint
		}
		target.Source = incoming.Source
	}
	// Author is fixed at creation. A status or deletion observation
	// carries its publisher as Author, and that publisher is whoever
	// closed or deleted the record, not whoever created it.
	if target.Author.IsZero() && !incoming.Author.IsZero() {
		target.Author = incoming.Author
	}
	if incoming.CreatedAt != 0 {
		target.CreatedAt = incoming.CreatedAt
	}
	if incoming.ExternalID != 0 {
		target.ExternalID = incoming.ExternalID
	}
}
