// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"github.com/gossamer-forge/gossamer/lib/identity"
)

// Kind is the numeric event kind on the push network. The vocabulary
// is fixed by the wire protocol; unknown kinds are carried verbatim
// and skipped at ingestion.
type Kind int

const (
	// KindProfile carries an identity's display profile as JSON
	// content.
	KindProfile Kind = 0

	// KindDeletion is a deletion marker for a previously published
	// event. It references the target record through a "ref" tag.
	KindDeletion Kind = 5

	// KindComment is a threaded comment on another event. Comments
	// are rendered from the event stream directly and never become
	// store records.
	KindComment Kind = 1111

	// KindPullRequest announces or updates a pull request.
	KindPullRequest Kind = 1617

	// KindIssue announces or updates an issue.
	KindIssue Kind = 1621

	// KindStatus carries a status transition for an existing record
	// (open, closed, merged). The target is named by a "ref" tag and
	// the new status by a "status" tag.
	KindStatus Kind = 1630

	// KindDiscussion announces or updates a discussion thread.
	KindDiscussion Kind = 1633

	// KindRepository is a repository announcement. Replaceable:
	// later announcements for the same container supersede earlier
	// ones.
	KindRepository Kind = 30617
)

// Tag names used by this client. Tags are open-vocabulary on the
// wire; unknown tags pass through untouched.
const (
	// TagContainer names the container an event belongs to. The
	// value is either the canonical "<hex-owner>/<name>" form or the
	// encoded "fpub1.../<name>" form older clients emit.
	TagContainer = "container"

	// TagSubject is the human title for issue, pull request, and
	// discussion events whose content is not structured.
	TagSubject = "subject"

	// TagRef names the target record ID of a status or deletion
	// event.
	TagRef = "ref"

	// TagType carries the resource type of the target record on
	// status and deletion events, which cannot infer it from their
	// own kind.
	TagType = "type"

	// TagStatus carries the new status value on a status event.
	TagStatus = "status"

	// TagExternalID carries the numeric ID the same entity has on
	// the centralized REST host, when known.
	TagExternalID = "external_id"

	// TagLabel is a repeatable label tag.
	TagLabel = "label"
)

// Event is a signed event as delivered by the push network. Signature
// creation and verification happen inside the relay layer; by the time
// an Event reaches this client the signature has been checked and the
// Author field is trustworthy.
type Event struct {
	ID        string            `json:"id"`
	Kind      Kind              `json:"kind"`
	Author    identity.Identity `json:"author"`
	CreatedAt int64             `json:"created_at"`
	Tags      [][]string        `json:"tags,omitempty"`
	Content   string            `json:"content,omitempty"`
}

// Tag returns the first value of the named tag. The second return is
// false when the tag is absent or has no value.
func (e *Event) Tag(name string) (string, bool) {
	for _, tag := range e.Tags {
		if len(tag) >= 2 && tag[0] == name {
			return tag[1], true
		}
	}
	return "", false
}

// TagValues returns every value of the named tag, in wire order.
func (e *Event) TagValues(name string) []string {
	var values []string
	for _, tag := range e.Tags {
		if len(tag) >= 2 && tag[0] == name {
			values = append(values, tag[1])
		}
	}
	return values
}

// EventDraft is the unsigned shape handed to a Publisher. The relay
// layer fills in ID, Author, and CreatedAt when signing.
type EventDraft struct {
	Kind    Kind       `json:"kind"`
	Tags    [][]string `json:"tags,omitempty"`
	Content string     `json:"content,omitempty"`
}

// AddTag appends a tag to the draft.
func (d *EventDraft) AddTag(name string, values ...string) {
	d.Tags = append(d.Tags, append([]string{name}, values...))
}
