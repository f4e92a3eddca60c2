// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gossamer-forge/gossamer/lib/identity"
	"github.com/gossamer-forge/gossamer/lib/record"
	"github.com/gossamer-forge/gossamer/lib/ref"
)

// ContainerOf attributes an event to its container via the container
// tag. Both the canonical hex form and the encoded owner form are
// accepted. Events that cannot be attributed are unusable and the
// caller drops them.
func ContainerOf(event *Event) (ref.Container, error) {
	raw, ok := event.Tag(TagContainer)
	if !ok {
		return ref.Container{}, fmt.Errorf("event %s has no container tag: %w",
			event.ID, ErrUnknownContainer)
	}
	container, err := ref.ParseContainer(raw, nil)
	if err != nil {
		return ref.Container{}, fmt.Errorf("event %s container %q: %v: %w",
			event.ID, raw, err, ErrUnknownContainer)
	}
	return container, nil
}

// recordKinds maps content-bearing event kinds to the resource type
// they announce.
var recordKinds = map[Kind]record.ResourceType{
	KindRepository:  record.Repository,
	KindIssue:       record.Issue,
	KindPullRequest: record.PullRequest,
	KindDiscussion:  record.Discussion,
}

// EventToRecord maps an incoming event to the store record it asserts.
//
// Content kinds (repository, issue, pull request, discussion) produce
// a full record under the event's own ID. Status and deletion events
// produce a status-only record under the ID their "ref" tag names; if
// no record with that ID exists yet the merge inserts a placeholder
// that the content event fills in when it arrives.
//
// Kinds this client does not persist (profiles, comments) and
// structurally broken events return ErrAnomalousEvent.
func EventToRecord(event *Event) (record.Record, error) {
	container, err := ContainerOf(event)
	if err != nil {
		return record.Record{}, err
	}

	if resourceType, ok := recordKinds[event.Kind]; ok {
		return contentRecord(event, container, resourceType)
	}

	switch event.Kind {
	case KindStatus:
		return statusRecord(event, container, false)
	case KindDeletion:
		return statusRecord(event, container, true)
	}
	return record.Record{}, fmt.Errorf("event %s kind %d is not persisted: %w",
		event.ID, event.Kind, ErrAnomalousEvent)
}

func contentRecord(event *Event, container ref.Container, resourceType record.ResourceType) (record.Record, error) {
	r := record.Record{
		ID:        event.ID,
		Container: container,
		Type:      resourceType,
		Author:    event.Author,
		CreatedAt: event.CreatedAt,
		Labels:    event.TagValues(TagLabel),
		Source:    record.SourceNetwork,
		Status:    record.StatusOpen,
		Payload:   record.NormalizePayload([]byte(event.Content)),
	}

	switch r.Payload.Kind {
	case record.PayloadStructured:
		r.Title = r.Payload.Fields["title"]
		r.Body = r.Payload.Fields["body"]
	case record.PayloadLegacy:
		// Old clients put the whole body in the content. Surface it
		// so list views have something to show; the verbatim blob
		// stays in the payload.
		r.Body = event.Content
	}
	if r.Title == "" {
		r.Title, _ = event.Tag(TagSubject)
	}
	if r.Title == "" {
		return record.Record{}, fmt.Errorf("event %s carries no title: %w",
			event.ID, ErrAnomalousEvent)
	}

	if raw, ok := event.Tag(TagExternalID); ok {
		externalID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return record.Record{}, fmt.Errorf("event %s external_id %q: %w",
				event.ID, raw, ErrAnomalousEvent)
		}
		r.ExternalID = externalID
	}

	r.Fingerprint = record.Fingerprint(r.Title, r.Body)
	return r, nil
}

// statusRecord builds the status-only record a status or deletion
// event asserts about its target. CreatedAt stays zero: the event's
// timestamp is the transition time, not the record's creation time.
func statusRecord(event *Event, container ref.Container, deletion bool) (record.Record, error) {
	targetID, ok := event.Tag(TagRef)
	if !ok {
		return record.Record{}, fmt.Errorf("event %s has no ref tag: %w",
			event.ID, ErrAnomalousEvent)
	}
	rawType, ok := event.Tag(TagType)
	if !ok {
		return record.Record{}, fmt.Errorf("event %s has no type tag: %w",
			event.ID, ErrAnomalousEvent)
	}
	resourceType := record.ResourceType(rawType)
	if !resourceType.Valid() {
		return record.Record{}, fmt.Errorf("event %s type %q: %w",
			event.ID, rawType, ErrAnomalousEvent)
	}

	r := record.Record{
		ID:              targetID,
		Container:       container,
		Type:            resourceType,
		Author:          event.Author,
		Source:          record.SourceNetwork,
		StatusChangedAt: event.CreatedAt,
	}

	if deletion {
		r.Status = record.StatusTombstoned
		return r, nil
	}

	rawStatus, ok := event.Tag(TagStatus)
	if !ok {
		return record.Record{}, fmt.Errorf("event %s has no status tag: %w",
			event.ID, ErrAnomalousEvent)
	}
	status, err := record.ParseStatus(rawStatus)
	if err != nil {
		return record.Record{}, fmt.Errorf("event %s: %v: %w",
			event.ID, err, ErrAnomalousEvent)
	}
	r.Status = status
	return r, nil
}

// ProfileFromEvent decodes a profile event's JSON content. The result
// feeds the identity.ProfileCache used for display resolution.
func ProfileFromEvent(event *Event) (identity.Profile, error) {
	if event.Kind != KindProfile {
		return identity.Profile{}, fmt.Errorf("event %s kind %d is not a profile: %w",
			event.ID, event.Kind, ErrAnomalousEvent)
	}
	var profile identity.Profile
	if err := json.Unmarshal([]byte(event.Content), &profile); err != nil {
		return identity.Profile{}, fmt.Errorf("event %s profile content: %v: %w",
			event.ID, err, ErrAnomalousEvent)
	}
	return profile, nil
}
