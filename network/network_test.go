// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gossamer-forge/gossamer/lib/clock"
	"github.com/gossamer-forge/gossamer/lib/identity"
	"github.com/gossamer-forge/gossamer/lib/record"
	"github.com/gossamer-forge/gossamer/lib/ref"
	"github.com/gossamer-forge/gossamer/lib/testutil"
)

func testIdentity(t *testing.T, leading string) identity.Identity {
	t.Helper()
	id, err := identity.Parse(leading + strings.Repeat("0", identity.HexLength-len(leading)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return id
}

func testContainer(t *testing.T, owner identity.Identity) ref.Container {
	t.Helper()
	container, err := ref.New(owner, "proj")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return container
}

func issueEvent(id string, container ref.Container, author identity.Identity, createdAt int64) Event {
	return Event{
		ID:        id,
		Kind:      KindIssue,
		Author:    author,
		CreatedAt: createdAt,
		Tags: [][]string{
			{TagContainer, container.String()},
			{TagSubject, "Fix bug"},
		},
		Content: "the reproduction steps",
	}
}

func TestTagHelpers(t *testing.T) {
	event := Event{Tags: [][]string{
		{TagLabel, "bug"},
		{TagSubject, "Title"},
		{TagLabel, "urgent"},
		{"dangling"},
	}}

	if value, ok := event.Tag(TagSubject); !ok || value != "Title" {
		t.Errorf("Tag(subject) = %q, %v", value, ok)
	}
	if _, ok := event.Tag("missing"); ok {
		t.Error("Tag reported a missing tag present")
	}
	if _, ok := event.Tag("dangling"); ok {
		t.Error("a tag without a value counts as absent")
	}
	labels := event.TagValues(TagLabel)
	if len(labels) != 2 || labels[0] != "bug" || labels[1] != "urgent" {
		t.Errorf("TagValues = %v", labels)
	}
}

func TestFilterMatches(t *testing.T) {
	author := testIdentity(t, "aa")
	other := testIdentity(t, "bb")
	container := testContainer(t, author)
	event := issueEvent("ev-1", container, author, 100)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches", Filter{}, true},
		{"kind match", Filter{Kinds: []Kind{KindIssue}}, true},
		{"kind mismatch", Filter{Kinds: []Kind{KindPullRequest}}, false},
		{"author match", Filter{Authors: []identity.Identity{author}}, true},
		{"author mismatch", Filter{Authors: []identity.Identity{other}}, false},
		{"container match", Filter{Containers: []ref.Container{container}}, true},
		{"container mismatch", Filter{Containers: []ref.Container{testContainer(t, other)}}, false},
		{"since inclusive", Filter{Since: 100}, true},
		{"since excludes older", Filter{Since: 101}, false},
		{"conjunctive", Filter{Kinds: []Kind{KindIssue}, Since: 101}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.filter.Matches(&event); got != test.want {
				t.Errorf("Matches = %v, want %v", got, test.want)
			}
		})
	}

	if MatchesAny(nil, &event) {
		t.Error("an empty filter list must match nothing")
	}
}

func TestFilterContainerAcceptsEncodedOwnerTag(t *testing.T) {
	author := testIdentity(t, "aa")
	container := testContainer(t, author)

	event := issueEvent("ev-1", container, author, 100)
	event.Tags[0][1] = author.Encoded() + "/proj"

	filter := Filter{Containers: []ref.Container{container}}
	if !filter.Matches(&event) {
		t.Error("encoded-owner container tag did not match the canonical container")
	}
}

func TestEventToRecordContent(t *testing.T) {
	author := testIdentity(t, "aa")
	container := testContainer(t, author)

	event := issueEvent("ev-1", container, author, 100)
	event.Tags = append(event.Tags, []string{TagLabel, "bug"}, []string{TagExternalID, "42"})

	r, err := EventToRecord(&event)
	if err != nil {
		t.Fatalf("EventToRecord: %v", err)
	}
	if r.ID != "ev-1" || r.Type != record.Issue || r.Container != container {
		t.Errorf("record = %+v", r)
	}
	if r.Title != "Fix bug" {
		t.Errorf("title = %q, want the subject tag", r.Title)
	}
	if r.Body != "the reproduction steps" {
		t.Errorf("body = %q", r.Body)
	}
	if r.Payload.Kind != record.PayloadLegacy {
		t.Errorf("plain-text content should be carried as a legacy payload, got %q", r.Payload.Kind)
	}
	if r.Source != record.SourceNetwork || r.Status != record.StatusOpen {
		t.Errorf("source = %v, status = %q", r.Source, r.Status)
	}
	if r.ExternalID != 42 || len(r.Labels) != 1 || r.Labels[0] != "bug" {
		t.Errorf("external ID = %d, labels = %v", r.ExternalID, r.Labels)
	}
	if r.Fingerprint == "" {
		t.Error("content record must carry a fingerprint")
	}
}

func TestEventToRecordStructuredContent(t *testing.T) {
	author := testIdentity(t, "aa")
	container := testContainer(t, author)

	event := Event{
		ID:        "ev-1",
		Kind:      KindPullRequest,
		Author:    author,
		CreatedAt: 100,
		Tags:      [][]string{{TagContainer, container.String()}},
		Content:   `{"title":"Add feature","body":"the diff","branch":"feature-1"}`,
	}

	r, err := EventToRecord(&event)
	if err != nil {
		t.Fatalf("EventToRecord: %v", err)
	}
	if r.Title != "Add feature" || r.Body != "the diff" {
		t.Errorf("title = %q, body = %q", r.Title, r.Body)
	}
	if r.Payload.Kind != record.PayloadStructured || r.Payload.Fields["branch"] != "feature-1" {
		t.Errorf("payload = %+v", r.Payload)
	}
}

func TestEventToRecordStatus(t *testing.T) {
	author := testIdentity(t, "aa")
	container := testContainer(t, author)

	event := Event{
		ID:        "ev-status",
		Kind:      KindStatus,
		Author:    author,
		CreatedAt: 50,
		Tags: [][]string{
			{TagContainer, container.String()},
			{TagRef, "ev-1"},
			{TagType, string(record.Issue)},
			{TagStatus, "closed"},
		},
	}

	r, err := EventToRecord(&event)
	if err != nil {
		t.Fatalf("EventToRecord: %v", err)
	}
	if r.ID != "ev-1" {
		t.Errorf("ID = %q, want the ref target", r.ID)
	}
	if r.Status != record.StatusClosed || r.StatusChangedAt != 50 {
		t.Errorf("status = %q at %d", r.Status, r.StatusChangedAt)
	}
	if r.Title != "" || r.CreatedAt != 0 {
		t.Errorf("status record must be content-free, got title %q createdAt %d", r.Title, r.CreatedAt)
	}
}

func TestEventToRecordDeletion(t *testing.T) {
	author := testIdentity(t, "aa")
	container := testContainer(t, author)

	event := Event{
		ID:        "ev-del",
		Kind:      KindDeletion,
		Author:    author,
		CreatedAt: 70,
		Tags: [][]string{
			{TagContainer, container.String()},
			{TagRef, "ev-1"},
			{TagType, string(record.Issue)},
		},
	}

	r, err := EventToRecord(&event)
	if err != nil {
		t.Fatalf("EventToRecord: %v", err)
	}
	if r.Status != record.StatusTombstoned {
		t.Errorf("status = %q, want tombstoned", r.Status)
	}
}

func TestEventToRecordErrors(t *testing.T) {
	author := testIdentity(t, "aa")
	container := testContainer(t, author)

	tests := []struct {
		name  string
		event Event
		want  error
	}{
		{
			"no container tag",
			Event{ID: "x", Kind: KindIssue},
			ErrUnknownContainer,
		},
		{
			"reserved container owner",
			Event{ID: "x", Kind: KindIssue, Tags: [][]string{{TagContainer, "github.com/proj"}}},
			ErrUnknownContainer,
		},
		{
			"unmapped kind",
			Event{ID: "x", Kind: KindComment, Tags: [][]string{{TagContainer, container.String()}}},
			ErrAnomalousEvent,
		},
		{
			"status without ref",
			Event{ID: "x", Kind: KindStatus, Tags: [][]string{
				{TagContainer, container.String()}, {TagStatus, "closed"}, {TagType, "issue"},
			}},
			ErrAnomalousEvent,
		},
		{
			"status with bogus value",
			Event{ID: "x", Kind: KindStatus, Tags: [][]string{
				{TagContainer, container.String()}, {TagRef, "ev-1"},
				{TagType, "issue"}, {TagStatus, "tombstoned"},
			}},
			ErrAnomalousEvent,
		},
		{
			"content without title",
			Event{ID: "x", Kind: KindIssue, Author: author,
				Tags: [][]string{{TagContainer, container.String()}}},
			ErrAnomalousEvent,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := EventToRecord(&test.event); !errors.Is(err, test.want) {
				t.Errorf("err = %v, want %v", err, test.want)
			}
		})
	}
}

func TestProfileFromEvent(t *testing.T) {
	event := Event{ID: "p", Kind: KindProfile, Content: `{"name":"Alice","handle":"alice"}`}
	profile, err := ProfileFromEvent(&event)
	if err != nil {
		t.Fatalf("ProfileFromEvent: %v", err)
	}
	if profile.Name != "Alice" || profile.Handle != "alice" {
		t.Errorf("profile = %+v", profile)
	}

	if _, err := ProfileFromEvent(&Event{Kind: KindIssue}); !errors.Is(err, ErrAnomalousEvent) {
		t.Errorf("non-profile kind: err = %v", err)
	}
	if _, err := ProfileFromEvent(&Event{Kind: KindProfile, Content: "not json"}); !errors.Is(err, ErrAnomalousEvent) {
		t.Errorf("broken content: err = %v", err)
	}
}

func TestFakeRelayPublishAndSubscribe(t *testing.T) {
	author := testIdentity(t, "aa")
	container := testContainer(t, author)
	clk := clock.Fake(time.Unix(1000, 0))
	relay := NewFakeRelay(author, clk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := relay.Subscribe(ctx, Filter{Kinds: []Kind{KindIssue}})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	draft := EventDraft{Kind: KindIssue, Content: "body"}
	draft.AddTag(TagContainer, container.String())
	draft.AddTag(TagSubject, "Fix bug")
	published, err := relay.Publish(ctx, draft)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.ID == "" || published.Author != author || published.CreatedAt != 1000 {
		t.Errorf("published = %+v", published)
	}

	select {
	case got := <-events:
		if got.ID != published.ID {
			t.Errorf("received %q, want %q", got.ID, published.ID)
		}
	default:
		t.Fatal("publish did not reach the live subscription")
	}

	// A kind the filter excludes stays silent.
	if _, err := relay.Publish(ctx, EventDraft{Kind: KindComment}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case got := <-events:
		t.Errorf("filtered-out event delivered: %+v", got)
	default:
	}
}

func TestLoopbackRelayNilClockPublishes(t *testing.T) {
	// The daemon constructs the loopback with a nil clock.
	author := testIdentity(t, "aa")
	container := testContainer(t, author)
	relay := NewLoopback(author, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := relay.Subscribe(ctx, Filter{Kinds: []Kind{KindIssue}})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	draft := EventDraft{Kind: KindIssue, Content: "body"}
	draft.AddTag(TagContainer, container.String())
	draft.AddTag(TagSubject, "Fix bug")
	published, err := relay.Publish(ctx, draft)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.CreatedAt <= 0 {
		t.Errorf("CreatedAt = %d, want a wall-clock timestamp", published.CreatedAt)
	}
	if got := testutil.RequireReceive(t, events, time.Second, "loopback delivery"); got.ID != published.ID {
		t.Errorf("received %q, want %q", got.ID, published.ID)
	}
}

func TestFakeRelayBackfillAndRedeliver(t *testing.T) {
	author := testIdentity(t, "aa")
	container := testContainer(t, author)
	relay := NewFakeRelay(author, clock.Fake(time.Unix(1000, 0)))

	relay.Inject(issueEvent("ev-1", container, author, 100))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := relay.Subscribe(ctx, Filter{Kinds: []Kind{KindIssue}})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	got := testutil.RequireReceive(t, events, time.Second, "backfill delivery")
	if got.ID != "ev-1" {
		t.Fatalf("backfill delivered %q", got.ID)
	}

	if !relay.Redeliver("ev-1") {
		t.Fatal("Redeliver did not find the stored event")
	}
	if dup := testutil.RequireReceive(t, events, time.Second, "redelivery"); dup.ID != "ev-1" {
		t.Errorf("redelivery sent %q", dup.ID)
	}
	if relay.Redeliver("no-such-event") {
		t.Error("Redeliver invented an event")
	}
}

func TestFakeRelaySubscriptionClosesOnCancel(t *testing.T) {
	author := testIdentity(t, "aa")
	relay := NewFakeRelay(author, clock.Fake(time.Unix(1000, 0)))

	ctx, cancel := context.WithCancel(context.Background())
	events, err := relay.Subscribe(ctx, Filter{Kinds: []Kind{KindIssue}})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	cancel()

	select {
	case _, open := <-events:
		if open {
			t.Error("received an event after cancellation")
		}
	case <-time.After(time.Second):
		t.Error("subscription channel not closed after cancel")
	}
}
