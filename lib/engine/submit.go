// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gossamer-forge/gossamer/lib/record"
	"github.com/gossamer-forge/gossamer/lib/ref"
	"github.com/gossamer-forge/gossamer/lib/roles"
	"github.com/gossamer-forge/gossamer/network"
)

// Draft is the user-authored content of a new record.
type Draft struct {
	Title  string
	Body   string
	Labels []string
}

// draftKinds maps resource types to the event kind that announces
// them.
var draftKinds = map[record.ResourceType]network.Kind{
	record.Repository:  network.KindRepository,
	record.Issue:       network.KindIssue,
	record.PullRequest: network.KindPullRequest,
	record.Discussion:  network.KindDiscussion,
}

// SubmitLocal stores an optimistic local record for the draft and
// publishes the corresponding network event. The published event is
// merged back immediately, so on success the returned record carries
// the network event ID and the local ID is gone.
//
// When publishing fails the local record stays in the store as
// pending and is returned alongside the error: the submission is not
// lost, the next successful publish or poll reconciles it.
func (e *Engine) SubmitLocal(ctx context.Context, container ref.Container, resourceType record.ResourceType, draft Draft) (record.Record, error) {
	if err := e.checkWrite(container, e.self, roles.RoleContributor); err != nil {
		return record.Record{}, err
	}
	kind, ok := draftKinds[resourceType]
	if !ok {
		return record.Record{}, fmt.Errorf("engine: cannot submit a %s", resourceType)
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return record.Record{}, fmt.Errorf("engine: draft needs a title")
	}

	now := e.clock.Now().Unix()
	fingerprint := record.Fingerprint(title, draft.Body)
	local := record.Record{
		ID:          record.NewLocalID(container, resourceType, fingerprint, now),
		Container:   container,
		Type:        resourceType,
		Author:      e.self,
		CreatedAt:   now,
		Title:       title,
		Body:        draft.Body,
		Labels:      draft.Labels,
		Source:      record.SourceLocal,
		Status:      record.StatusOpen,
		Fingerprint: fingerprint,
	}

	result, err := e.store.Merge(container, resourceType, []record.Record{local})
	if err != nil {
		return record.Record{}, err
	}

	published, err := e.relay.Publish(ctx, contentDraft(kind, container, title, draft))
	if err != nil {
		e.logger.Warn("publish failed, record stays local pending",
			"container", container, "record", local.ID, "error", err)
		return pick(result.Records, local.ID), fmt.Errorf("engine: publishing %s: %w", local.ID, err)
	}

	confirmed, err := network.EventToRecord(&published)
	if err != nil {
		// Our own publish came back unmappable. Should not happen;
		// keep the pending record rather than failing the submit.
		e.logger.Error("published event did not map back to a record",
			"event", published.ID, "error", err)
		return pick(result.Records, local.ID), nil
	}

	result, err = e.store.Merge(container, resourceType, []record.Record{confirmed})
	if err != nil {
		return record.Record{}, err
	}
	return pick(result.Records, confirmed.ID), nil
}

// SetStatus publishes a status transition for a record and applies it
// locally. Maintainer role required.
func (e *Engine) SetStatus(ctx context.Context, container ref.Container, resourceType record.ResourceType, recordID string, status record.Status) error {
	if err := e.checkWrite(container, e.self, roles.RoleMaintainer); err != nil {
		return err
	}
	if _, err := record.ParseStatus(string(status)); err != nil {
		return err
	}

	draft := network.EventDraft{Kind: network.KindStatus}
	draft.AddTag(network.TagContainer, container.String())
	draft.AddTag(network.TagRef, recordID)
	draft.AddTag(network.TagType, string(resourceType))
	draft.AddTag(network.TagStatus, string(status))

	return e.publishAndMerge(ctx, container, resourceType, draft)
}

// Delete publishes a deletion marker for a record and tombstones it
// locally. Maintainer role required. The record is never hard
// deleted: read views suppress it permanently.
func (e *Engine) Delete(ctx context.Context, container ref.Container, resourceType record.ResourceType, recordID string) error {
	if err := e.checkWrite(container, e.self, roles.RoleMaintainer); err != nil {
		return err
	}

	draft := network.EventDraft{Kind: network.KindDeletion}
	draft.AddTag(network.TagContainer, container.String())
	draft.AddTag(network.TagRef, recordID)
	draft.AddTag(network.TagType, string(resourceType))

	return e.publishAndMerge(ctx, container, resourceType, draft)
}

// publishAndMerge publishes a draft and merges the resulting event
// into the store.
func (e *Engine) publishAndMerge(ctx context.Context, container ref.Container, resourceType record.ResourceType, draft network.EventDraft) error {
	published, err := e.relay.Publish(ctx, draft)
	if err != nil {
		return fmt.Errorf("engine: publishing: %w", err)
	}
	asserted, err := network.EventToRecord(&published)
	if err != nil {
		return fmt.Errorf("engine: mapping published event %s: %w", published.ID, err)
	}
	if _, err := e.store.Merge(container, resourceType, []record.Record{asserted}); err != nil {
		return err
	}
	return nil
}

// contentDraft shapes the network event for a content submission:
// structured JSON content plus the tags ingestion reads back.
func contentDraft(kind network.Kind, container ref.Container, title string, draft Draft) network.EventDraft {
	content, _ := json.Marshal(map[string]string{
		"title": title,
		"body":  draft.Body,
	})
	out := network.EventDraft{Kind: kind, Content: string(content)}
	out.AddTag(network.TagContainer, container.String())
	out.AddTag(network.TagSubject, title)
	for _, label := range draft.Labels {
		out.AddTag(network.TagLabel, label)
	}
	return out
}

// pick returns the record with the given ID from a merge result, or a
// zero record if the collapse renamed it unexpectedly.
func pick(records []record.Record, id string) record.Record {
	for i := range records {
		if records[i].ID == id {
			return records[i]
		}
	}
	return record.Record{}
}
