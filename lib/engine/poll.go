// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/gossamer-forge/gossamer/lib/forge"
	"github.com/gossamer-forge/gossamer/lib/record"
	"github.com/gossamer-forge/gossamer/lib/ref"
)

// Poller fetches a container's records from the centralized host.
// Implementations must respect ctx; the engine bounds every call with
// its poll timeout.
type Poller interface {
	Poll(ctx context.Context, binding Binding, resourceType record.ResourceType) ([]record.Record, error)
}

// ForgePoller adapts a forge.Client to the Poller interface.
type ForgePoller struct {
	Client *forge.Client
}

// Poll implements Poller. Issues and pull requests have listed
// sources on the host; other resource types have nothing to poll.
func (p *ForgePoller) Poll(ctx context.Context, binding Binding, resourceType record.ResourceType) ([]record.Record, error) {
	options := forge.ListOptions{State: "all", PerPage: 100}

	switch resourceType {
	case record.Issue:
		issues, err := p.Client.ListIssues(binding.Owner, binding.Repo, options).Collect(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]record.Record, len(issues))
		for i := range issues {
			records[i] = issues[i].ToRecord(binding.Container)
		}
		return records, nil

	case record.PullRequest:
		pulls, err := p.Client.ListPulls(binding.Owner, binding.Repo, options).Collect(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]record.Record, len(pulls))
		for i := range pulls {
			records[i] = pulls[i].ToRecord(binding.Container)
		}
		return records, nil
	}

	return nil, nil
}

// Poll fetches the container's listing from the centralized host and
// merges it in one all-or-nothing call. The fetch is bounded by the
// engine's poll timeout; on deadline the store is untouched and the
// returned error wraps ErrPollTimeout so callers know to retry.
func (e *Engine) Poll(ctx context.Context, container ref.Container, resourceType record.ResourceType) error {
	if e.poller == nil {
		return fmt.Errorf("poll of %s: %w", container, ErrNoBinding)
	}
	e.mu.Lock()
	binding, ok := e.bindings[container]
	e.mu.Unlock()
	if !ok || binding.Owner == "" {
		return fmt.Errorf("poll of %s: %w", container, ErrNoBinding)
	}

	pollCtx, cancel := context.WithTimeout(ctx, e.pollTimeout)
	defer cancel()

	records, err := e.poller.Poll(pollCtx, binding, resourceType)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("poll of %s (%s): %w", container, resourceType, ErrPollTimeout)
		}
		return fmt.Errorf("poll of %s (%s): %w", container, resourceType, err)
	}
	if len(records) == 0 {
		return nil
	}

	result, err := e.store.Merge(container, resourceType, records)
	if err != nil {
		return err
	}
	e.logger.Debug("poll merged",
		"container", container,
		"type", resourceType,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"collapsed", result.Collapsed,
	)
	return nil
}

// pollAll polls issues and pull requests for every bound container.
// Errors are logged, not returned: one failing host must not stop the
// cycle.
func (e *Engine) pollAll(ctx context.Context) {
	e.mu.Lock()
	bound := make([]ref.Container, 0, len(e.bindings))
	for container, binding := range e.bindings {
		if binding.Owner != "" {
			bound = append(bound, container)
		}
	}
	e.mu.Unlock()

	for _, container := range bound {
		for _, resourceType := range []record.ResourceType{record.Issue, record.PullRequest} {
			if err := e.Poll(ctx, container, resourceType); err != nil {
				e.logger.Warn("poll failed",
					"container", container,
					"type", resourceType,
					"error", err,
				)
			}
		}
	}
}
