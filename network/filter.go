// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"slices"

	"github.com/gossamer-forge/gossamer/lib/identity"
	"github.com/gossamer-forge/gossamer/lib/ref"
)

// Filter selects a subset of the event stream. Every populated field
// must match (conjunctive); an empty field matches everything. A
// subscription carries one or more filters and receives events that
// match any of them.
type Filter struct {
	// Kinds restricts to the listed event kinds.
	Kinds []Kind `json:"kinds,omitempty"`

	// Authors restricts to events signed by the listed identities.
	Authors []identity.Identity `json:"authors,omitempty"`

	// Containers restricts to events whose container tag resolves
	// to one of the listed containers. Events without a container
	// tag do not match a container-filtered subscription.
	Containers []ref.Container `json:"containers,omitempty"`

	// Since restricts to events created at or after the given unix
	// timestamp. Zero means no lower bound.
	Since int64 `json:"since,omitempty"`
}

// Matches reports whether the event passes this filter.
func (f *Filter) Matches(event *Event) bool {
	if len(f.Kinds) > 0 && !slices.Contains(f.Kinds, event.Kind) {
		return false
	}
	if len(f.Authors) > 0 && !slices.Contains(f.Authors, event.Author) {
		return false
	}
	if f.Since > 0 && event.CreatedAt < f.Since {
		return false
	}
	if len(f.Containers) > 0 {
		container, err := ContainerOf(event)
		if err != nil {
			return false
		}
		if !slices.Contains(f.Containers, container) {
			return false
		}
	}
	return true
}

// MatchesAny reports whether the event passes at least one of the
// filters. An empty filter list matches nothing: a subscription must
// say what it wants.
func MatchesAny(filters []Filter, event *Event) bool {
	for i := range filters {
		if filters[i].Matches(event) {
			return true
		}
	}
	return false
}
