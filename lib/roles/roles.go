// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package roles

import (
	"errors"
	"fmt"

	"github.com/gossamer-forge/gossamer/lib/identity"
)

// ErrLastOwner means an operation would leave a contributor list
// with zero owners. The list is left unchanged.
var ErrLastOwner = errors.New("roles: cannot remove or demote the last owner")

// ErrNotFound means the identity is not on the contributor list.
var ErrNotFound = errors.New("roles: contributor not found")

// Role is the effective role of an identity against a repository.
// Ordered: a higher role includes the permissions of the lower ones.
type Role int

const (
	RoleNone Role = iota
	RoleContributor
	RoleMaintainer
	RoleOwner
)

// String returns "none", "contributor", "maintainer", or "owner".
func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleMaintainer:
		return "maintainer"
	case RoleContributor:
		return "contributor"
	default:
		return "none"
	}
}

// AtLeast reports whether r grants everything other does.
func (r Role) AtLeast(other Role) bool { return r >= other }

// MaintainerTag is the explicit role tag that makes a contributor a
// maintainer regardless of weight.
const MaintainerTag = "maintainer"

// Policy holds the weight tier boundaries. The zero value is not
// usable; use [DefaultPolicy] or fill both fields.
type Policy struct {
	// OwnerWeight is the weight that makes a contributor an owner.
	OwnerWeight int

	// MaintainerMin is the lowest weight of the maintainer tier.
	// The tier runs from MaintainerMin to OwnerWeight-1.
	MaintainerMin int
}

// DefaultPolicy is the standard tier layout: owners at 100,
// maintainers at 50–99, contributors at any other non-zero weight.
func DefaultPolicy() Policy {
	return Policy{OwnerWeight: 100, MaintainerMin: 50}
}

// Validate checks that the tier boundaries are coherent.
func (p Policy) Validate() error {
	if p.OwnerWeight <= 0 {
		return fmt.Errorf("roles: owner weight %d must be positive", p.OwnerWeight)
	}
	if p.MaintainerMin <= 0 || p.MaintainerMin >= p.OwnerWeight {
		return fmt.Errorf("roles: maintainer tier start %d must be between 1 and %d", p.MaintainerMin, p.OwnerWeight-1)
	}
	return nil
}

// Contributor is one entry of a repository's contributor list.
type Contributor struct {
	ID identity.Identity `cbor:"id" json:"id"`

	// Weight is the trust weight. Zero-weight entries grant no
	// role (they exist as historical records).
	Weight int `cbor:"weight" json:"weight"`

	// RoleTag is an optional explicit role ("maintainer").
	RoleTag string `cbor:"role,omitempty" json:"role,omitempty"`
}

// roleOfEntry maps one entry's weight and tag to a role under p.
func (p Policy) roleOfEntry(entry Contributor) Role {
	switch {
	case entry.Weight >= p.OwnerWeight:
		return RoleOwner
	case entry.RoleTag == MaintainerTag:
		return RoleMaintainer
	case entry.Weight >= p.MaintainerMin:
		return RoleMaintainer
	case entry.Weight > 0:
		return RoleContributor
	default:
		return RoleNone
	}
}

// RoleOf returns the effective role of id: owner when id is the
// designated owner or holds the owner weight tier, otherwise the
// role its list entry maps to, otherwise none.
func (p Policy) RoleOf(id identity.Identity, designatedOwner identity.Identity, contributors []Contributor) Role {
	if !id.IsZero() && id.Equal(designatedOwner) {
		return RoleOwner
	}
	for _, entry := range contributors {
		if entry.ID.Equal(id) {
			return p.roleOfEntry(entry)
		}
	}
	return RoleNone
}

// List is a mutable contributor list with the last-owner guard on
// every mutation. Not safe for concurrent use; the engine serializes
// contributor edits per container.
type List struct {
	policy  Policy
	entries []Contributor
}

// NewList wraps the given entries under the given policy.
func NewList(policy Policy, entries []Contributor) *List {
	return &List{policy: policy, entries: append([]Contributor(nil), entries...)}
}

// Entries returns a copy of the current list.
func (l *List) Entries() []Contributor {
	return append([]Contributor(nil), l.entries...)
}

// owners counts entries in the owner tier.
func (l *List) owners() int {
	count := 0
	for _, entry := range l.entries {
		if l.policy.roleOfEntry(entry) == RoleOwner {
			count++
		}
	}
	return count
}

// Put adds or replaces the entry for entry.ID. Demoting an existing
// owner entry is refused with [ErrLastOwner] when it is the last
// one.
func (l *List) Put(entry Contributor) error {
	for i, existing := range l.entries {
		if !existing.ID.Equal(entry.ID) {
			continue
		}
		wasOwner := l.policy.roleOfEntry(existing) == RoleOwner
		isOwner := l.policy.roleOfEntry(entry) == RoleOwner
		if wasOwner && !isOwner && l.owners() == 1 {
			return fmt.Errorf("roles: demoting %s: %w", entry.ID, ErrLastOwner)
		}
		l.entries[i] = entry
		return nil
	}
	l.entries = append(l.entries, entry)
	return nil
}

// SetWeight changes the weight of an existing entry, holding the
// last-owner guard.
func (l *List) SetWeight(id identity.Identity, weight int) error {
	for _, existing := range l.entries {
		if existing.ID.Equal(id) {
			updated := existing
			updated.Weight = weight
			return l.Put(updated)
		}
	}
	return fmt.Errorf("roles: %s: %w", id, ErrNotFound)
}

// Remove deletes the entry for id. Removing the last owner is
// refused with [ErrLastOwner]; the list is unchanged on any error.
func (l *List) Remove(id identity.Identity) error {
	for i, existing := range l.entries {
		if !existing.ID.Equal(id) {
			continue
		}
		if l.policy.roleOfEntry(existing) == RoleOwner && l.owners() == 1 {
			return fmt.Errorf("roles: removing %s: %w", id, ErrLastOwner)
		}
		l.entries = append(l.entries[:i], l.entries[i+1:]...)
		return nil
	}
	return fmt.Errorf("roles: %s: %w", id, ErrNotFound)
}
