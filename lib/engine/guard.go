// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"

	"github.com/gossamer-forge/gossamer/lib/identity"
	"github.com/gossamer-forge/gossamer/lib/ref"
	"github.com/gossamer-forge/gossamer/lib/roles"
)

// checkWrite is the single choke point every mutating path passes
// through. Order matters: a malformed container is rejected before
// the actor is even looked at, and an unresolved actor before any
// role comparison, so callers get the most specific error first.
func (e *Engine) checkWrite(container ref.Container, actor identity.Identity, needed roles.Role) error {
	if container.IsZero() {
		return fmt.Errorf("engine: write to zero container: %w", ref.ErrInvalidContainer)
	}
	if actor.IsZero() {
		return fmt.Errorf("engine: write by unresolved actor: %w", identity.ErrUnresolved)
	}

	role := e.RoleOf(container, actor)
	if !role.AtLeast(needed) {
		return fmt.Errorf("engine: %s is %s in %s, %s required: %w",
			actor, role, container, needed, ErrPermissionDenied)
	}
	return nil
}

// RoleOf evaluates the actor's effective role in a container: the
// container owner is always an owner; everyone else maps through the
// contributor list under the engine's policy.
func (e *Engine) RoleOf(container ref.Container, id identity.Identity) roles.Role {
	e.mu.Lock()
	defer e.mu.Unlock()

	var entries []roles.Contributor
	if list := e.contributors[container]; list != nil {
		entries = list.Entries()
	}
	return e.policy.RoleOf(id, container.Owner(), entries)
}

// Contributors returns a copy of the container's contributor list.
func (e *Engine) Contributors(container ref.Container) []roles.Contributor {
	e.mu.Lock()
	defer e.mu.Unlock()
	if list := e.contributors[container]; list != nil {
		return list.Entries()
	}
	return nil
}

// PutContributor adds or updates a contributor entry. Owner role
// required; the last-owner guard applies.
func (e *Engine) PutContributor(container ref.Container, actor identity.Identity, entry roles.Contributor) error {
	if err := e.checkWrite(container, actor, roles.RoleOwner); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listFor(container).Put(entry)
}

// SetContributorWeight changes an existing entry's weight. Owner role
// required; the last-owner guard applies, including to self-demotion.
func (e *Engine) SetContributorWeight(container ref.Container, actor identity.Identity, id identity.Identity, weight int) error {
	if err := e.checkWrite(container, actor, roles.RoleOwner); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listFor(container).SetWeight(id, weight)
}

// RemoveContributor removes an entry. Owner role required; removing
// the last owner fails and leaves the list unchanged, even when the
// actor removes themselves.
func (e *Engine) RemoveContributor(container ref.Container, actor identity.Identity, id identity.Identity) error {
	if err := e.checkWrite(container, actor, roles.RoleOwner); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listFor(container).Remove(id)
}

// listFor returns the container's contributor list, creating an empty
// one on first touch. Caller holds e.mu.
func (e *Engine) listFor(container ref.Container) *roles.List {
	list := e.contributors[container]
	if list == nil {
		list = roles.NewList(e.policy, nil)
		e.contributors[container] = list
	}
	return list
}
