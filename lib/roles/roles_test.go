// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package roles

import (
	"errors"
	"strings"
	"testing"

	"github.com/gossamer-forge/gossamer/lib/identity"
)

func id(t *testing.T, leading string) identity.Identity {
	t.Helper()
	parsed, err := identity.Parse(leading + strings.Repeat("0", identity.HexLength-len(leading)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return parsed
}

func TestRoleOfTiers(t *testing.T) {
	policy := DefaultPolicy()
	owner := id(t, "aa")
	designated := id(t, "dd")

	contributors := []Contributor{
		{ID: owner, Weight: 100},
		{ID: id(t, "bb"), Weight: 50},
		{ID: id(t, "cc"), Weight: 99},
		{ID: id(t, "ee"), Weight: 10},
		{ID: id(t, "ff"), Weight: 5, RoleTag: MaintainerTag},
		{ID: id(t, "99"), Weight: 0},
	}

	tests := []struct {
		name string
		who  identity.Identity
		want Role
	}{
		{"designated owner outside list", designated, RoleOwner},
		{"weight 100", owner, RoleOwner},
		{"weight 50 lower maintainer bound", id(t, "bb"), RoleMaintainer},
		{"weight 99 upper maintainer bound", id(t, "cc"), RoleMaintainer},
		{"explicit maintainer tag overrides weight", id(t, "ff"), RoleMaintainer},
		{"non-zero weight", id(t, "ee"), RoleContributor},
		{"zero weight", id(t, "99"), RoleNone},
		{"not listed", id(t, "11"), RoleNone},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := policy.RoleOf(test.who, designated, contributors)
			if got != test.want {
				t.Errorf("RoleOf = %v, want %v", got, test.want)
			}
		})
	}
}

func TestRoleOrdering(t *testing.T) {
	if !RoleOwner.AtLeast(RoleMaintainer) || !RoleMaintainer.AtLeast(RoleContributor) {
		t.Error("role ordering broken")
	}
	if RoleContributor.AtLeast(RoleMaintainer) {
		t.Error("contributor should not reach maintainer")
	}
}

func TestRemoveLastOwnerFails(t *testing.T) {
	owner := id(t, "aa")
	list := NewList(DefaultPolicy(), []Contributor{
		{ID: owner, Weight: 100},
		{ID: id(t, "bb"), Weight: 50},
	})

	err := list.Remove(owner)
	if !errors.Is(err, ErrLastOwner) {
		t.Fatalf("Remove last owner: err = %v, want ErrLastOwner", err)
	}
	// The list must be untouched.
	entries := list.Entries()
	if len(entries) != 2 || !entries[0].ID.Equal(owner) || entries[0].Weight != 100 {
		t.Errorf("list changed after refused removal: %+v", entries)
	}
}

func TestRemoveOwnerWithAnotherOwnerSucceeds(t *testing.T) {
	first := id(t, "aa")
	second := id(t, "bb")
	list := NewList(DefaultPolicy(), []Contributor{
		{ID: first, Weight: 100},
		{ID: second, Weight: 100},
	})
	if err := list.Remove(first); err != nil {
		t.Fatalf("Remove with co-owner: %v", err)
	}
	if len(list.Entries()) != 1 {
		t.Errorf("entries = %+v", list.Entries())
	}
}

func TestDemoteLastOwnerFails(t *testing.T) {
	owner := id(t, "aa")
	list := NewList(DefaultPolicy(), []Contributor{{ID: owner, Weight: 100}})

	if err := list.SetWeight(owner, 50); !errors.Is(err, ErrLastOwner) {
		t.Fatalf("SetWeight demote: err = %v, want ErrLastOwner", err)
	}
	if list.Entries()[0].Weight != 100 {
		t.Error("weight changed after refused demotion")
	}

	// Re-asserting the owner weight is fine.
	if err := list.SetWeight(owner, 100); err != nil {
		t.Errorf("SetWeight same tier: %v", err)
	}
}

func TestRemoveUnknownContributor(t *testing.T) {
	list := NewList(DefaultPolicy(), []Contributor{{ID: id(t, "aa"), Weight: 100}})
	if err := list.Remove(id(t, "bb")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove unknown: err = %v, want ErrNotFound", err)
	}
}

func TestPutNewAndReplace(t *testing.T) {
	owner := id(t, "aa")
	list := NewList(DefaultPolicy(), []Contributor{{ID: owner, Weight: 100}})

	if err := list.Put(Contributor{ID: id(t, "bb"), Weight: 10}); err != nil {
		t.Fatalf("Put new: %v", err)
	}
	if err := list.Put(Contributor{ID: id(t, "bb"), Weight: 60}); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	if got := DefaultPolicy().RoleOf(id(t, "bb"), identity.Identity{}, list.Entries()); got != RoleMaintainer {
		t.Errorf("after promote: %v, want maintainer", got)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Errorf("default policy invalid: %v", err)
	}
	bad := []Policy{
		{OwnerWeight: 0, MaintainerMin: 50},
		{OwnerWeight: 100, MaintainerMin: 0},
		{OwnerWeight: 100, MaintainerMin: 100},
	}
	for _, policy := range bad {
		if err := policy.Validate(); err == nil {
			t.Errorf("policy %+v accepted", policy)
		}
	}
}
