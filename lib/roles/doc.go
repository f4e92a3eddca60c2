// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package roles derives effective roles from a repository's
// contributor list and guards the mutations that edit it.
//
// A contributor carries a numeric weight; the weight tiers map to
// roles (owner at the maximum tier, maintainer in the configured
// middle band or via an explicit role tag, contributor for any other
// non-zero weight). The container's designated owner identity is an
// owner regardless of the list.
//
// The one hard invariant lives here: the last remaining owner of a
// contributor list can never be demoted or removed. [List.Remove]
// and [List.SetWeight] fail with [ErrLastOwner] and leave the list
// untouched rather than partially applying — a caller can never
// remove themselves if doing so would leave zero owners.
package roles
