// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import "strings"

// Profile is the display metadata a participant has published for
// themselves. All fields are optional.
type Profile struct {
	// Name is the free-form display name.
	Name string `json:"name,omitempty"`

	// Handle is the short handle (e.g. "alice"). Used when no
	// display name is set.
	Handle string `json:"handle,omitempty"`

	// About is the free-form bio. Not used for display labels.
	About string `json:"about,omitempty"`
}

// truncatedEncodedLength is how much of the bech32 form a display
// label shows when no profile metadata is available: the prefix, the
// separator, and a recognizable chunk of the payload.
const truncatedEncodedLength = 13

// Display projects an identity and optional profile metadata to a
// human-readable label. Priority: profile name, profile handle,
// truncated encoded form, fallback. A nil profile skips straight to
// the encoded truncation; a zero identity skips to the fallback.
//
// Display is a pure function of its inputs.
func Display(id Identity, profile *Profile, fallback string) string {
	if profile != nil {
		if name := strings.TrimSpace(profile.Name); name != "" {
			return name
		}
		if handle := strings.TrimSpace(profile.Handle); handle != "" {
			return handle
		}
	}
	if !id.IsZero() {
		encoded := id.Encoded()
		if len(encoded) > truncatedEncodedLength {
			return encoded[:truncatedEncodedLength] + "…"
		}
		return encoded
	}
	return fallback
}

// ProfileCache maps identities to their published profiles. It is a
// plain map wrapper with no I/O; the engine populates it from profile
// events. Not safe for concurrent use — the engine serializes access
// through its event loop.
type ProfileCache struct {
	profiles map[Identity]Profile
}

// NewProfileCache returns an empty cache.
func NewProfileCache() *ProfileCache {
	return &ProfileCache{profiles: make(map[Identity]Profile)}
}

// Put stores or replaces the profile for id.
func (c *ProfileCache) Put(id Identity, profile Profile) {
	c.profiles[id] = profile
}

// Get returns the profile for id, or nil if none is cached.
func (c *ProfileCache) Get(id Identity) *Profile {
	profile, ok := c.profiles[id]
	if !ok {
		return nil
	}
	return &profile
}

// Known returns the set of identities with cached profiles. This is
// the resolver's primary source of known identities for legacy
// prefix matching.
func (c *ProfileCache) Known() []Identity {
	known := make([]Identity, 0, len(c.profiles))
	for id := range c.profiles {
		known = append(known, id)
	}
	return known
}
