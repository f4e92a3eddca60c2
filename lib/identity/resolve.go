// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"fmt"
	"strings"
)

// Resolve canonicalizes an opaque entity reference. The reference may
// be a canonical hex key, a bech32-encoded key, or a legacy truncated
// form. Legacy forms are resolved by unique prefix match against
// known; zero or multiple matches fail with [ErrUnresolved] or
// [ErrAmbiguous] respectively.
//
// The resolver holds no registry of its own — known is whatever set
// of identities the caller has observed (profile cache keys,
// container owners, event authors).
func Resolve(entityRef string, known []Identity) (Identity, error) {
	entityRef = strings.TrimSpace(entityRef)
	if entityRef == "" {
		return Identity{}, fmt.Errorf("identity: empty entity reference: %w", ErrUnresolved)
	}

	switch {
	case len(entityRef) == HexLength:
		return Parse(entityRef)

	case strings.HasPrefix(entityRef, EncodedPrefix+"1"):
		return Decode(entityRef)

	case len(entityRef) == LegacyLength && isHex(entityRef):
		return resolveLegacy(strings.ToLower(entityRef), known)
	}

	return Identity{}, fmt.Errorf("identity: %q has no identity shape: %w", entityRef, ErrUnresolved)
}

// resolveLegacy searches known for a unique identity whose canonical
// hex form starts with prefix.
func resolveLegacy(prefix string, known []Identity) (Identity, error) {
	var match Identity
	found := false
	for _, candidate := range known {
		if !strings.HasPrefix(candidate.String(), prefix) {
			continue
		}
		if found && !candidate.Equal(match) {
			return Identity{}, fmt.Errorf("identity: legacy reference %q matches multiple identities: %w", prefix, ErrAmbiguous)
		}
		match = candidate
		found = true
	}
	if !found {
		return Identity{}, fmt.Errorf("identity: legacy reference %q matches no known identity: %w", prefix, ErrUnresolved)
	}
	return match, nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
