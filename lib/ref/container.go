// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"

	"github.com/gossamer-forge/gossamer/lib/identity"
)

// MaxNameLength bounds repository names. Matches the limit the
// centralized hosts we import from enforce, so imported references
// always fit.
const MaxNameLength = 100

// reservedOwners are domain-shaped values that corrupt references
// imported from centralized hosts carry in their owner position.
// They are never valid owners, even if some identity happened to
// display as one of them.
var reservedOwners = map[string]struct{}{
	"github.com":    {},
	"gitlab.com":    {},
	"codeberg.org":  {},
	"bitbucket.org": {},
	"sr.ht":         {},
}

// Container identifies a repository: an owner identity plus a
// repository name. Immutable value type; the zero value is not valid,
// use [Container.IsZero] to check. Any non-zero Container has passed
// validation, so downstream code never re-checks shapes.
type Container struct {
	owner identity.Identity
	name  string
}

// New constructs a validated container from an already-resolved owner
// identity and a repository name.
func New(owner identity.Identity, name string) (Container, error) {
	if owner.IsZero() {
		return Container{}, fmt.Errorf("ref: owner is unresolved: %w", ErrInvalidContainer)
	}
	if err := validateName(name); err != nil {
		return Container{}, fmt.Errorf("ref: %w: %w", err, ErrInvalidContainer)
	}
	return Container{owner: owner, name: name}, nil
}

// ParseContainer parses "owner/name" where owner may be a canonical
// hex key, an encoded key, or a legacy truncated form resolved
// against known. Reserved domain-shaped owners and dotted
// hostname-shaped owners that do not decode as an encoded identity
// are rejected with [ErrInvalidContainer]; an owner that cannot be
// resolved at all makes the container unresolved and all writes
// against it fail closed.
func ParseContainer(raw string, known []identity.Identity) (Container, error) {
	ownerRef, name, found := strings.Cut(raw, "/")
	if !found || ownerRef == "" || name == "" {
		return Container{}, fmt.Errorf("ref: %q is not owner/name: %w", raw, ErrInvalidContainer)
	}

	if _, reserved := reservedOwners[strings.ToLower(ownerRef)]; reserved {
		return Container{}, fmt.Errorf("ref: owner %q is a reserved host name: %w", ownerRef, ErrInvalidContainer)
	}

	owner, err := identity.Resolve(ownerRef, known)
	if err != nil {
		if strings.Contains(ownerRef, ".") {
			// Dotted owner that is not a decodable identity:
			// hostname-shaped corruption, not merely unresolved.
			return Container{}, fmt.Errorf("ref: dotted owner %q is not an encoded identity: %w", ownerRef, ErrInvalidContainer)
		}
		return Container{}, fmt.Errorf("ref: owner %q: %w", ownerRef, err)
	}

	return New(owner, name)
}

// validateName enforces the repository-name charset: letters, digits,
// '.', '-', '_', no leading dot, bounded length.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("repository name is empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("repository name is %d characters, maximum is %d", len(name), MaxNameLength)
	}
	if name[0] == '.' {
		return fmt.Errorf("repository name %q starts with '.'", name)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '-' || c == '_':
		default:
			return fmt.Errorf("invalid character %q at position %d in repository name", c, i)
		}
	}
	return nil
}

// Owner returns the container's owner identity.
func (c Container) Owner() identity.Identity { return c.owner }

// Name returns the repository name.
func (c Container) Name() string { return c.name }

// IsZero reports whether the container is the zero value.
func (c Container) IsZero() bool { return c.owner.IsZero() && c.name == "" }

// String returns "<hex-owner>/<name>", the canonical storage-key
// form. Display code should use the encoded owner form instead.
func (c Container) String() string {
	return c.owner.String() + "/" + c.name
}

// MarshalText implements encoding.TextMarshaler using the canonical
// form. The zero value marshals to an empty string.
func (c Container) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return []byte{}, nil
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the
// canonical hex form is accepted here — persisted references never
// use legacy or encoded owner forms.
func (c *Container) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*c = Container{}
		return nil
	}
	parsed, err := ParseContainer(string(data), nil)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
