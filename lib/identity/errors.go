// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import "errors"

// ErrUnresolved means an entity reference could not be mapped to any
// canonical identity: malformed hex, undecodable bech32, or a legacy
// prefix with no match among the known identities.
var ErrUnresolved = errors.New("identity: unresolved entity reference")

// ErrAmbiguous means a legacy truncated reference matched more than
// one known identity. Ambiguity is a failure, not a best guess — the
// caller must not pick either candidate.
var ErrAmbiguous = errors.New("identity: ambiguous legacy reference")
