// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "errors"

// ErrInvalidContainer means a container reference is structurally
// unusable: reserved domain-shaped owner, dotted hostname owner that
// is not an encoded identity, or a malformed repository name. Writes
// against such containers fail closed.
var ErrInvalidContainer = errors.New("ref: invalid container reference")
