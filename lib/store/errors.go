// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package store

import "errors"

// ErrMergeRejected means an incoming batch was refused before any
// state changed: malformed container, wrong resource type, or an
// invalid record in the batch. Partial merges are forbidden, so one
// bad record rejects the whole call.
var ErrMergeRejected = errors.New("store: merge rejected")
