// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import "errors"

// ErrPermissionDenied means the actor's role in the container does
// not meet the operation's requirement.
var ErrPermissionDenied = errors.New("engine: permission denied")

// ErrPollTimeout means a bounded poll of the centralized host
// exceeded its deadline. Retryable; the store was not touched.
var ErrPollTimeout = errors.New("engine: poll timed out")

// ErrNoBinding means the container has no configured repository on
// the centralized host, so there is nothing to poll.
var ErrNoBinding = errors.New("engine: container has no forge binding")
