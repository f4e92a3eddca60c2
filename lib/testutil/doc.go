// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Gossamer
// packages.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls. These are the only
// places where tests touch the real wall clock; all engine-level time
// behavior goes through clock.Fake.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Gossamer-internal dependencies.
package testutil
