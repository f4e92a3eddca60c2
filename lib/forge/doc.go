// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package forge is a typed REST client for the centralized code host
// that mirrors the containers this client follows. It is the polled
// source of the reconciliation engine: listings are fetched page by
// page, converted to records with [Issue.ToRecord] and
// [PullRequest.ToRecord], and merged at the lowest source precedence.
//
// The client handles token authentication, preemptive rate-limit
// waiting with a single retry on 429/403 backoff responses, ETag
// conditional requests with a per-URL response cache, and structured
// API error parsing. All time operations go through an injected
// clock.Clock so rate-limit behavior is testable without sleeping.
package forge
