// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides the validated container reference type: the
// (owner identity, repository name) pair that scopes every record in
// the engine.
//
// Containers are value types constructed through [New] or
// [ParseContainer]; direct construction is impossible, so any
// non-zero Container in the program has passed validation. This is
// the single definition of "well-formed container" — the write guard
// in lib/engine builds on the predicates here instead of re-checking
// shapes at each call site.
//
// # Validation rules
//
// An owner segment must resolve to a canonical identity. Two shapes
// are rejected outright:
//
//   - reserved domain-shaped values ("github.com", "gitlab.com", ...),
//     which appear in corrupt references imported from centralized
//     hosts and must never become containers;
//   - dotted hostname-shaped values that do not decode as an encoded
//     identity. A dot is legal in the owner segment only when the
//     whole segment is a decodable encoded identity carried over
//     from a legacy link.
//
// Repository names are limited to a conservative charset and must
// not start with a dot.
package ref
