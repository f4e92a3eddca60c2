// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package identity provides the canonical identity type for gossamer
// participants and the resolution logic that maps opaque entity
// references (raw hex keys, bech32-encoded keys, legacy truncated
// forms) onto it.
//
// Within the engine, identities are always compared and stored in
// their raw 32-byte form; the canonical string form is 64 characters
// of lowercase hex. The bech32 form ("fpub1...") is display-only and
// must round-trip to the same bytes. Legacy 8-character truncated
// identities survive in old links and stored references; they are
// never treated as identities of their own — [Resolve] disambiguates
// them by unique prefix match against the caller's set of known
// identities and fails on ambiguity.
//
// # Display names
//
// [Display] projects an identity plus optional profile metadata to a
// human-readable label. It is a pure function of its inputs so that
// every fallback branch is trivially testable: profile name, then
// profile handle, then a truncation of the encoded form, then the
// caller's fallback string.
//
// This package has no I/O and no gossamer-internal dependencies.
package identity
