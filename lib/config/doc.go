// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for Gossamer
// clients.
//
// Configuration is loaded from a single file specified by either the
// GOSSAMER_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. This ensures deterministic, auditable
// configuration with no hidden overrides.
//
// The configuration file supports environment-specific sections
// (development, production) that override base values when
// [Config].Environment matches. Production is stricter: plaintext ws
// relay URLs are rejected.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Store, Network, Forge, Poll
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
package config
