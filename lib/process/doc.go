// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for Gossamer
// binaries. [Fatal] centralizes the one legitimate raw-stderr pattern:
// reporting an unrecoverable error from main() before the structured
// logger exists.
package process
