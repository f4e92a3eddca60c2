// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package network

import "errors"

// ErrUnknownContainer is returned when an event's container tag is
// missing or cannot be attributed to a valid container. Such events
// cannot be merged anywhere and are dropped by the engine.
var ErrUnknownContainer = errors.New("network: unknown container")

// ErrAnomalousEvent is returned when an event is structurally unfit
// for ingestion: a kind this client does not map to records, or a
// status or deletion event missing its target reference. Anomalous
// events are logged and skipped, never fatal.
var ErrAnomalousEvent = errors.New("network: anomalous event")
