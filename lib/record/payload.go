// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bytes"
	"encoding/json"
)

// PayloadKind tags the shape of a record payload.
type PayloadKind string

const (
	// PayloadLegacy is the pre-structured blob form emitted by old
	// clients: the event content is kept verbatim and rendered
	// opaquely.
	PayloadLegacy PayloadKind = "legacy"

	// PayloadStructured is the current form: a flat map of
	// resource-specific string fields.
	PayloadStructured PayloadKind = "structured"
)

// Payload is the tagged payload variant. The shape is decided once
// by [NormalizePayload] at ingestion; readers switch on Kind and
// never sniff JSON again.
type Payload struct {
	Kind PayloadKind `cbor:"kind,omitempty" json:"kind,omitempty"`

	// Raw holds the verbatim legacy blob. Set only for
	// PayloadLegacy.
	Raw []byte `cbor:"raw,omitempty" json:"raw,omitempty"`

	// Fields holds the structured resource-specific fields. Set
	// only for PayloadStructured.
	Fields map[string]string `cbor:"fields,omitempty" json:"fields,omitempty"`
}

// IsZero reports whether the payload is empty.
func (p Payload) IsZero() bool {
	return p.Kind == "" && p.Raw == nil && p.Fields == nil
}

func (p Payload) clone() Payload {
	clone := Payload{Kind: p.Kind}
	if p.Raw != nil {
		clone.Raw = bytes.Clone(p.Raw)
	}
	if p.Fields != nil {
		clone.Fields = make(map[string]string, len(p.Fields))
		for k, v := range p.Fields {
			clone.Fields[k] = v
		}
	}
	return clone
}

// NormalizePayload resolves raw event content to its payload shape.
// Structured content is a JSON object whose values are all strings;
// everything else — arrays, nested objects, non-string values, plain
// text, invalid JSON — is a legacy blob kept verbatim.
//
// This is the single place the legacy/structured distinction is
// made. Empty content produces the zero payload.
func NormalizePayload(raw []byte) Payload {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Payload{}
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return Payload{Kind: PayloadLegacy, Raw: bytes.Clone(raw)}
	}

	fields := make(map[string]string, len(object))
	for key, value := range object {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			// Non-string value: the whole payload is legacy.
			return Payload{Kind: PayloadLegacy, Raw: bytes.Clone(raw)}
		}
		fields[key] = s
	}
	return Payload{Kind: PayloadStructured, Fields: fields}
}
