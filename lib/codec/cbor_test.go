// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

func TestMarshalIsDeterministic(t *testing.T) {
	value := map[string]any{
		"zebra":  1,
		"apple":  "x",
		"middle": []string{"a", "b"},
	}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same value produced different bytes")
	}
}

func TestRoundTripStruct(t *testing.T) {
	type entry struct {
		Name   string `cbor:"name"`
		Weight int    `cbor:"weight"`
	}
	in := entry{Name: "alice", Weight: 50}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out entry
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestAnyTargetsDecodeAsStringMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"k": map[string]any{"inner": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out any
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	top, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("decoded as %T, want map[string]any", out)
	}
	if _, ok := top["k"].(map[string]any); !ok {
		t.Errorf("nested value decoded as %T, want map[string]any", top["k"])
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	data, err := Marshal(map[string]any{"name": "alice", "extra": true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out struct {
		Name string `cbor:"name"`
	}
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Name != "alice" {
		t.Errorf("name = %q", out.Name)
	}
}
