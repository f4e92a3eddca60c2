// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"strings"
	"testing"

	"github.com/gossamer-forge/gossamer/lib/identity"
	"github.com/gossamer-forge/gossamer/lib/ref"
)

func testContainer(t *testing.T) ref.Container {
	t.Helper()
	owner, err := identity.Parse("ab" + strings.Repeat("0", identity.HexLength-2))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	container, err := ref.New(owner, "proj")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return container
}

func TestValidate(t *testing.T) {
	container := testContainer(t)
	valid := Record{ID: "ev-1", Container: container, Type: Issue, Status: StatusOpen}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"empty id", func(r *Record) { r.ID = "" }},
		{"zero container", func(r *Record) { r.Container = ref.Container{} }},
		{"unknown type", func(r *Record) { r.Type = "widget" }},
		{"unknown status", func(r *Record) { r.Status = "pending" }},
		{"merged issue", func(r *Record) { r.Status = StatusMerged }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := valid
			test.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Error("invalid record accepted")
			}
		})
	}
}

func TestMergeFieldsNetworkWins(t *testing.T) {
	target := Record{ID: "x", Title: "Fix bug", Body: "local body", Source: SourceLocal}
	incoming := Record{ID: "x", Title: "Fix bug (v2)", Source: SourceNetwork}
	MergeFields(&target, &incoming)
	if target.Title != "Fix bug (v2)" {
		t.Errorf("title = %q, want network value", target.Title)
	}
	if target.Source != SourceNetwork {
		t.Errorf("source = %v, want network", target.Source)
	}
}

func TestMergeFieldsPolledDoesNotOverwrite(t *testing.T) {
	target := Record{ID: "x", Title: "Network title", Source: SourceNetwork}
	incoming := Record{ID: "x", Title: "Polled title", Source: SourcePolled, ExternalID: 7}
	MergeFields(&target, &incoming)
	if target.Title != "Network title" {
		t.Errorf("title = %q, polled content overwrote network content", target.Title)
	}
	// Identifying metadata still fills gaps.
	if target.ExternalID != 7 {
		t.Errorf("external ID = %d, want 7", target.ExternalID)
	}
}

func TestMergeFieldsStatusOnlyLeavesContent(t *testing.T) {
	target := Record{ID: "x", Title: "Fix bug", Body: "body", Source: SourceLocal}
	statusOnly := Record{ID: "x", Source: SourceNetwork, ExternalID: 7}
	MergeFields(&target, &statusOnly)
	if target.Title != "Fix bug" || target.Body != "body" {
		t.Errorf("title = %q, body = %q: a title-less observation clobbered content",
			target.Title, target.Body)
	}
	if target.ExternalID != 7 {
		t.Errorf("external ID = %d, want the gap filled", target.ExternalID)
	}
}

func TestMergeFieldsStatusOnlyKeepsCreator(t *testing.T) {
	creator, err := identity.Parse("aa" + strings.Repeat("0", identity.HexLength-2))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	closer, err := identity.Parse("bb" + strings.Repeat("0", identity.HexLength-2))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	target := Record{
		ID:     "ev-1",
		Title:  "Fix bug",
		Author: creator,
		Source: SourceNetwork,
	}
	// A status observation carries its publisher as Author: the
	// identity that closed the record, not the one that created it.
	statusOnly := Record{
		ID:              "ev-1",
		Author:          closer,
		Source:          SourceNetwork,
		Status:          StatusClosed,
		StatusChangedAt: 500,
	}
	MergeFields(&target, &statusOnly)
	if target.Author != creator {
		t.Errorf("author = %s, want the creator %s", target.Author, creator)
	}

	// The same observation against a record with no author yet
	// fills the gap.
	gapped := Record{ID: "ev-2", Title: "Fix bug", Source: SourcePolled}
	MergeFields(&gapped, &statusOnly)
	if gapped.Author != closer {
		t.Errorf("author = %s, want the gap filled", gapped.Author)
	}
}

func TestMergeFieldsSameSourceLaterWins(t *testing.T) {
	target := Record{ID: "x", Title: "first", Source: SourceNetwork}
	incoming := Record{ID: "x", Title: "second", Source: SourceNetwork}
	MergeFields(&target, &incoming)
	if target.Title != "second" {
		t.Errorf("title = %q, want later arrival to win within one source", target.Title)
	}
}

func TestFingerprintNormalization(t *testing.T) {
	base := Fingerprint("Fix bug", "body text")
	if Fingerprint("  Fix   bug ", "body\ntext") != base {
		t.Error("whitespace variations should not change the fingerprint")
	}
	if Fingerprint("Fix bug (v2)", "body text") == base {
		t.Error("different titles should change the fingerprint")
	}
	// Field separation: title/body boundary must matter.
	if Fingerprint("Fix", "bug body text") == base {
		t.Error("shifting content across the title/body boundary should change the fingerprint")
	}
}

func TestNewLocalIDDeterministic(t *testing.T) {
	container := testContainer(t)
	fp := Fingerprint("t", "b")
	first := NewLocalID(container, Issue, fp, 42)
	second := NewLocalID(container, Issue, fp, 42)
	if first != second {
		t.Error("same draft should produce the same local ID")
	}
	if !IsLocalID(first) {
		t.Errorf("IsLocalID(%q) = false", first)
	}
	if NewLocalID(container, PullRequest, fp, 42) == first {
		t.Error("resource type should be part of the local ID derivation")
	}
}

func TestCloneIsDeep(t *testing.T) {
	r := Record{
		ID:      "x",
		Labels:  []string{"bug"},
		Payload: Payload{Kind: PayloadStructured, Fields: map[string]string{"a": "1"}},
	}
	clone := r.Clone()
	clone.Labels[0] = "feature"
	clone.Payload.Fields["a"] = "2"
	if r.Labels[0] != "bug" || r.Payload.Fields["a"] != "1" {
		t.Error("Clone aliases the original record")
	}
}
