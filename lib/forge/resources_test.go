// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package forge

import (
	"strings"
	"testing"
	"time"

	"github.com/gossamer-forge/gossamer/lib/identity"
	"github.com/gossamer-forge/gossamer/lib/record"
	"github.com/gossamer-forge/gossamer/lib/ref"
)

func testContainer(t *testing.T) ref.Container {
	t.Helper()
	owner, err := identity.Parse("aa" + strings.Repeat("0", identity.HexLength-2))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	container, err := ref.New(owner, "proj")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return container
}

func TestIssueToRecord(t *testing.T) {
	container := testContainer(t)
	issue := Issue{
		ID:        9001,
		Number:    7,
		Title:     "Fix bug",
		Body:      "details",
		State:     "closed",
		Labels:    []Label{{Name: "bug"}},
		User:      User{Login: "alice"},
		CreatedAt: time.Unix(500, 0),
	}

	r := issue.ToRecord(container)
	if r.ID != "ext-9001" || r.ExternalID != 9001 {
		t.Errorf("ID = %q, external = %d", r.ID, r.ExternalID)
	}
	if r.Type != record.Issue || r.Source != record.SourcePolled {
		t.Errorf("type = %q, source = %v", r.Type, r.Source)
	}
	if r.Number != 7 {
		t.Errorf("number = %d, want the host's 7", r.Number)
	}
	if r.Status != record.StatusClosed {
		t.Errorf("status = %q", r.Status)
	}
	if r.CreatedAt != 500 {
		t.Errorf("createdAt = %d", r.CreatedAt)
	}
	if len(r.Labels) != 1 || r.Labels[0] != "bug" {
		t.Errorf("labels = %v", r.Labels)
	}
	if r.Payload.Fields["external_author"] != "alice" {
		t.Errorf("payload = %+v", r.Payload)
	}
	if r.Fingerprint != record.Fingerprint("Fix bug", "details") {
		t.Error("fingerprint mismatch")
	}
	if err := r.Validate(); err != nil {
		t.Errorf("converted record invalid: %v", err)
	}
}

func TestPullToRecordStatus(t *testing.T) {
	container := testContainer(t)
	tests := []struct {
		name   string
		state  string
		merged bool
		want   record.Status
	}{
		{"open", "open", false, record.StatusOpen},
		{"closed unmerged", "closed", false, record.StatusClosed},
		{"merged", "closed", true, record.StatusMerged},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pull := PullRequest{ID: 1, Number: 1, Title: "t", State: test.state, Merged: test.merged}
			r := pull.ToRecord(container)
			if r.Status != test.want {
				t.Errorf("status = %q, want %q", r.Status, test.want)
			}
			if r.Type != record.PullRequest {
				t.Errorf("type = %q", r.Type)
			}
		})
	}
}
