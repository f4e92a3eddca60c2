// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"sort"

	"github.com/gossamer-forge/gossamer/lib/record"
)

// NextNumber returns the next display sequence number for a
// collection: one past the highest assigned number, treating absent
// numbers as zero. Numbers are monotonic but not contiguous —
// tombstoned records keep theirs.
func NextNumber(records []record.Record) int {
	highest := 0
	for i := range records {
		if records[i].Number > highest {
			highest = records[i].Number
		}
	}
	return highest + 1
}

// assignNumbers gives every unnumbered record a number, in
// (CreatedAt, ID) order so assignment is deterministic regardless of
// batch arrival order. Already-assigned numbers are never touched.
func assignNumbers(records []record.Record) {
	var unnumbered []int
	for i := range records {
		if records[i].Number == 0 {
			unnumbered = append(unnumbered, i)
		}
	}
	if len(unnumbered) == 0 {
		return
	}
	sort.Slice(unnumbered, func(a, b int) bool {
		ra, rb := &records[unnumbered[a]], &records[unnumbered[b]]
		if ra.CreatedAt != rb.CreatedAt {
			return ra.CreatedAt < rb.CreatedAt
		}
		return ra.ID < rb.ID
	})

	next := NextNumber(records)
	for _, index := range unnumbered {
		records[index].Number = next
		next++
	}
}

// flagNumberCollisions marks every record whose number is claimed by
// more than one record. Collisions happen when an externally
// numbered record merges into a collection that already assigned the
// same number locally; both keep their number — renumbering would
// break outstanding links.
func flagNumberCollisions(records []record.Record) {
	claims := make(map[int]int, len(records))
	for i := range records {
		if records[i].Number != 0 {
			claims[records[i].Number]++
		}
	}
	for i := range records {
		if records[i].Number != 0 && claims[records[i].Number] > 1 {
			records[i].NumberCollision = true
		}
	}
}
