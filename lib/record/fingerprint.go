// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/gossamer-forge/gossamer/lib/ref"
)

// localIDPrefix marks identifiers generated for records not yet on
// the network. When the corresponding network event is observed, the
// fingerprint collapse in the store replaces the local ID with the
// event ID.
const localIDPrefix = "local-"

// Fingerprint computes the content fingerprint over the normalized
// title and body. The same logical entity authored locally and later
// observed on the network (possibly with its title lightly edited by
// relays that strip trailing whitespace) hashes to the same value.
func Fingerprint(title, body string) string {
	hasher := blake3.New()
	hasher.WriteString(normalize(title))
	hasher.WriteString("\x00")
	hasher.WriteString(normalize(body))
	return hex.EncodeToString(hasher.Sum(nil))
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NewLocalID derives the identifier for a locally authored,
// not-yet-published record. Deterministic over its inputs so that
// re-submitting the same draft does not mint a second record.
func NewLocalID(container ref.Container, resourceType ResourceType, fingerprint string, createdAt int64) string {
	hasher := blake3.New()
	hasher.WriteString(container.String())
	hasher.WriteString("\x00")
	hasher.WriteString(string(resourceType))
	hasher.WriteString("\x00")
	hasher.WriteString(fingerprint)
	hasher.WriteString("\x00")
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(createdAt >> (8 * i))
	}
	hasher.Write(buf[:])
	return localIDPrefix + hex.EncodeToString(hasher.Sum(nil)[:12])
}

// IsLocalID reports whether id was generated by [NewLocalID].
func IsLocalID(id string) bool { return strings.HasPrefix(id, localIDPrefix) }

// externalIDPrefix marks identifiers derived from the numeric ID a
// record carries on the centralized REST host.
const externalIDPrefix = "ext-"

// ExternalRecordID derives the record identifier for an externally
// sourced record that has no network event yet. Deterministic, so
// repeated polls of the same entity map to the same record.
func ExternalRecordID(externalID int64) string {
	return externalIDPrefix + strconv.FormatInt(externalID, 10)
}

// IsExternalID reports whether id was generated by [ExternalRecordID].
func IsExternalID(id string) bool { return strings.HasPrefix(id, externalIDPrefix) }
