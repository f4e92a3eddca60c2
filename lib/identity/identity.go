// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	// KeySize is the size of a raw public key in bytes.
	KeySize = 32

	// HexLength is the length of the canonical lowercase-hex form.
	HexLength = KeySize * 2

	// EncodedPrefix is the bech32 human-readable prefix of the
	// display form. An encoded identity looks like
	// "fpub1qqqs...". The prefix is fixed for the whole network;
	// a different prefix means the string is not an identity.
	EncodedPrefix = "fpub"

	// LegacyLength is the length of the legacy truncated form:
	// the first 8 hex characters of the canonical form. Legacy
	// references are ambiguous by construction and must be
	// resolved against a set of known identities.
	LegacyLength = 8
)

// Identity is a participant's canonical public key. It is an
// immutable value type; the zero value is not a valid identity, use
// [Identity.IsZero] to check.
type Identity struct {
	key [KeySize]byte
}

// Parse interprets raw as a canonical hex identity. Uppercase hex is
// accepted and normalized; anything that is not exactly 64 hex
// characters is rejected.
func Parse(raw string) (Identity, error) {
	if len(raw) != HexLength {
		return Identity{}, fmt.Errorf("identity: key is %d characters, want %d: %w", len(raw), HexLength, ErrUnresolved)
	}
	decoded, err := hex.DecodeString(strings.ToLower(raw))
	if err != nil {
		return Identity{}, fmt.Errorf("identity: invalid hex key: %w", ErrUnresolved)
	}
	var id Identity
	copy(id.key[:], decoded)
	return id, nil
}

// Decode interprets encoded as the bech32 display form and returns
// the identity it carries. The human-readable prefix must be
// [EncodedPrefix] and the payload must be exactly [KeySize] bytes.
// Decode failure is a resolution failure — callers must never fall
// back to treating the encoded string itself as an identity.
func Decode(encoded string) (Identity, error) {
	prefix, data, err := bech32.Decode(encoded)
	if err != nil {
		return Identity{}, fmt.Errorf("identity: bech32 decode of %q failed: %w", encoded, ErrUnresolved)
	}
	if prefix != EncodedPrefix {
		return Identity{}, fmt.Errorf("identity: prefix %q, want %q: %w", prefix, EncodedPrefix, ErrUnresolved)
	}
	key, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Identity{}, fmt.Errorf("identity: bech32 payload conversion failed: %w", ErrUnresolved)
	}
	if len(key) != KeySize {
		return Identity{}, fmt.Errorf("identity: encoded payload is %d bytes, want %d: %w", len(key), KeySize, ErrUnresolved)
	}
	var id Identity
	copy(id.key[:], key)
	return id, nil
}

// FromBytes wraps a raw 32-byte key. Returns an error if the slice
// has the wrong length.
func FromBytes(key []byte) (Identity, error) {
	if len(key) != KeySize {
		return Identity{}, fmt.Errorf("identity: key is %d bytes, want %d", len(key), KeySize)
	}
	var id Identity
	copy(id.key[:], key)
	return id, nil
}

// String returns the canonical lowercase-hex form.
func (id Identity) String() string {
	return hex.EncodeToString(id.key[:])
}

// Bytes returns a copy of the raw key.
func (id Identity) Bytes() []byte {
	return bytes.Clone(id.key[:])
}

// IsZero reports whether the identity is the zero value.
func (id Identity) IsZero() bool {
	return id.key == [KeySize]byte{}
}

// Equal reports whether two identities carry the same key.
func (id Identity) Equal(other Identity) bool {
	return id.key == other.key
}

// Encoded returns the bech32 display form ("fpub1...").
func (id Identity) Encoded() string {
	data, err := bech32.ConvertBits(id.key[:], 8, 5, true)
	if err != nil {
		// 8→5 bit expansion of a fixed-size array cannot fail.
		panic(fmt.Sprintf("identity: bit conversion: %v", err))
	}
	encoded, err := bech32.Encode(EncodedPrefix, data)
	if err != nil {
		panic(fmt.Sprintf("identity: bech32 encode: %v", err))
	}
	return encoded
}

// Legacy returns the legacy truncated form: the first 8 characters
// of the canonical hex form. Only for matching old references; never
// store it as an identity.
func (id Identity) Legacy() string {
	return id.String()[:LegacyLength]
}

// MarshalText implements encoding.TextMarshaler using the canonical
// hex form. The zero value marshals to an empty string.
func (id Identity) MarshalText() ([]byte, error) {
	if id.IsZero() {
		return []byte{}, nil
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input
// produces the zero value.
func (id *Identity) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*id = Identity{}
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
