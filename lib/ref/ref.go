// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/hex"
	"fmt"
)

// ID is a 32-byte identity: a signer, a record address, a token mint,
// or a treasury account. IDs compare with ==. The zero value is never
// a valid identity — operations reject it wherever an identity is
// required.
type ID [32]byte

// FromBytes copies a 32-byte slice into an ID. Returns an error if the
// slice is not exactly 32 bytes.
func FromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != len(id) {
		return id, fmt.Errorf("identity is %d bytes, want %d", len(b), len(id))
	}
	copy(id[:], b)
	return id, nil
}

// Parse parses the canonical hex form (64 lowercase hex characters)
// back into an ID.
func Parse(s string) (ID, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, fmt.Errorf("parsing identity: %w", err)
	}
	return FromBytes(decoded)
}

// IsZero reports whether the ID is the all-zero value.
func (id ID) IsZero() bool { return id == ID{} }

// String returns the canonical hex form, satisfying fmt.Stringer.
func (id ID) String() string { return hex.EncodeToString(id[:]) }

// Short returns the first 8 hex characters. This is the form used in
// log output where a full 64-character address would drown the line.
func (id ID) Short() string { return hex.EncodeToString(id[:4]) }

// MarshalText implements encoding.TextMarshaler. IDs serialize as
// their canonical hex form in CBOR, JSON, and YAML.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input
// produces the zero ID, the symmetric counterpart to marshaling a
// zero value.
func (id *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*id = ID{}
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return fmt.Errorf("unmarshal identity: %w", err)
	}
	*id = parsed
	return nil
}
