// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"github.com/zeebo/blake3"
)

// addressDomainKey is the 32-byte key for BLAKE3 keyed hashing of
// derived addresses. Domain separation ensures a derived address can
// never collide with a hash computed in any other context. The key is
// a fixed constant — changing it invalidates every derived address in
// an existing deployment. The byte values are the ASCII encoding of
// the domain name, zero-padded to 32 bytes, so the key is inspectable
// in hex dumps without sacrificing any cryptographic property.
var addressDomainKey = [32]byte{
	'r', 'o', 's', 't', 'e', 'r', '.', 'a', 'd', 'd', 'r', 'e', 's', 's', '.', 'v',
	'1', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Derivation is the deterministic mapping from (namespace tag, parent
// keys) to a record address. The fields are unexported so a Derivation
// can only be produced by [NewDerivation] — holding one is therefore
// proof that the holder knows the full seed set for the address, which
// is what lets it serve as a transfer-authorization capability for
// vault accounts (no private key exists for a derived address).
type Derivation struct {
	tag   string
	seeds [][]byte
	bump  byte
	addr  ID
}

// NewDerivation computes the derived address for a namespace tag and
// an ordered list of parent keys. The result is deterministic: the
// same inputs always yield the same address and bump.
//
// The bump byte starts at 255 and decrements until the candidate
// address falls outside the host's reserved range (leading byte zero,
// pre-allocated for system records). The accepted bump is stored in
// every record at creation and re-verified on read.
func NewDerivation(tag string, seeds ...[]byte) Derivation {
	copied := make([][]byte, len(seeds))
	for i, seed := range seeds {
		copied[i] = append([]byte(nil), seed...)
	}

	d := Derivation{tag: tag, seeds: copied}
	for bump := 255; bump >= 0; bump-- {
		addr := deriveAddress(tag, copied, byte(bump))
		if addr[0] != 0 {
			d.bump = byte(bump)
			d.addr = addr
			return d
		}
	}
	// 256 consecutive zero-leading digests. Not reachable with an
	// unbroken hash function.
	panic("ref: no valid bump for derivation " + tag)
}

// Address returns the derived record address.
func (d Derivation) Address() ID { return d.addr }

// Bump returns the derivation bump byte.
func (d Derivation) Bump() byte { return d.bump }

// Tag returns the namespace tag the derivation was computed under.
func (d Derivation) Tag() string { return d.tag }

// Verify reports whether addr and bump match this derivation. Record
// loads call this with the stored bump before trusting a record's
// contents, mirroring the host's read-side derivation check.
func (d Derivation) Verify(addr ID, bump byte) bool {
	return d.addr == addr && d.bump == bump
}

// deriveAddress computes the keyed BLAKE3 digest of the derivation
// material. Each component is length-prefixed so that seed boundaries
// are unambiguous: ("ab","c") and ("a","bc") produce different
// addresses.
func deriveAddress(tag string, seeds [][]byte, bump byte) ID {
	hasher, err := blake3.NewKeyed(addressDomainKey[:])
	if err != nil {
		panic("ref: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	writeComponent(hasher, []byte(tag))
	for _, seed := range seeds {
		writeComponent(hasher, seed)
	}
	hasher.Write([]byte{bump})

	var addr ID
	hasher.Digest().Read(addr[:])
	return addr
}

// writeComponent writes a single length-prefixed component. Component
// length is capped at 255 bytes, which every namespace tag and parent
// key in the system is far below (parent keys are 32-byte IDs).
func writeComponent(hasher *blake3.Hasher, component []byte) {
	if len(component) > 255 {
		panic("ref: derivation component exceeds 255 bytes")
	}
	hasher.Write([]byte{byte(len(component))})
	hasher.Write(component)
}
