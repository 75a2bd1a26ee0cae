// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"strings"
)

// MemoryMode identifies how an agent's memory pointer should be
// interpreted. The numeric values are the wire encoding and must not
// be reordered.
type MemoryMode uint8

const (
	// MemoryNone: no memory pointer is set.
	MemoryNone MemoryMode = iota

	// MemoryCID: the pointer is an IPFS content identifier (CIDv0 or
	// CIDv1). Content-addressed, so no separate hash is carried.
	MemoryCID

	// MemoryIPNS: the pointer is a mutable IPNS name; the hash pins
	// the expected content.
	MemoryIPNS

	// MemoryURL: the pointer is an https URL; the hash pins the
	// expected content.
	MemoryURL

	// MemoryManifest: the pointer references a manifest document; the
	// hash pins the expected content. Manifest mode cannot be set at
	// agent creation, only through a later SetMemory — the original
	// deployment has this asymmetry and existing records depend on it.
	MemoryManifest
)

// String returns the mode's name.
func (m MemoryMode) String() string {
	switch m {
	case MemoryNone:
		return "none"
	case MemoryCID:
		return "cid"
	case MemoryIPNS:
		return "ipns"
	case MemoryURL:
		return "url"
	case MemoryManifest:
		return "manifest"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(m))
	}
}

// ParseMemoryMode validates a wire-encoded memory mode.
func ParseMemoryMode(v uint8) (MemoryMode, error) {
	if v > uint8(MemoryManifest) {
		return 0, fmt.Errorf("memory mode %d: %w", v, ErrInvalidMemoryFields)
	}
	return MemoryMode(v), nil
}

// Field width limits. These are storage-layout constants: the padded
// byte fields in AgentRecord are exactly this wide.
const (
	// MaxCardURILen is the width of the card URI field.
	MaxCardURILen = 96

	// MaxMemoryPtrLen is the width of the memory pointer field.
	MaxMemoryPtrLen = 96

	// cidV0Len is the exact length of a base58btc CIDv0 ("Qm" + 44).
	cidV0Len = 46
)

// ValidateCardURI checks the mandatory identity-document reference:
// non-empty, at most 96 bytes, and an https:// or ipfs:// scheme.
func ValidateCardURI(uri string) error {
	if len(uri) == 0 || len(uri) > MaxCardURILen {
		return fmt.Errorf("card uri is %d bytes, want 1..%d: %w", len(uri), MaxCardURILen, ErrInvalidLength)
	}
	if !strings.HasPrefix(uri, "https://") && !strings.HasPrefix(uri, "ipfs://") {
		return fmt.Errorf("card uri %q: %w", uri, ErrInsecureURL)
	}
	return nil
}

// ValidateMemoryInit checks the optional memory fields supplied at
// agent creation. Creation accepts a narrower rule set than SetMemory:
// the mode must be None, Cid, Ipns, or Url (never Manifest), the
// pointer must be present and 1..96 bytes, and Url-mode pointers must
// be https. CID shape and hash consistency are not checked here — that
// is SetMemory's stricter table.
func ValidateMemoryInit(mode MemoryMode, ptr []byte) error {
	if len(ptr) == 0 || len(ptr) > MaxMemoryPtrLen {
		return fmt.Errorf("memory pointer is %d bytes, want 1..%d: %w", len(ptr), MaxMemoryPtrLen, ErrInvalidLength)
	}
	if mode > MemoryURL {
		return fmt.Errorf("memory mode %v not creatable: %w", mode, ErrInvalidMemoryFields)
	}
	if mode == MemoryURL && !strings.HasPrefix(string(ptr), "https://") {
		return fmt.Errorf("url memory pointer: %w", ErrInsecureURL)
	}
	return nil
}

// ValidateMemoryUpdate checks a SetMemory request against the full
// mode table:
//
//	None:     empty pointer, zero hash.
//	Cid:      shape-valid CID, zero hash (content-addressed).
//	Ipns:     non-empty pointer, non-zero hash.
//	Manifest: non-empty pointer, non-zero hash.
//	Url:      non-empty https:// pointer, non-zero hash.
//
// The pointer length bound (≤96) applies to every mode.
func ValidateMemoryUpdate(mode MemoryMode, ptr []byte, hash [32]byte) error {
	if len(ptr) > MaxMemoryPtrLen {
		return fmt.Errorf("memory pointer is %d bytes, max %d: %w", len(ptr), MaxMemoryPtrLen, ErrInvalidLength)
	}

	zero := [32]byte{}
	switch mode {
	case MemoryNone:
		if len(ptr) != 0 {
			return fmt.Errorf("none mode with a pointer: %w", ErrInvalidMemoryFields)
		}
		if hash != zero {
			return fmt.Errorf("none mode with a hash: %w", ErrInvalidMemoryFields)
		}
	case MemoryCID:
		if len(ptr) == 0 {
			return fmt.Errorf("cid mode without a pointer: %w", ErrInvalidMemoryFields)
		}
		if hash != zero {
			return fmt.Errorf("cid mode with a hash: %w", ErrInvalidMemoryFields)
		}
		if !validCIDShape(string(ptr)) {
			return fmt.Errorf("pointer is not a valid cid: %w", ErrInvalidMemoryFields)
		}
	case MemoryIPNS, MemoryManifest:
		if len(ptr) == 0 {
			return fmt.Errorf("%v mode without a pointer: %w", mode, ErrInvalidMemoryFields)
		}
		if hash == zero {
			return fmt.Errorf("%v mode requires a content hash: %w", mode, ErrInvalidMemoryFields)
		}
	case MemoryURL:
		if len(ptr) == 0 {
			return fmt.Errorf("url mode without a pointer: %w", ErrInvalidMemoryFields)
		}
		if hash == zero {
			return fmt.Errorf("url mode requires a content hash: %w", ErrInvalidMemoryFields)
		}
		if !strings.HasPrefix(string(ptr), "https://") {
			return fmt.Errorf("url memory pointer: %w", ErrInsecureURL)
		}
	default:
		return fmt.Errorf("memory mode %d: %w", uint8(mode), ErrInvalidMemoryFields)
	}
	return nil
}

// validCIDShape reports whether s is shaped like an IPFS CID. This is
// a syntactic check only — the referenced content is never fetched.
//
// CIDv0 is "Qm" followed by base58btc characters, exactly 46 bytes.
// CIDv1 is "bafy" followed by lowercase base32 characters.
func validCIDShape(s string) bool {
	switch {
	case strings.HasPrefix(s, "bafy"):
		for _, c := range s {
			if !(c >= 'a' && c <= 'z' || c >= '2' && c <= '7') {
				return false
			}
		}
		return true
	case strings.HasPrefix(s, "Qm"):
		if len(s) != cidV0Len {
			return false
		}
		for _, c := range s {
			if !isBase58(c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// isBase58 reports membership in the base58btc alphabet, which omits
// 0, O, I, and l.
func isBase58(c rune) bool {
	switch {
	case c >= '1' && c <= '9':
		return true
	case c >= 'A' && c <= 'H', c >= 'J' && c <= 'N', c >= 'P' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'k', c >= 'm' && c <= 'z':
		return true
	default:
		return false
	}
}
