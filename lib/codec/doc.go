// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Roster's two serialization formats.
//
// Fixed-layout binary ([Writer], [Reader]) is the storage format for
// records. Every record type has a fixed byte size, little-endian
// integers, and zero-padded byte fields with explicit length prefixes
// — byte-for-byte compatible with the original deployment's account
// layouts, so a record written by one implementation reads back
// identically in the other.
//
// CBOR ([Marshal], [Unmarshal]) is the interchange format for event
// payloads and record snapshots handed to off-chain observers. It uses
// Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items, so the same
// logical payload always produces identical bytes.
package codec
