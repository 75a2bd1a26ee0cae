// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the persistent record types of the Roster
// state core — agent identity records, staking pools, stake positions,
// and the fee configuration singleton — together with their fixed
// binary layouts, validation rules, lifecycle flags, typed errors, and
// the event payloads emitted by mutating operations.
//
// The binary layouts are byte-for-byte compatible with the original
// deployment's account formats (little-endian integers, zero-padded
// fixed-width byte fields with explicit length prefixes). Inside the
// process, records hold variable-length Go values; padding exists only
// at the serialization boundary.
//
// schema contains no I/O and no state transitions. The operations
// that mutate these records live in lib/registry and lib/staking.
package schema
