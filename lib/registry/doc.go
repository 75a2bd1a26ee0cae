// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry implements the agent identity lifecycle: creating
// agent records, updating their identity document and memory pointer,
// locking memory, toggling the ACTIVE flag, transferring ownership,
// and closing the record.
//
// Every operation follows the same shape: load the record from the
// store, verify the stored bump against a fresh derivation, check the
// caller's authority, validate inputs, mutate, write back, and emit
// one event. Failures abort before the write, so an operation either
// fully applies or leaves the record untouched.
//
// The caller identity passed to each operation is trusted — the host
// authenticates signatures before calling in. Authorization (is this
// identity the record's owner?) happens here.
package registry
