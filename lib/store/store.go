// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"

	"github.com/roster-foundation/roster/lib/ref"
)

// Store-contract failures. Like the schema sentinels, these are typed
// and non-retryable; call sites wrap with context and callers classify
// with errors.Is.
var (
	// ErrRecordExists: creation at an occupied address. This is how
	// one-record-per-derivation is enforced — a duplicate CreateAgent
	// or InitStake dies here.
	ErrRecordExists = errors.New("record already exists at address")

	// ErrRecordNotFound: read, update, or delete of an absent record.
	ErrRecordNotFound = errors.New("no record at address")

	// ErrBumpMismatch: a loaded record's stored bump byte does not
	// match the caller's derivation. Either the caller derived with
	// the wrong seeds or the record is not what it claims to be.
	ErrBumpMismatch = errors.New("record bump does not match derivation")
)

// Record is one stored record: its derived address, the derivation
// bump byte captured at creation, and the fixed-layout encoded bytes.
type Record struct {
	Address ref.ID
	Bump    uint8
	Data    []byte
}

// Store is the keyed record store contract. Implementations guarantee
// that Create fails on an occupied address, that Get returns exactly
// the last-written bytes, and that operations on a single address are
// serialized (at most one writer at a time). Atomic all-or-nothing
// commit of a multi-record operation is the host's job, not the
// store's.
type Store interface {
	// Create writes a record at a previously unoccupied address.
	// Returns ErrRecordExists if the address is occupied.
	Create(ctx context.Context, rec Record) error

	// Get returns the record at addr, or ErrRecordNotFound.
	Get(ctx context.Context, addr ref.ID) (Record, error)

	// Update overwrites an existing record. Returns ErrRecordNotFound
	// if the address is unoccupied — updating into existence would
	// bypass the creation collision check.
	Update(ctx context.Context, rec Record) error

	// Delete removes the record at addr and credits its backing
	// storage allowance to reclaimTo (an accounting action performed
	// by the host's rent economics; implementations here record the
	// recipient but hold no balances). Returns ErrRecordNotFound if
	// absent.
	Delete(ctx context.Context, addr ref.ID, reclaimTo ref.ID) error
}

// VerifyBump checks a loaded record's stored bump against the
// derivation that produced its address. Operations call this after
// every Get, mirroring the host's read-side derivation check.
func VerifyBump(rec Record, d ref.Derivation) error {
	if !d.Verify(rec.Address, rec.Bump) {
		return ErrBumpMismatch
	}
	return nil
}
