// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"context"
	"errors"

	"github.com/roster-foundation/roster/lib/ref"
)

// Ledger-contract failures, classified with errors.Is by callers.
var (
	// ErrAccountExists: account creation at an occupied address.
	ErrAccountExists = errors.New("token account already exists")

	// ErrNoAccount: an operation referenced an address with no token
	// account.
	ErrNoAccount = errors.New("no token account at address")

	// ErrMintMismatch: a transfer between accounts of different mints.
	ErrMintMismatch = errors.New("token accounts have different mints")

	// ErrBadAuthority: the presented authority does not control the
	// debited account.
	ErrBadAuthority = errors.New("authority does not control account")

	// ErrInsufficientFunds: a debit larger than the account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Authority is permission to debit accounts owned by one address.
// The zero Authority controls nothing.
type Authority struct {
	addr ref.ID
	ok   bool
}

// Signer returns the authority of a caller acting as themselves.
func Signer(id ref.ID) Authority {
	return Authority{addr: id, ok: !id.IsZero()}
}

// Derived returns the authority of a derived address. Holding the
// derivation is the capability: only code that knows the seed
// preimage can construct it.
func Derived(d ref.Derivation) Authority {
	return Authority{addr: d.Address(), ok: true}
}

// Controls reports whether the authority can debit accounts owned by
// owner.
func (a Authority) Controls(owner ref.ID) bool {
	return a.ok && a.addr == owner
}

// Address returns the address the authority acts as.
func (a Authority) Address() ref.ID {
	return a.addr
}

// Ledger is the mint-typed token ledger. Accounts are explicit: they
// must be created before they can hold a balance, and each is bound
// to one mint and one owning address.
type Ledger interface {
	// CreateAccount creates an empty account at addr, owned by owner,
	// holding tokens of mint. Returns ErrAccountExists if occupied.
	CreateAccount(ctx context.Context, addr, owner, mint ref.ID) error

	// Transfer moves amount from one account to another. The authority
	// must control the source account's owner, and both accounts must
	// share a mint. The debit and credit commit together or not at all.
	Transfer(ctx context.Context, auth Authority, from, to ref.ID, amount uint64) error

	// Balance returns the account's balance, or ErrNoAccount.
	Balance(ctx context.Context, addr ref.ID) (uint64, error)
}

// NativeLedger is the native balance system. Every address implicitly
// has a balance (zero until funded); there is no account creation.
type NativeLedger interface {
	// TransferNative moves amount of the native unit. The authority
	// must act as the source address itself.
	TransferNative(ctx context.Context, auth Authority, from, to ref.ID, amount uint64) error

	// NativeBalance returns the address's native balance.
	NativeBalance(ctx context.Context, addr ref.ID) (uint64, error)
}
