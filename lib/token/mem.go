// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"context"
	"fmt"
	"sync"

	"github.com/roster-foundation/roster/lib/ref"
)

type account struct {
	owner   ref.ID
	mint    ref.ID
	balance uint64
}

// Mem is an in-process implementation of both [Ledger] and
// [NativeLedger]. Safe for concurrent use; one mutex covers both
// balance systems so a mixed operation observes a consistent view.
type Mem struct {
	mu       sync.Mutex
	accounts map[ref.ID]*account
	native   map[ref.ID]uint64
}

// NewMem returns an empty ledger.
func NewMem() *Mem {
	return &Mem{
		accounts: make(map[ref.ID]*account),
		native:   make(map[ref.ID]uint64),
	}
}

// CreateAccount implements Ledger.
func (m *Mem) CreateAccount(_ context.Context, addr, owner, mint ref.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[addr]; ok {
		return fmt.Errorf("create account %s: %w", addr.Short(), ErrAccountExists)
	}
	m.accounts[addr] = &account{owner: owner, mint: mint}
	return nil
}

// Transfer implements Ledger. Validation runs before any balance
// changes, so a failed transfer leaves both accounts untouched.
func (m *Mem) Transfer(_ context.Context, auth Authority, from, to ref.ID, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, ok := m.accounts[from]
	if !ok {
		return fmt.Errorf("transfer from %s: %w", from.Short(), ErrNoAccount)
	}
	dst, ok := m.accounts[to]
	if !ok {
		return fmt.Errorf("transfer to %s: %w", to.Short(), ErrNoAccount)
	}
	if !auth.Controls(src.owner) {
		return fmt.Errorf("transfer from %s: %w", from.Short(), ErrBadAuthority)
	}
	if src.mint != dst.mint {
		return fmt.Errorf("transfer %s -> %s: %w", from.Short(), to.Short(), ErrMintMismatch)
	}
	if src.balance < amount {
		return fmt.Errorf("transfer from %s: have %d, need %d: %w",
			from.Short(), src.balance, amount, ErrInsufficientFunds)
	}

	src.balance -= amount
	dst.balance += amount
	return nil
}

// Balance implements Ledger.
func (m *Mem) Balance(_ context.Context, addr ref.ID) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[addr]
	if !ok {
		return 0, fmt.Errorf("balance of %s: %w", addr.Short(), ErrNoAccount)
	}
	return acct.balance, nil
}

// TransferNative implements NativeLedger.
func (m *Mem) TransferNative(_ context.Context, auth Authority, from, to ref.ID, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !auth.Controls(from) {
		return fmt.Errorf("native transfer from %s: %w", from.Short(), ErrBadAuthority)
	}
	if m.native[from] < amount {
		return fmt.Errorf("native transfer from %s: have %d, need %d: %w",
			from.Short(), m.native[from], amount, ErrInsufficientFunds)
	}
	m.native[from] -= amount
	m.native[to] += amount
	return nil
}

// NativeBalance implements NativeLedger.
func (m *Mem) NativeBalance(_ context.Context, addr ref.ID) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.native[addr], nil
}

// Mint credits amount of new tokens to an existing account. Test
// helper: real deployments mint through the host's asset layer.
func (m *Mem) Mint(addr ref.ID, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[addr]
	if !ok {
		return fmt.Errorf("mint to %s: %w", addr.Short(), ErrNoAccount)
	}
	acct.balance += amount
	return nil
}

// Fund credits amount of the native unit to an address. Test helper.
func (m *Mem) Fund(addr ref.ID, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.native[addr] += amount
}
