// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package token models the two balance systems the staking operations
// move value through: a token ledger of mint-typed accounts (the
// staked asset, held in per-pool vaults) and a native balance per
// address (the unit withdrawal fees and storage allowances are paid
// in).
//
// Authorization is capability-style. A [Authority] names the address
// allowed to debit an account, and there are exactly two ways to make
// one: [Signer], for a caller acting as themselves, and [Derived], for
// the state core acting as a derived address it controls — Derived
// requires the [ref.Derivation], so only code that can re-derive the
// address (knows its seed preimage) can spend from it. This is how a
// pool's vault can pay out withdrawals while no external caller can.
//
// [Mem] is the in-process implementation of both ledgers. Production
// deployments adapt these interfaces to the host's real asset layer.
package token
