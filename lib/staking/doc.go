// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package staking implements the economic layer bound to agent
// records: per-agent staking pools, per-staker positions, deposits,
// and fee-bearing withdrawals.
//
// A pool is bound one-to-one to an agent (its address derives from
// the agent's) and holds all deposits in a vault token account whose
// authority is the pool's derived address. Positions are bound to a
// (staker, agent) pair and survive withdrawal with a zero balance —
// the first-stake timestamp is kept so the withdrawal fee, which
// decays linearly from an immediate-exit penalty to a steady-state
// fee, cannot be dodged by cycling the position.
//
// Operations follow the load, verify, authorize, validate, mutate,
// write, emit shape of the registry package. Token movement goes
// through the lib/token ledgers; the vault pays out withdrawals under
// a derived authority no external caller can construct.
package staking
