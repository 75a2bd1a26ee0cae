// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides the identity and address types used throughout
// Roster.
//
// An [ID] is an opaque 32-byte identity. The same type names both
// signer identities (verified upstream by the execution host) and
// record addresses in the keyed store — the two live in one keyspace,
// exactly like the original deployment.
//
// Record addresses are never chosen by callers. They are derived
// deterministically from a namespace tag plus parent keys via
// [NewDerivation]: the agent record for a creator, the staking pool
// for an agent, the stake account for a (staker, agent) pair. A
// derivation doubles as an authorization capability — holding a
// [Derivation] value is the proof that the holder controls the derived
// address (see lib/token.Derived). Every derivation carries a bump
// byte that is stored in the record and re-verified on read, so a
// record can never be confused with one derived from different seeds.
package ref
