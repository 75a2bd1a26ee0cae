// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "github.com/roster-foundation/roster/lib/ref"

// Namespace tags for derived record addresses. These are wire
// constants shared with the original deployment; changing one orphans
// every record in that namespace.
const (
	TagAgent        = "agent"
	TagStakingPool  = "staking_pool"
	TagStakeAccount = "stake_account"
	TagTokenVault   = "token_vault"
	TagFeeConfig    = "program_state"
)

// AgentDerivation returns the derivation for a creator's agent record.
// One record per creator: the address is a pure function of the
// creator identity.
func AgentDerivation(creator ref.ID) ref.Derivation {
	return ref.NewDerivation(TagAgent, creator[:])
}

// PoolDerivation returns the derivation for the staking pool bound to
// an agent record.
func PoolDerivation(agent ref.ID) ref.Derivation {
	return ref.NewDerivation(TagStakingPool, agent[:])
}

// StakeDerivation returns the derivation for a (staker, agent) stake
// position.
func StakeDerivation(staker, agent ref.ID) ref.Derivation {
	return ref.NewDerivation(TagStakeAccount, staker[:], agent[:])
}

// VaultDerivation returns the derivation for a pool's token vault.
func VaultDerivation(pool ref.ID) ref.Derivation {
	return ref.NewDerivation(TagTokenVault, pool[:])
}

// FeeConfigDerivation returns the derivation for the fee configuration
// singleton. No parent keys: there is exactly one per deployment.
func FeeConfigDerivation() ref.Derivation {
	return ref.NewDerivation(TagFeeConfig)
}
