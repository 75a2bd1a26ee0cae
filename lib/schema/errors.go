// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "errors"

// Operation failures are typed, non-retryable, and abort the whole
// operation with no partial state change. Call sites wrap these with
// fmt.Errorf("...: %w", ...) for context; callers classify with
// errors.Is. The same invalid input is always rejected with the same
// sentinel.
var (
	// ErrUnauthorized: the caller's verified signing identity does not
	// match the owner, staker, or creator the operation requires.
	ErrUnauthorized = errors.New("caller is not authorized for this record")

	// ErrInvalidOwner: ownership transfer to the zero identity.
	ErrInvalidOwner = errors.New("new owner identity is zero")

	// ErrInvalidLength: a URI or memory pointer is empty or exceeds its
	// 96-byte field.
	ErrInvalidLength = errors.New("field length out of range")

	// ErrInvalidMemoryFields: the memory mode, pointer, and hash do not
	// form one of the accepted combinations.
	ErrInvalidMemoryFields = errors.New("memory mode and fields do not agree")

	// ErrMemoryLocked: the agent's memory fields are permanently frozen.
	ErrMemoryLocked = errors.New("memory fields are locked")

	// ErrAgentActive: close attempted while the ACTIVE flag is set.
	ErrAgentActive = errors.New("agent is still active")

	// ErrStakingEnabled: close attempted while the HAS_STAKING flag is
	// set.
	ErrStakingEnabled = errors.New("agent still has staking enabled")

	// ErrInsecureURL: a URI does not start with an allowed scheme.
	ErrInsecureURL = errors.New("uri scheme is not allowed")

	// ErrStakingNotEnabled: pool creation on an agent without the
	// HAS_STAKING flag.
	ErrStakingNotEnabled = errors.New("agent does not have staking enabled")

	// ErrInvalidMinStake: a pool minimum stake of zero.
	ErrInvalidMinStake = errors.New("minimum stake amount must be positive")

	// ErrInvalidStakeAmount: a deposit of zero tokens.
	ErrInvalidStakeAmount = errors.New("stake amount must be positive")

	// ErrBelowMinimumStake: a first-time deposit below the pool
	// minimum. Top-ups on a nonzero position are exempt.
	ErrBelowMinimumStake = errors.New("first stake is below the pool minimum")

	// ErrNoStake: withdrawal from a position with nothing staked.
	ErrNoStake = errors.New("no staked balance to withdraw")

	// ErrInvalidVault: the presented token vault is not the pool's
	// vault.
	ErrInvalidVault = errors.New("token vault does not belong to the pool")

	// ErrInvalidFeeConfig: a fee schedule with a zero decay duration,
	// which would divide by zero in the decay formula.
	ErrInvalidFeeConfig = errors.New("fee decay duration must be positive")

	// ErrInsufficientFeeBalance: the staker's liquid native balance
	// cannot cover the withdrawal fee plus the rent-exempt minimum.
	ErrInsufficientFeeBalance = errors.New("insufficient native balance for withdrawal fee")
)
