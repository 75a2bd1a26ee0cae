// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"

	"github.com/roster-foundation/roster/lib/codec"
	"github.com/roster-foundation/roster/lib/ref"
)

// StakingPoolSize is the exact encoded size of a staking pool record:
// agentRef(32) + owner(32) + tokenMint(32) + tokenVault(32) +
// minStakeAmount(8) + totalStaked(8) + stakerCount(4) + createdAt(8) +
// flags(1) + bump(1).
const StakingPoolSize = 158

// poolFlagInitialized is the only pool flag currently defined; set at
// creation.
const poolFlagInitialized uint8 = 1

// StakingPool is the economic counterpart bound one-to-one to an agent
// record. Its address is derived from the agent's address, so an agent
// can never have two pools.
type StakingPool struct {
	// AgentRef is the bound agent record's address. Immutable.
	AgentRef ref.ID

	// Owner is copied from the agent owner at creation time and
	// updatable independently afterwards.
	Owner ref.ID

	// TokenMint is the fungible token accepted by the pool.
	TokenMint ref.ID

	// TokenVault is the pool-controlled token account holding all
	// deposits. Its authority is the pool's derived address — no
	// private key exists for it.
	TokenVault ref.ID

	// MinStakeAmount gates first-time deposits. Always positive.
	MinStakeAmount uint64

	// TotalStaked equals the sum of all associated positions'
	// StakedAmount.
	TotalStaked uint64

	// StakerCount counts positions that have ever held a nonzero
	// stake. Withdrawal does not decrement it.
	StakerCount uint32

	// CreatedAt is the pool creation time, unix seconds.
	CreatedAt int64

	Flags uint8
	Bump  uint8
}

// Encode serializes the pool into its fixed 158-byte layout.
func (p *StakingPool) Encode() ([]byte, error) {
	w := codec.NewWriter(StakingPoolSize)
	w.Raw(p.AgentRef[:])
	w.Raw(p.Owner[:])
	w.Raw(p.TokenMint[:])
	w.Raw(p.TokenVault[:])
	w.U64(p.MinStakeAmount)
	w.U64(p.TotalStaked)
	w.U32(p.StakerCount)
	w.I64(p.CreatedAt)
	w.U8(p.Flags)
	w.U8(p.Bump)

	data, err := w.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode staking pool: %w", err)
	}
	return data, nil
}

// DecodeStakingPool deserializes a 158-byte staking pool record.
func DecodeStakingPool(data []byte) (*StakingPool, error) {
	if len(data) != StakingPoolSize {
		return nil, fmt.Errorf("decode staking pool: %d bytes, want %d", len(data), StakingPoolSize)
	}

	r := codec.NewReader(data)
	var p StakingPool
	copy(p.AgentRef[:], r.Raw(32))
	copy(p.Owner[:], r.Raw(32))
	copy(p.TokenMint[:], r.Raw(32))
	copy(p.TokenVault[:], r.Raw(32))
	p.MinStakeAmount = r.U64()
	p.TotalStaked = r.U64()
	p.StakerCount = r.U32()
	p.CreatedAt = r.I64()
	p.Flags = r.U8()
	p.Bump = r.U8()

	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("decode staking pool: %w", err)
	}
	return &p, nil
}

// NewStakingPool returns an initialized pool with zeroed aggregates.
func NewStakingPool(agentRef, owner, tokenMint, tokenVault ref.ID, minStake uint64, createdAt int64, bump uint8) *StakingPool {
	return &StakingPool{
		AgentRef:       agentRef,
		Owner:          owner,
		TokenMint:      tokenMint,
		TokenVault:     tokenVault,
		MinStakeAmount: minStake,
		CreatedAt:      createdAt,
		Flags:          poolFlagInitialized,
		Bump:           bump,
	}
}

// StakePositionSize is the exact encoded size of a stake position:
// staker(32) + agentRef(32) + stakedAmount(8) + stakedAt(8) +
// lastUpdatedAt(8) + bump(1).
const StakePositionSize = 89

// StakePosition is one staker's deposit record against one pool. Its
// address is derived from (staker, agent), so the pair owns exactly
// one position.
//
// A position with StakedAmount zero is a valid post-withdrawal state;
// positions are never destroyed. This is what distinguishes "never
// staked" (no record) from "withdrawn" (record with zero amount).
type StakePosition struct {
	Staker   ref.ID
	AgentRef ref.ID

	// StakedAmount is the current deposit. Zero after a withdrawal.
	StakedAmount uint64

	// StakedAt is the position's first-ever stake time (unix seconds).
	// Never reset — the withdrawal fee decays from this instant, so
	// resetting it through a withdraw/restake cycle would let stakers
	// dodge the immediate-exit penalty.
	StakedAt int64

	// LastUpdatedAt is the time of the most recent deposit or
	// withdrawal.
	LastUpdatedAt int64

	Bump uint8
}

// Encode serializes the position into its fixed 89-byte layout.
func (s *StakePosition) Encode() ([]byte, error) {
	w := codec.NewWriter(StakePositionSize)
	w.Raw(s.Staker[:])
	w.Raw(s.AgentRef[:])
	w.U64(s.StakedAmount)
	w.I64(s.StakedAt)
	w.I64(s.LastUpdatedAt)
	w.U8(s.Bump)

	data, err := w.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode stake position: %w", err)
	}
	return data, nil
}

// DecodeStakePosition deserializes an 89-byte stake position record.
func DecodeStakePosition(data []byte) (*StakePosition, error) {
	if len(data) != StakePositionSize {
		return nil, fmt.Errorf("decode stake position: %d bytes, want %d", len(data), StakePositionSize)
	}

	r := codec.NewReader(data)
	var s StakePosition
	copy(s.Staker[:], r.Raw(32))
	copy(s.AgentRef[:], r.Raw(32))
	s.StakedAmount = r.U64()
	s.StakedAt = r.I64()
	s.LastUpdatedAt = r.I64()
	s.Bump = r.U8()

	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("decode stake position: %w", err)
	}
	return &s, nil
}

// FeeConfigSize is the exact encoded size of the fee configuration
// singleton: feeImmediate(8) + feeRegular(8) + feeMax(8) +
// decayDurationSeconds(4) + treasury(32) + bump(1).
const FeeConfigSize = 61

// Default fee schedule, in native base units. These are the original
// deployment's values: a 0.1-unit immediate-exit penalty decaying to a
// 0.001-unit steady-state fee over one day.
const (
	DefaultFeeImmediate  uint64 = 100_000_000
	DefaultFeeRegular    uint64 = 1_000_000
	DefaultFeeMax        uint64 = 100_000_000
	DefaultDecayDuration uint32 = 86_400
)

// FeeConfig is the program-wide fee schedule and treasury target,
// created once per deployment and read-only thereafter.
type FeeConfig struct {
	// FeeImmediate is the fee for withdrawing the instant after
	// staking.
	FeeImmediate uint64

	// FeeRegular is the steady-state fee after the decay window.
	FeeRegular uint64

	// FeeMax caps the assessed fee regardless of the schedule.
	FeeMax uint64

	// DecayDurationSeconds is the linear decay window. Always
	// positive.
	DecayDurationSeconds uint32

	// Treasury receives every withdrawal fee.
	Treasury ref.ID

	Bump uint8
}

// Encode serializes the fee config into its fixed 61-byte layout.
func (f *FeeConfig) Encode() ([]byte, error) {
	w := codec.NewWriter(FeeConfigSize)
	w.U64(f.FeeImmediate)
	w.U64(f.FeeRegular)
	w.U64(f.FeeMax)
	w.U32(f.DecayDurationSeconds)
	w.Raw(f.Treasury[:])
	w.U8(f.Bump)

	data, err := w.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode fee config: %w", err)
	}
	return data, nil
}

// DecodeFeeConfig deserializes a 61-byte fee configuration record.
func DecodeFeeConfig(data []byte) (*FeeConfig, error) {
	if len(data) != FeeConfigSize {
		return nil, fmt.Errorf("decode fee config: %d bytes, want %d", len(data), FeeConfigSize)
	}

	r := codec.NewReader(data)
	var f FeeConfig
	f.FeeImmediate = r.U64()
	f.FeeRegular = r.U64()
	f.FeeMax = r.U64()
	f.DecayDurationSeconds = r.U32()
	copy(f.Treasury[:], r.Raw(32))
	f.Bump = r.U8()

	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("decode fee config: %w", err)
	}
	return &f, nil
}
