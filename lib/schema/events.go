// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "github.com/roster-foundation/roster/lib/ref"

// Event type constants. Every mutating operation emits exactly one
// event for off-chain observers; emission is best-effort and cannot
// fail the operation. Payload structs below marshal deterministically
// through lib/codec.
const (
	EventTypeAgentCreated     = "roster.agent_created"
	EventTypeCardSet          = "roster.card_set"
	EventTypeMemoryUpdated    = "roster.memory_updated"
	EventTypeMemoryLocked     = "roster.memory_locked"
	EventTypeAgentActiveSet   = "roster.agent_active_set"
	EventTypeAgentClosed      = "roster.agent_closed"
	EventTypeOwnerTransferred = "roster.owner_transferred"
	EventTypePoolCreated      = "roster.pool_created"
	EventTypeMinStakeUpdated  = "roster.min_stake_updated"
	EventTypeStaked           = "roster.staked"
	EventTypeWithdrawn        = "roster.withdrawn"
	EventTypeFeeConfigInit    = "roster.fee_config_initialized"
)

// previewLen caps the pointer/URI excerpt carried in update events.
// Observability needs a recognizable prefix, not the full 96-byte
// buffer.
const previewLen = 32

// Preview returns at most the first 32 bytes of b as a string.
func Preview(b []byte) string {
	if len(b) > previewLen {
		b = b[:previewLen]
	}
	return string(b)
}

// AgentCreatedEvent announces a new agent record.
type AgentCreatedEvent struct {
	Creator ref.ID `json:"creator"`
	Owner   ref.ID `json:"owner"`
}

// CardSetEvent announces an identity-document update. URIPreview is a
// 32-byte excerpt, never the full URI.
type CardSetEvent struct {
	Creator    ref.ID   `json:"creator"`
	URIPreview string   `json:"uri_preview"`
	CardHash   [32]byte `json:"card_hash"`
}

// MemoryUpdatedEvent announces a memory-pointer update. PtrPreview is
// a 32-byte excerpt, never the full pointer.
type MemoryUpdatedEvent struct {
	Creator    ref.ID   `json:"creator"`
	Mode       uint8    `json:"mode"`
	PtrPreview string   `json:"ptr_preview"`
	Hash       [32]byte `json:"hash"`
}

// MemoryLockedEvent announces the one-way memory lock.
type MemoryLockedEvent struct {
	Creator ref.ID `json:"creator"`
}

// AgentActiveSetEvent announces an ACTIVE flag toggle.
type AgentActiveSetEvent struct {
	Creator  ref.ID `json:"creator"`
	IsActive bool   `json:"is_active"`
}

// AgentClosedEvent announces record destruction.
type AgentClosedEvent struct {
	Creator ref.ID `json:"creator"`
}

// OwnerTransferredEvent announces an ownership transfer.
type OwnerTransferredEvent struct {
	Creator  ref.ID `json:"creator"`
	OldOwner ref.ID `json:"old_owner"`
	NewOwner ref.ID `json:"new_owner"`
}

// PoolCreatedEvent announces a new staking pool.
type PoolCreatedEvent struct {
	Agent          ref.ID `json:"agent"`
	Owner          ref.ID `json:"owner"`
	MinStakeAmount uint64 `json:"min_stake_amount"`
}

// MinStakeUpdatedEvent carries old and new minimums for audit.
type MinStakeUpdatedEvent struct {
	Agent     ref.ID `json:"agent"`
	OldAmount uint64 `json:"old_amount"`
	NewAmount uint64 `json:"new_amount"`
}

// StakedEvent announces a deposit. Total is the position's balance
// after the deposit.
type StakedEvent struct {
	Staker ref.ID `json:"staker"`
	Agent  ref.ID `json:"agent"`
	Amount uint64 `json:"amount"`
	Total  uint64 `json:"total"`
}

// WithdrawnEvent announces a full withdrawal and the fee assessed.
type WithdrawnEvent struct {
	Staker ref.ID `json:"staker"`
	Agent  ref.ID `json:"agent"`
	Amount uint64 `json:"amount"`
	Fee    uint64 `json:"fee"`
}

// FeeConfigInitializedEvent announces the fee configuration singleton.
type FeeConfigInitializedEvent struct {
	Treasury     ref.ID `json:"treasury"`
	FeeImmediate uint64 `json:"fee_immediate"`
	FeeRegular   uint64 `json:"fee_regular"`
}
