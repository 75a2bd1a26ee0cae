// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"

	"github.com/roster-foundation/roster/lib/codec"
	"github.com/roster-foundation/roster/lib/ref"
)

// AgentRecordVersion is the current record format version, written
// into every new agent record.
const AgentRecordVersion = 1

// AgentRecordSize is the exact encoded size of an agent record:
// version(1) + creator(32) + owner(32) + memoryMode(1) +
// memoryPtrLen(1) + memoryPtr(96) + memoryHash(32) + cardUriLen(1) +
// cardUri(96) + cardHash(32) + flags(4) + bump(1) + padding(7).
const AgentRecordSize = 336

// AgentRecord is the identity record for one agent: who created it,
// who controls it, its identity document (card), its memory pointer,
// and its lifecycle flags.
//
// Creator is immutable and doubles as the record's derivation seed —
// one record per creator, enforced by the derived address. Owner
// starts equal to Creator and controls every mutation thereafter.
type AgentRecord struct {
	Version uint8
	Creator ref.ID
	Owner   ref.ID

	// MemoryMode, MemoryPtr, and MemoryHash describe the agent's
	// optional memory pointer. MemoryPtr holds the unpadded content;
	// padding to 96 bytes happens at the serialization boundary.
	MemoryMode MemoryMode
	MemoryPtr  []byte
	MemoryHash [32]byte

	// CardURI and CardHash reference the mandatory identity document.
	// CardURI is always non-empty with an https:// or ipfs:// scheme.
	CardURI  string
	CardHash [32]byte

	Flags AgentFlags

	// Bump is the derivation bump byte for the record's address,
	// stored at creation and re-verified on every load.
	Bump uint8
}

// Encode serializes the record into its fixed 336-byte layout.
func (a *AgentRecord) Encode() ([]byte, error) {
	if len(a.MemoryPtr) > MaxMemoryPtrLen {
		return nil, fmt.Errorf("encode agent record: memory pointer is %d bytes: %w", len(a.MemoryPtr), ErrInvalidLength)
	}
	if len(a.CardURI) > MaxCardURILen {
		return nil, fmt.Errorf("encode agent record: card uri is %d bytes: %w", len(a.CardURI), ErrInvalidLength)
	}

	w := codec.NewWriter(AgentRecordSize)
	w.U8(a.Version)
	w.Raw(a.Creator[:])
	w.Raw(a.Owner[:])
	w.U8(uint8(a.MemoryMode))
	w.U8(uint8(len(a.MemoryPtr)))
	w.Padded(a.MemoryPtr, MaxMemoryPtrLen)
	w.Raw(a.MemoryHash[:])
	w.U8(uint8(len(a.CardURI)))
	w.Padded([]byte(a.CardURI), MaxCardURILen)
	w.Raw(a.CardHash[:])
	w.U32(a.Flags.packed())
	w.U8(a.Bump)
	w.Raw(make([]byte, 7))

	data, err := w.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode agent record: %w", err)
	}
	return data, nil
}

// DecodeAgentRecord deserializes a 336-byte agent record.
func DecodeAgentRecord(data []byte) (*AgentRecord, error) {
	if len(data) != AgentRecordSize {
		return nil, fmt.Errorf("decode agent record: %d bytes, want %d", len(data), AgentRecordSize)
	}

	r := codec.NewReader(data)
	var a AgentRecord
	a.Version = r.U8()
	copy(a.Creator[:], r.Raw(32))
	copy(a.Owner[:], r.Raw(32))

	mode, modeErr := ParseMemoryMode(r.U8())
	ptrLen := int(r.U8())
	a.MemoryPtr = r.Padded(MaxMemoryPtrLen, ptrLen)
	copy(a.MemoryHash[:], r.Raw(32))

	uriLen := int(r.U8())
	a.CardURI = string(r.Padded(MaxCardURILen, uriLen))
	copy(a.CardHash[:], r.Raw(32))

	a.Flags = agentFlagsFromPacked(r.U32())
	a.Bump = r.U8()
	r.Raw(7)

	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("decode agent record: %w", err)
	}
	if modeErr != nil {
		return nil, fmt.Errorf("decode agent record: %w", modeErr)
	}
	a.MemoryMode = mode
	return &a, nil
}
