// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"
	"testing"

	"github.com/roster-foundation/roster/lib/ref"
)

func testID(fill byte) ref.ID {
	var id ref.ID
	for i := range id {
		id[i] = fill
	}
	return id
}

func sampleAgent() *AgentRecord {
	return &AgentRecord{
		Version:    AgentRecordVersion,
		Creator:    testID(1),
		Owner:      testID(2),
		MemoryMode: MemoryURL,
		MemoryPtr:  []byte("https://x.io/memory"),
		MemoryHash: [32]byte{3},
		CardURI:    "https://x.io/card.json",
		CardHash:   [32]byte{4},
		Flags:      NewAgentFlags(FlagActive, FlagHasStaking),
		Bump:       254,
	}
}

func TestAgentRecordRoundTrip(t *testing.T) {
	in := sampleAgent()

	data, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) != AgentRecordSize {
		t.Fatalf("encoded size = %d, want %d", len(data), AgentRecordSize)
	}

	out, err := DecodeAgentRecord(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if out.Version != in.Version || out.Creator != in.Creator || out.Owner != in.Owner {
		t.Error("identity fields did not round-trip")
	}
	if out.MemoryMode != in.MemoryMode || !bytes.Equal(out.MemoryPtr, in.MemoryPtr) || out.MemoryHash != in.MemoryHash {
		t.Error("memory fields did not round-trip")
	}
	if out.CardURI != in.CardURI || out.CardHash != in.CardHash {
		t.Error("card fields did not round-trip")
	}
	if !out.Flags.Has(FlagActive) || !out.Flags.Has(FlagHasStaking) || out.Flags.Has(FlagLocked) {
		t.Errorf("flags did not round-trip: %v", out.Flags)
	}
	if out.Bump != in.Bump {
		t.Errorf("bump = %d, want %d", out.Bump, in.Bump)
	}
}

func TestAgentRecordZeroPadding(t *testing.T) {
	// Written bytes must equal read bytes with exact zero padding: a
	// short URI re-encoded after a longer one must not leak stale
	// bytes into the fixed field.
	rec := sampleAgent()
	rec.CardURI = "https://s.io"
	rec.MemoryMode = MemoryNone
	rec.MemoryPtr = nil
	rec.MemoryHash = [32]byte{}

	data, err := rec.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	again, err := DecodeAgentRecord(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	redata, err := again.Encode()
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if !bytes.Equal(data, redata) {
		t.Error("encode/decode/encode is not byte-identical")
	}

	// Memory pointer field (offset 67..163) must be all zero.
	for i := 67; i < 163; i++ {
		if data[i] != 0 {
			t.Fatalf("memory pointer byte %d = %#x, want 0", i, data[i])
		}
	}
}

func TestAgentRecordEncodeRejectsOversizeFields(t *testing.T) {
	rec := sampleAgent()
	rec.MemoryPtr = make([]byte, 97)
	if _, err := rec.Encode(); err == nil {
		t.Error("Encode accepted a 97-byte memory pointer")
	}

	rec = sampleAgent()
	rec.CardURI = string(make([]byte, 97))
	if _, err := rec.Encode(); err == nil {
		t.Error("Encode accepted a 97-byte card uri")
	}
}

func TestDecodeAgentRecordRejectsWrongSize(t *testing.T) {
	if _, err := DecodeAgentRecord(make([]byte, AgentRecordSize-1)); err == nil {
		t.Error("Decode accepted a short buffer")
	}
	if _, err := DecodeAgentRecord(make([]byte, AgentRecordSize+1)); err == nil {
		t.Error("Decode accepted a long buffer")
	}
}

func TestDecodeAgentRecordRejectsUnknownMode(t *testing.T) {
	rec := sampleAgent()
	data, err := rec.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data[65] = 9 // memoryMode byte
	if _, err := DecodeAgentRecord(data); err == nil {
		t.Error("Decode accepted an unknown memory mode")
	}
}
