// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/roster-foundation/roster/lib/event"
	"github.com/roster-foundation/roster/lib/ref"
	"github.com/roster-foundation/roster/lib/schema"
	"github.com/roster-foundation/roster/lib/store"
)

const testCardURI = "https://example.com/card.json"

func id(b byte) ref.ID {
	var out ref.ID
	for i := range out {
		out[i] = b
	}
	return out
}

func boolPtr(v bool) *bool { return &v }

type fixture struct {
	registry *Registry
	store    *store.Memory
	events   *event.Collector
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  store.NewMemory(),
		events: event.NewCollector(),
	}
	r, err := New(Config{Store: f.store, Events: f.events})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.registry = r
	return f
}

// createAgent makes a record for creator with default parameters and
// returns its address.
func (f *fixture) createAgent(t *testing.T, creator ref.ID, hasStaking bool) ref.ID {
	t.Helper()
	addr, err := f.registry.CreateAgent(context.Background(), CreateAgentParams{
		Creator:    creator,
		CardURI:    testCardURI,
		CardHash:   [32]byte{1},
		HasStaking: boolPtr(hasStaking),
	})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	return addr
}

func TestCreateAgent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	creator := id(1)

	addr, err := f.registry.CreateAgent(ctx, CreateAgentParams{
		Creator:  creator,
		CardURI:  testCardURI,
		CardHash: [32]byte{1},
	})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	if addr != schema.AgentDerivation(creator).Address() {
		t.Error("returned address is not the creator's derived address")
	}

	rec, err := f.registry.GetAgent(ctx, addr)
	if err != nil {
		t.Fatalf("GetAgent: %v", err)
	}
	if rec.Creator != creator || rec.Owner != creator {
		t.Errorf("Creator/Owner = %s/%s, want both %s", rec.Creator.Short(), rec.Owner.Short(), creator.Short())
	}
	if !rec.Flags.Has(schema.FlagActive) {
		t.Error("new agent is not ACTIVE")
	}
	// HasStaking defaults to true when unset.
	if !rec.Flags.Has(schema.FlagHasStaking) {
		t.Error("new agent does not default to HAS_STAKING")
	}
	if rec.MemoryMode != schema.MemoryNone {
		t.Errorf("MemoryMode = %v, want none", rec.MemoryMode)
	}

	last, ok := f.events.Last()
	if !ok || last.Type != schema.EventTypeAgentCreated {
		t.Errorf("last event = %+v, want %s", last, schema.EventTypeAgentCreated)
	}
}

func TestCreateAgentRejects(t *testing.T) {
	ctx := context.Background()
	manifest := schema.MemoryManifest
	cid := schema.MemoryCID

	tests := []struct {
		name    string
		params  CreateAgentParams
		wantErr error
	}{
		{
			name:    "zero creator",
			params:  CreateAgentParams{CardURI: testCardURI},
			wantErr: schema.ErrUnauthorized,
		},
		{
			name:    "empty card uri",
			params:  CreateAgentParams{Creator: id(1)},
			wantErr: schema.ErrInvalidLength,
		},
		{
			name:    "http card uri",
			params:  CreateAgentParams{Creator: id(1), CardURI: "http://example.com/card"},
			wantErr: schema.ErrInsecureURL,
		},
		{
			name: "manifest mode at creation",
			params: CreateAgentParams{
				Creator: id(1), CardURI: testCardURI,
				MemoryMode: &manifest, MemoryPtr: []byte("m"),
			},
			wantErr: schema.ErrInvalidMemoryFields,
		},
		{
			name: "memory pointer without mode",
			params: CreateAgentParams{
				Creator: id(1), CardURI: testCardURI,
				MemoryPtr: []byte("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"),
			},
			wantErr: schema.ErrInvalidMemoryFields,
		},
		{
			name: "mode without pointer",
			params: CreateAgentParams{
				Creator: id(1), CardURI: testCardURI,
				MemoryMode: &cid,
			},
			wantErr: schema.ErrInvalidMemoryFields,
		},
		{
			name: "mode with empty pointer",
			params: CreateAgentParams{
				Creator: id(1), CardURI: testCardURI,
				MemoryMode: &cid, MemoryPtr: []byte{},
			},
			wantErr: schema.ErrInvalidLength,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			_, err := f.registry.CreateAgent(ctx, tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateAgent = %v, want %v", err, tt.wantErr)
			}
			if f.store.Len() != 0 {
				t.Error("rejected creation left a record behind")
			}
		})
	}
}

func TestCreateAgentDuplicate(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.createAgent(t, id(1), true)

	_, err := f.registry.CreateAgent(ctx, CreateAgentParams{
		Creator: id(1), CardURI: testCardURI,
	})
	if !errors.Is(err, store.ErrRecordExists) {
		t.Fatalf("second CreateAgent = %v, want ErrRecordExists", err)
	}
}

func TestCreateAgentWithMemory(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	mode := schema.MemoryURL

	addr, err := f.registry.CreateAgent(ctx, CreateAgentParams{
		Creator:    id(1),
		CardURI:    testCardURI,
		MemoryMode: &mode,
		MemoryPtr:  []byte("https://example.com/memory"),
		MemoryHash: [32]byte{7},
	})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	rec, err := f.registry.GetAgent(ctx, addr)
	if err != nil {
		t.Fatalf("GetAgent: %v", err)
	}
	if rec.MemoryMode != schema.MemoryURL {
		t.Errorf("MemoryMode = %v, want url", rec.MemoryMode)
	}
	if string(rec.MemoryPtr) != "https://example.com/memory" {
		t.Errorf("MemoryPtr = %q", rec.MemoryPtr)
	}
	if rec.MemoryHash != ([32]byte{7}) {
		t.Error("MemoryHash not stored")
	}
}

func TestSetCard(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := id(1)
	agent := f.createAgent(t, owner, true)

	uri := "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	if err := f.registry.SetCard(ctx, owner, agent, uri, [32]byte{9}); err != nil {
		t.Fatalf("SetCard: %v", err)
	}
	rec, err := f.registry.GetAgent(ctx, agent)
	if err != nil {
		t.Fatalf("GetAgent: %v", err)
	}
	if rec.CardHash != ([32]byte{9}) {
		t.Error("CardHash not updated")
	}

	// The event carries a 32-byte excerpt of the URI, not the full
	// string — the record holds that.
	last, ok := f.events.Last()
	if !ok {
		t.Fatal("no event emitted")
	}
	payload, ok := last.Payload.(schema.CardSetEvent)
	if !ok {
		t.Fatalf("payload = %T, want CardSetEvent", last.Payload)
	}
	if payload.URIPreview != uri[:32] {
		t.Errorf("URIPreview = %q, want %q", payload.URIPreview, uri[:32])
	}

	// The card can never become empty or downgrade to http.
	if err := f.registry.SetCard(ctx, owner, agent, "", [32]byte{}); !errors.Is(err, schema.ErrInvalidLength) {
		t.Errorf("SetCard(empty) = %v, want ErrInvalidLength", err)
	}
	if err := f.registry.SetCard(ctx, owner, agent, "http://x.com/c", [32]byte{}); !errors.Is(err, schema.ErrInsecureURL) {
		t.Errorf("SetCard(http) = %v, want ErrInsecureURL", err)
	}
}

func TestSetCardUnauthorized(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	agent := f.createAgent(t, id(1), true)

	err := f.registry.SetCard(ctx, id(2), agent, testCardURI, [32]byte{})
	if !errors.Is(err, schema.ErrUnauthorized) {
		t.Fatalf("SetCard by non-owner = %v, want ErrUnauthorized", err)
	}
}

func TestSetMemory(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := id(1)
	agent := f.createAgent(t, owner, true)

	cid := []byte("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG")
	if err := f.registry.SetMemory(ctx, owner, agent, schema.MemoryCID, cid, [32]byte{}); err != nil {
		t.Fatalf("SetMemory(cid): %v", err)
	}
	rec, _ := f.registry.GetAgent(ctx, agent)
	if rec.MemoryMode != schema.MemoryCID || string(rec.MemoryPtr) != string(cid) {
		t.Errorf("memory after cid set = %v %q", rec.MemoryMode, rec.MemoryPtr)
	}

	// Manifest mode is reachable through update even though creation
	// refuses it.
	if err := f.registry.SetMemory(ctx, owner, agent, schema.MemoryManifest, []byte("manifest-ref"), [32]byte{3}); err != nil {
		t.Fatalf("SetMemory(manifest): %v", err)
	}

	// None clears everything.
	if err := f.registry.SetMemory(ctx, owner, agent, schema.MemoryNone, nil, [32]byte{}); err != nil {
		t.Fatalf("SetMemory(none): %v", err)
	}
	rec, _ = f.registry.GetAgent(ctx, agent)
	if rec.MemoryMode != schema.MemoryNone || len(rec.MemoryPtr) != 0 || rec.MemoryHash != ([32]byte{}) {
		t.Errorf("memory after clear = %v %q %v", rec.MemoryMode, rec.MemoryPtr, rec.MemoryHash)
	}

	last, ok := f.events.Last()
	if !ok || last.Type != schema.EventTypeMemoryUpdated {
		t.Errorf("last event = %+v, want %s", last, schema.EventTypeMemoryUpdated)
	}
}

func TestSetMemoryRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := id(1)
	agent := f.createAgent(t, owner, true)

	// CID mode with a hash set: content-addressed pointers carry no
	// separate hash.
	err := f.registry.SetMemory(ctx, owner, agent, schema.MemoryCID,
		[]byte("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"), [32]byte{1})
	if !errors.Is(err, schema.ErrInvalidMemoryFields) {
		t.Errorf("cid with hash = %v, want ErrInvalidMemoryFields", err)
	}

	err = f.registry.SetMemory(ctx, owner, agent, schema.MemoryURL, []byte("http://x.com"), [32]byte{1})
	if !errors.Is(err, schema.ErrInsecureURL) {
		t.Errorf("http url = %v, want ErrInsecureURL", err)
	}
}

func TestLockMemory(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := id(1)
	agent := f.createAgent(t, owner, true)

	if err := f.registry.LockMemory(ctx, owner, agent); err != nil {
		t.Fatalf("LockMemory: %v", err)
	}

	err := f.registry.SetMemory(ctx, owner, agent, schema.MemoryNone, nil, [32]byte{})
	if !errors.Is(err, schema.ErrMemoryLocked) {
		t.Fatalf("SetMemory after lock = %v, want ErrMemoryLocked", err)
	}

	// Locking again succeeds; the flag is one-way and already set.
	if err := f.registry.LockMemory(ctx, owner, agent); err != nil {
		t.Fatalf("second LockMemory: %v", err)
	}
	rec, _ := f.registry.GetAgent(ctx, agent)
	if !rec.Flags.Has(schema.FlagLocked) {
		t.Error("LOCKED flag not set")
	}

	// The lock does not freeze the card.
	if err := f.registry.SetCard(ctx, owner, agent, testCardURI, [32]byte{2}); err != nil {
		t.Errorf("SetCard after lock: %v", err)
	}
}

func TestSetActive(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := id(1)
	agent := f.createAgent(t, owner, true)

	if err := f.registry.SetActive(ctx, owner, agent, false); err != nil {
		t.Fatalf("SetActive(false): %v", err)
	}
	rec, _ := f.registry.GetAgent(ctx, agent)
	if rec.Flags.Has(schema.FlagActive) {
		t.Error("ACTIVE still set")
	}

	if err := f.registry.SetActive(ctx, owner, agent, true); err != nil {
		t.Fatalf("SetActive(true): %v", err)
	}
	rec, _ = f.registry.GetAgent(ctx, agent)
	if !rec.Flags.Has(schema.FlagActive) {
		t.Error("ACTIVE not restored")
	}
}

func TestTransferOwner(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	creator := id(1)
	next := id(2)
	agent := f.createAgent(t, creator, true)

	if err := f.registry.TransferOwner(ctx, creator, agent, next); err != nil {
		t.Fatalf("TransferOwner: %v", err)
	}
	rec, _ := f.registry.GetAgent(ctx, agent)
	if rec.Owner != next {
		t.Errorf("Owner = %s, want %s", rec.Owner.Short(), next.Short())
	}
	if rec.Creator != creator {
		t.Error("Creator changed on ownership transfer")
	}

	// The old owner has lost control; the new owner has it.
	if err := f.registry.SetActive(ctx, creator, agent, false); !errors.Is(err, schema.ErrUnauthorized) {
		t.Errorf("old owner mutation = %v, want ErrUnauthorized", err)
	}
	if err := f.registry.SetActive(ctx, next, agent, false); err != nil {
		t.Errorf("new owner mutation: %v", err)
	}
}

func TestTransferOwnerRejectsZero(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := id(1)
	agent := f.createAgent(t, owner, true)

	err := f.registry.TransferOwner(ctx, owner, agent, ref.ID{})
	if !errors.Is(err, schema.ErrInvalidOwner) {
		t.Fatalf("TransferOwner(zero) = %v, want ErrInvalidOwner", err)
	}
}

func TestCloseAgent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := id(1)
	agent := f.createAgent(t, owner, false)

	// Refused while ACTIVE.
	err := f.registry.CloseAgent(ctx, owner, agent, owner)
	if !errors.Is(err, schema.ErrAgentActive) {
		t.Fatalf("CloseAgent while active = %v, want ErrAgentActive", err)
	}

	if err := f.registry.SetActive(ctx, owner, agent, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if err := f.registry.CloseAgent(ctx, owner, agent, owner); err != nil {
		t.Fatalf("CloseAgent: %v", err)
	}
	if _, err := f.registry.GetAgent(ctx, agent); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("GetAgent after close = %v, want ErrRecordNotFound", err)
	}

	// The creator can re-register at the same derived address.
	if readdr := f.createAgent(t, owner, false); readdr != agent {
		t.Error("re-created agent landed at a different address")
	}
}

func TestCloseAgentRefusedWithStaking(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := id(1)
	agent := f.createAgent(t, owner, true)

	if err := f.registry.SetActive(ctx, owner, agent, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	err := f.registry.CloseAgent(ctx, owner, agent, owner)
	if !errors.Is(err, schema.ErrStakingEnabled) {
		t.Fatalf("CloseAgent with staking = %v, want ErrStakingEnabled", err)
	}
}

func TestOperationsOnMissingAgent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	absent := id(42)

	if _, err := f.registry.GetAgent(ctx, absent); !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("GetAgent = %v, want ErrRecordNotFound", err)
	}
	if err := f.registry.SetCard(ctx, id(1), absent, testCardURI, [32]byte{}); !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("SetCard = %v, want ErrRecordNotFound", err)
	}
}

func TestEventSequence(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := id(1)
	agent := f.createAgent(t, owner, true)

	if err := f.registry.SetCard(ctx, owner, agent, testCardURI, [32]byte{2}); err != nil {
		t.Fatalf("SetCard: %v", err)
	}
	if err := f.registry.LockMemory(ctx, owner, agent); err != nil {
		t.Fatalf("LockMemory: %v", err)
	}

	want := []string{
		schema.EventTypeAgentCreated,
		schema.EventTypeCardSet,
		schema.EventTypeMemoryLocked,
	}
	events := f.events.Events()
	if len(events) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, e.Type, want[i])
		}
	}

	// A failed operation emits nothing.
	f.events.Reset()
	if err := f.registry.SetCard(ctx, id(9), agent, testCardURI, [32]byte{}); err == nil {
		t.Fatal("expected failure")
	}
	if _, ok := f.events.Last(); ok {
		t.Error("failed operation emitted an event")
	}
}
