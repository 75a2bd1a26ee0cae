// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roster-foundation/roster/lib/event"
	"github.com/roster-foundation/roster/lib/ref"
	"github.com/roster-foundation/roster/lib/schema"
	"github.com/roster-foundation/roster/lib/store"
)

// Config holds the collaborators for a [Registry]. Store is required;
// the rest default to no-op or real implementations.
type Config struct {
	// Store holds the agent records.
	Store store.Store

	// Events receives one event per successful mutation. Defaults to
	// event.Discard().
	Events event.Emitter

	// Logger receives operational messages. Defaults to a no-op
	// logger.
	Logger *slog.Logger
}

// Registry executes agent identity operations against a record store.
// Safe for concurrent use if its Store is.
type Registry struct {
	store  store.Store
	events event.Emitter
	logger *slog.Logger
}

// New creates a Registry. Returns an error if Config.Store is nil.
func New(cfg Config) (*Registry, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("registry: Store is required")
	}
	if cfg.Events == nil {
		cfg.Events = event.Discard()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		store:  cfg.Store,
		events: cfg.Events,
		logger: cfg.Logger,
	}, nil
}

// CreateAgentParams are the inputs to [Registry.CreateAgent].
type CreateAgentParams struct {
	// Creator is the caller's identity. It becomes both Creator and
	// initial Owner of the record, and seeds the record's address.
	Creator ref.ID

	// CardURI and CardHash reference the mandatory identity document.
	CardURI  string
	CardHash [32]byte

	// HasStaking sets the HAS_STAKING flag. Nil means true: most
	// agents want a pool, and the flag cannot be granted later.
	HasStaking *bool

	// MemoryMode, MemoryPtr, and MemoryHash optionally seed the memory
	// pointer. A nil MemoryMode leaves memory unset; a non-nil mode
	// requires a pointer, and creation accepts modes up to URL only
	// (Manifest requires a later SetMemory).
	MemoryMode *schema.MemoryMode
	MemoryPtr  []byte
	MemoryHash [32]byte
}

// CreateAgent creates the agent record for p.Creator and returns its
// derived address. The record starts ACTIVE and owned by its creator.
// A creator can hold at most one record: a second create fails with
// store.ErrRecordExists.
func (r *Registry) CreateAgent(ctx context.Context, p CreateAgentParams) (ref.ID, error) {
	if p.Creator.IsZero() {
		return ref.ID{}, fmt.Errorf("create agent: %w", schema.ErrUnauthorized)
	}
	if err := schema.ValidateCardURI(p.CardURI); err != nil {
		return ref.ID{}, fmt.Errorf("create agent: %w", err)
	}

	rec := schema.AgentRecord{
		Version:  schema.AgentRecordVersion,
		Creator:  p.Creator,
		Owner:    p.Creator,
		CardURI:  p.CardURI,
		CardHash: p.CardHash,
	}

	rec.Flags.Set(schema.FlagActive)
	if p.HasStaking == nil || *p.HasStaking {
		rec.Flags.Set(schema.FlagHasStaking)
	}

	switch {
	case p.MemoryMode != nil:
		// A mode with no pointer at all is a missing field, not a
		// pointer of the wrong length.
		if p.MemoryPtr == nil {
			return ref.ID{}, fmt.Errorf("create agent: memory mode without a pointer: %w", schema.ErrInvalidMemoryFields)
		}
		if err := schema.ValidateMemoryInit(*p.MemoryMode, p.MemoryPtr); err != nil {
			return ref.ID{}, fmt.Errorf("create agent: %w", err)
		}
		rec.MemoryMode = *p.MemoryMode
		rec.MemoryPtr = append([]byte(nil), p.MemoryPtr...)
		rec.MemoryHash = p.MemoryHash
	case len(p.MemoryPtr) != 0:
		return ref.ID{}, fmt.Errorf("create agent: memory pointer without a mode: %w", schema.ErrInvalidMemoryFields)
	}

	d := schema.AgentDerivation(p.Creator)
	rec.Bump = d.Bump()

	data, err := rec.Encode()
	if err != nil {
		return ref.ID{}, fmt.Errorf("create agent: %w", err)
	}
	if err := r.store.Create(ctx, store.Record{Address: d.Address(), Bump: d.Bump(), Data: data}); err != nil {
		return ref.ID{}, fmt.Errorf("create agent: %w", err)
	}

	r.events.Emit(ctx, schema.EventTypeAgentCreated, schema.AgentCreatedEvent{
		Creator: p.Creator,
		Owner:   p.Creator,
	})
	r.logger.InfoContext(ctx, "agent created",
		"agent", d.Address().Short(),
		"creator", p.Creator.Short(),
		"flags", rec.Flags.String(),
	)
	return d.Address(), nil
}

// GetAgent loads and validates the agent record at addr.
func (r *Registry) GetAgent(ctx context.Context, addr ref.ID) (*schema.AgentRecord, error) {
	rec, _, err := r.load(ctx, addr)
	return rec, err
}

// SetCard replaces the agent's identity document reference. Owner
// only.
func (r *Registry) SetCard(ctx context.Context, caller, agent ref.ID, uri string, hash [32]byte) error {
	rec, _, err := r.load(ctx, agent)
	if err != nil {
		return fmt.Errorf("set card: %w", err)
	}
	if err := authorize(caller, rec.Owner); err != nil {
		return fmt.Errorf("set card: %w", err)
	}
	if err := schema.ValidateCardURI(uri); err != nil {
		return fmt.Errorf("set card: %w", err)
	}

	rec.CardURI = uri
	rec.CardHash = hash
	if err := r.save(ctx, agent, rec); err != nil {
		return fmt.Errorf("set card: %w", err)
	}

	r.events.Emit(ctx, schema.EventTypeCardSet, schema.CardSetEvent{
		Creator:    rec.Creator,
		URIPreview: schema.Preview([]byte(uri)),
		CardHash:   hash,
	})
	r.logger.InfoContext(ctx, "agent card set", "agent", agent.Short())
	return nil
}

// SetMemory replaces the agent's memory pointer fields. Owner only,
// and rejected once the memory is locked. The mode/pointer/hash triple
// must form one of the accepted combinations; see
// [schema.ValidateMemoryUpdate].
func (r *Registry) SetMemory(ctx context.Context, caller, agent ref.ID, mode schema.MemoryMode, ptr []byte, hash [32]byte) error {
	rec, _, err := r.load(ctx, agent)
	if err != nil {
		return fmt.Errorf("set memory: %w", err)
	}
	if err := authorize(caller, rec.Owner); err != nil {
		return fmt.Errorf("set memory: %w", err)
	}
	if rec.Flags.Has(schema.FlagLocked) {
		return fmt.Errorf("set memory: %w", schema.ErrMemoryLocked)
	}
	if err := schema.ValidateMemoryUpdate(mode, ptr, hash); err != nil {
		return fmt.Errorf("set memory: %w", err)
	}

	rec.MemoryMode = mode
	rec.MemoryPtr = append([]byte(nil), ptr...)
	rec.MemoryHash = hash
	if err := r.save(ctx, agent, rec); err != nil {
		return fmt.Errorf("set memory: %w", err)
	}

	r.events.Emit(ctx, schema.EventTypeMemoryUpdated, schema.MemoryUpdatedEvent{
		Creator:    rec.Creator,
		Mode:       uint8(mode),
		PtrPreview: schema.Preview(ptr),
		Hash:       hash,
	})
	r.logger.InfoContext(ctx, "agent memory set", "agent", agent.Short(), "mode", mode.String())
	return nil
}

// LockMemory permanently freezes the agent's memory fields. Owner
// only. Idempotent: locking an already-locked record succeeds and
// emits again.
func (r *Registry) LockMemory(ctx context.Context, caller, agent ref.ID) error {
	rec, _, err := r.load(ctx, agent)
	if err != nil {
		return fmt.Errorf("lock memory: %w", err)
	}
	if err := authorize(caller, rec.Owner); err != nil {
		return fmt.Errorf("lock memory: %w", err)
	}

	rec.Flags.Set(schema.FlagLocked)
	if err := r.save(ctx, agent, rec); err != nil {
		return fmt.Errorf("lock memory: %w", err)
	}

	r.events.Emit(ctx, schema.EventTypeMemoryLocked, schema.MemoryLockedEvent{Creator: rec.Creator})
	r.logger.InfoContext(ctx, "agent memory locked", "agent", agent.Short())
	return nil
}

// SetActive sets or clears the ACTIVE flag. Owner only. The flag must
// be clear before the record can be closed.
func (r *Registry) SetActive(ctx context.Context, caller, agent ref.ID, active bool) error {
	rec, _, err := r.load(ctx, agent)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if err := authorize(caller, rec.Owner); err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	if active {
		rec.Flags.Set(schema.FlagActive)
	} else {
		rec.Flags.Clear(schema.FlagActive)
	}
	if err := r.save(ctx, agent, rec); err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	r.events.Emit(ctx, schema.EventTypeAgentActiveSet, schema.AgentActiveSetEvent{
		Creator:  rec.Creator,
		IsActive: active,
	})
	r.logger.InfoContext(ctx, "agent active set", "agent", agent.Short(), "active", active)
	return nil
}

// TransferOwner reassigns record control. Owner only; the new owner
// must be non-zero. Creator is never altered — the record's address
// stays a pure function of who created it.
func (r *Registry) TransferOwner(ctx context.Context, caller, agent, newOwner ref.ID) error {
	rec, _, err := r.load(ctx, agent)
	if err != nil {
		return fmt.Errorf("transfer owner: %w", err)
	}
	if err := authorize(caller, rec.Owner); err != nil {
		return fmt.Errorf("transfer owner: %w", err)
	}
	if newOwner.IsZero() {
		return fmt.Errorf("transfer owner: %w", schema.ErrInvalidOwner)
	}

	oldOwner := rec.Owner
	rec.Owner = newOwner
	if err := r.save(ctx, agent, rec); err != nil {
		return fmt.Errorf("transfer owner: %w", err)
	}

	r.events.Emit(ctx, schema.EventTypeOwnerTransferred, schema.OwnerTransferredEvent{
		Creator:  rec.Creator,
		OldOwner: oldOwner,
		NewOwner: newOwner,
	})
	r.logger.InfoContext(ctx, "agent owner transferred",
		"agent", agent.Short(),
		"old_owner", oldOwner.Short(),
		"new_owner", newOwner.Short(),
	)
	return nil
}

// CloseAgent destroys the record and credits its storage allowance to
// recipient. Owner only. Refused while the agent is ACTIVE or still
// has the HAS_STAKING flag — deactivate first, and staking-enabled
// agents cannot be closed at all (positions may reference the pool).
func (r *Registry) CloseAgent(ctx context.Context, caller, agent, recipient ref.ID) error {
	rec, _, err := r.load(ctx, agent)
	if err != nil {
		return fmt.Errorf("close agent: %w", err)
	}
	if err := authorize(caller, rec.Owner); err != nil {
		return fmt.Errorf("close agent: %w", err)
	}
	if rec.Flags.Has(schema.FlagActive) {
		return fmt.Errorf("close agent: %w", schema.ErrAgentActive)
	}
	if rec.Flags.Has(schema.FlagHasStaking) {
		return fmt.Errorf("close agent: %w", schema.ErrStakingEnabled)
	}

	if err := r.store.Delete(ctx, agent, recipient); err != nil {
		return fmt.Errorf("close agent: %w", err)
	}

	r.events.Emit(ctx, schema.EventTypeAgentClosed, schema.AgentClosedEvent{Creator: rec.Creator})
	r.logger.InfoContext(ctx, "agent closed", "agent", agent.Short(), "recipient", recipient.Short())
	return nil
}

// load fetches the record at addr, re-derives its address from the
// stored creator, and verifies the stored bump. A record that fails
// verification is treated as absent rather than trusted.
func (r *Registry) load(ctx context.Context, addr ref.ID) (*schema.AgentRecord, store.Record, error) {
	raw, err := r.store.Get(ctx, addr)
	if err != nil {
		return nil, store.Record{}, err
	}
	rec, err := schema.DecodeAgentRecord(raw.Data)
	if err != nil {
		return nil, store.Record{}, err
	}

	d := schema.AgentDerivation(rec.Creator)
	if d.Address() != addr {
		return nil, store.Record{}, fmt.Errorf("record at %s does not derive from its creator: %w", addr.Short(), store.ErrBumpMismatch)
	}
	if err := store.VerifyBump(raw, d); err != nil {
		return nil, store.Record{}, err
	}
	return rec, raw, nil
}

// save encodes and writes back a mutated record.
func (r *Registry) save(ctx context.Context, addr ref.ID, rec *schema.AgentRecord) error {
	data, err := rec.Encode()
	if err != nil {
		return err
	}
	return r.store.Update(ctx, store.Record{Address: addr, Bump: rec.Bump, Data: data})
}

// authorize checks that caller is the record owner.
func authorize(caller, owner ref.ID) error {
	if caller.IsZero() || caller != owner {
		return schema.ErrUnauthorized
	}
	return nil
}
