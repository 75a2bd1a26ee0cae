// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/roster-foundation/roster/lib/ref"
)

// Memory is an in-process Store. It is the implementation tests run
// against and the reference for the store contract.
//
// Memory is safe for concurrent use; a single mutex serializes all
// operations, which trivially satisfies the at-most-one-writer-per-
// address guarantee.
type Memory struct {
	mu      sync.Mutex
	records map[ref.ID]Record
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[ref.ID]Record)}
}

// Create implements Store.
func (m *Memory) Create(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.Address]; ok {
		return fmt.Errorf("create %s: %w", rec.Address.Short(), ErrRecordExists)
	}
	m.records[rec.Address] = cloneRecord(rec)
	return nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, addr ref.ID) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[addr]
	if !ok {
		return Record{}, fmt.Errorf("get %s: %w", addr.Short(), ErrRecordNotFound)
	}
	return cloneRecord(rec), nil
}

// Update implements Store.
func (m *Memory) Update(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.Address]; !ok {
		return fmt.Errorf("update %s: %w", rec.Address.Short(), ErrRecordNotFound)
	}
	m.records[rec.Address] = cloneRecord(rec)
	return nil
}

// Delete implements Store. The reclaim recipient is accepted and
// ignored: Memory holds no storage allowances.
func (m *Memory) Delete(_ context.Context, addr ref.ID, _ ref.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[addr]; !ok {
		return fmt.Errorf("delete %s: %w", addr.Short(), ErrRecordNotFound)
	}
	delete(m.records, addr)
	return nil
}

// Len returns the number of stored records. Test helper.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// cloneRecord copies the data slice so callers cannot mutate stored
// bytes (or see later mutations) through a retained slice.
func cloneRecord(rec Record) Record {
	rec.Data = append([]byte(nil), rec.Data...)
	return rec
}
