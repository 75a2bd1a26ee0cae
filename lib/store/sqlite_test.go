// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/roster-foundation/roster/lib/sqlitepool"
	"github.com/roster-foundation/roster/lib/testutil"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(sqlitepool.Config{
		Path:     filepath.Join(t.TempDir(), testutil.UniqueID("records")+".db"),
		PoolSize: 2,
	})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	rec := Record{Address: testID(t, 1), Bump: 253, Data: []byte{1, 2, 3}}
	if err := s.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Get(ctx, rec.Address)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Bump != rec.Bump {
		t.Errorf("Bump = %d, want %d", got.Bump, rec.Bump)
	}
	if string(got.Data) != string(rec.Data) {
		t.Errorf("Data = %v, want %v", got.Data, rec.Data)
	}
}

func TestSQLiteCreateCollision(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	rec := Record{Address: testID(t, 2), Data: []byte{1}}
	if err := s.Create(ctx, rec); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := s.Create(ctx, Record{Address: rec.Address, Data: []byte{2}})
	if !errors.Is(err, ErrRecordExists) {
		t.Fatalf("second Create error = %v, want ErrRecordExists", err)
	}
}

func TestSQLiteUpdate(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	addr := testID(t, 3)

	if err := s.Update(ctx, Record{Address: addr, Data: []byte{1}}); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("Update of absent record = %v, want ErrRecordNotFound", err)
	}

	if err := s.Create(ctx, Record{Address: addr, Bump: 250, Data: []byte{1}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Update(ctx, Record{Address: addr, Bump: 250, Data: []byte{9, 9}}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.Get(ctx, addr)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Data) != 2 || got.Data[0] != 9 {
		t.Errorf("Data = %v, want [9 9]", got.Data)
	}
}

func TestSQLiteDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	addr := testID(t, 4)

	if err := s.Delete(ctx, addr, testID(t, 5)); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("Delete of absent record = %v, want ErrRecordNotFound", err)
	}

	if err := s.Create(ctx, Record{Address: addr, Data: []byte{1}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, addr, testID(t, 5)); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, addr); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("Get after Delete = %v, want ErrRecordNotFound", err)
	}

	// The address is creatable again; the reclaim audit row lives in a
	// separate key space.
	if err := s.Create(ctx, Record{Address: addr, Data: []byte{7}}); err != nil {
		t.Fatalf("Create after Delete: %v", err)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), testutil.UniqueID("records")+".db")

	s, err := OpenSQLite(sqlitepool.Config{Path: path, PoolSize: 1})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	rec := Record{Address: testID(t, 6), Bump: 251, Data: []byte{4, 5, 6}}
	if err := s.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := OpenSQLite(sqlitepool.Config{Path: path, PoolSize: 1})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, rec.Address)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Bump != rec.Bump || string(got.Data) != string(rec.Data) {
		t.Errorf("record after reopen = %+v, want %+v", got, rec)
	}
}
