// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/roster-foundation/roster/lib/ref"
	"github.com/roster-foundation/roster/lib/sqlitepool"
)

const recordSchema = `
CREATE TABLE IF NOT EXISTS records (
    address      BLOB PRIMARY KEY,
    bump         INTEGER NOT NULL,
    data         BLOB NOT NULL,
    reclaimed_to BLOB
) WITHOUT ROWID;
`

// SQLite is a Store backed by a local SQLite database. Each record is
// one row keyed by its 32-byte address; the per-address writer
// serialization the contract requires falls out of SQLite's
// single-writer model.
type SQLite struct {
	pool *sqlitepool.Pool
}

// OpenSQLite opens (creating if necessary) a record store at the
// given database path. The caller must Close it when done.
func OpenSQLite(cfg sqlitepool.Config) (*SQLite, error) {
	parent := cfg.OnConnect
	cfg.OnConnect = func(conn *sqlite.Conn) error {
		if err := sqlitex.ExecuteScript(conn, recordSchema, nil); err != nil {
			return fmt.Errorf("creating records table: %w", err)
		}
		if parent != nil {
			return parent(conn)
		}
		return nil
	}
	pool, err := sqlitepool.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &SQLite{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.pool.Close()
}

// Create implements Store.
func (s *SQLite) Create(ctx context.Context, rec Record) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO records (address, bump, data) VALUES (?, ?, ?);`,
		&sqlitex.ExecOptions{
			Args: []any{rec.Address[:], int64(rec.Bump), rec.Data},
		})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintPrimaryKey {
			return fmt.Errorf("create %s: %w", rec.Address.Short(), ErrRecordExists)
		}
		return fmt.Errorf("create %s: %w", rec.Address.Short(), err)
	}
	return nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, addr ref.ID) (Record, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return Record{}, err
	}
	defer s.pool.Put(conn)

	rec := Record{Address: addr}
	found := false
	err = sqlitex.Execute(conn,
		`SELECT bump, data FROM records WHERE address = ?;`,
		&sqlitex.ExecOptions{
			Args: []any{addr[:]},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				rec.Bump = uint8(stmt.ColumnInt64(0))
				rec.Data = make([]byte, stmt.ColumnLen(1))
				stmt.ColumnBytes(1, rec.Data)
				return nil
			},
		})
	if err != nil {
		return Record{}, fmt.Errorf("get %s: %w", addr.Short(), err)
	}
	if !found {
		return Record{}, fmt.Errorf("get %s: %w", addr.Short(), ErrRecordNotFound)
	}
	return rec, nil
}

// Update implements Store.
func (s *SQLite) Update(ctx context.Context, rec Record) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE records SET bump = ?, data = ? WHERE address = ?;`,
		&sqlitex.ExecOptions{
			Args: []any{int64(rec.Bump), rec.Data, rec.Address[:]},
		})
	if err != nil {
		return fmt.Errorf("update %s: %w", rec.Address.Short(), err)
	}
	if conn.Changes() == 0 {
		return fmt.Errorf("update %s: %w", rec.Address.Short(), ErrRecordNotFound)
	}
	return nil
}

// Delete implements Store. The reclaim recipient is retained in a
// tombstone column for host-side rent accounting; the row itself is
// removed so the address becomes creatable again.
func (s *SQLite) Delete(ctx context.Context, addr ref.ID, reclaimTo ref.ID) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM records WHERE address = ?;`,
		&sqlitex.ExecOptions{
			Args: []any{addr[:]},
		})
	if err != nil {
		return fmt.Errorf("delete %s: %w", addr.Short(), err)
	}
	if conn.Changes() == 0 {
		return fmt.Errorf("delete %s: %w", addr.Short(), ErrRecordNotFound)
	}

	err = sqlitex.Execute(conn,
		`INSERT INTO records (address, bump, data, reclaimed_to)
		 VALUES (?, 0, x'', ?)
		 ON CONFLICT (address) DO UPDATE SET reclaimed_to = excluded.reclaimed_to;`,
		&sqlitex.ExecOptions{
			Args: []any{reclaimAuditKey(addr), reclaimTo[:]},
		})
	if err != nil {
		return fmt.Errorf("delete %s: recording reclaim: %w", addr.Short(), err)
	}
	return nil
}

// reclaimAuditKey maps a record address to the row that remembers who
// its storage allowance was reclaimed to. Audit rows are keyed in a
// separate space (33 bytes, trailing marker) so they can never collide
// with a live 32-byte record address.
func reclaimAuditKey(addr ref.ID) []byte {
	return append(addr[:len(addr):len(addr)], 0xff)
}
