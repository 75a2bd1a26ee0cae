// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool behind
// lib/store's persistent record store.
//
// It wraps zombiezen.com/go/sqlite with production defaults: WAL
// journal mode so readers never block the single writer, NORMAL
// synchronous for process-crash durability without fsync-per-commit
// overhead, and a busy timeout so concurrent writers wait instead of
// failing with SQLITE_BUSY. Callers [Pool.Take] a connection, do their
// work, and [Pool.Put] it back; connections are not safe for
// concurrent use by multiple goroutines.
//
// The package is intentionally thin: standard pragmas, a fixed-size
// pool, and the underlying zombiezen types exposed directly. Record
// storage writes plain SQL — there is no query builder and no ORM.
package sqlitepool
