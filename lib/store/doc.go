// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package store defines the keyed record store the state core writes
// through, and two implementations of it.
//
// The store is an external collaborator in the original deployment:
// records live at derived addresses, creation fails if the address is
// occupied, and the host serializes writers per address. The [Store]
// interface captures exactly that contract and nothing more — no
// scans, no queries, no transactions. [Memory] is the in-process
// implementation used by tests; [SQLite] persists records in a local
// database through lib/sqlitepool for hosts that embed the core
// directly.
package store
