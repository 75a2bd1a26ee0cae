// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Roster packages.
//
// [SeededID] derives a stable identity from a label, so tests can name
// the identities they use ("alice", "treasury") and still get
// realistic 32-byte values that differ from each other. [UniqueID]
// generates monotonically increasing string identifiers for test
// disambiguation; use it instead of time.Now() when tests need
// distinguishable names.
//
// Helpers here have no Roster-internal dependencies beyond lib/ref.
package testutil
