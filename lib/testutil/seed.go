// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"github.com/zeebo/blake3"

	"github.com/roster-foundation/roster/lib/ref"
)

// SeededID derives a stable 32-byte identity from a label. The same
// label always yields the same ID, distinct labels yield distinct IDs.
func SeededID(label string) ref.ID {
	return ref.ID(blake3.Sum256([]byte("roster.testutil.seed:" + label)))
}
