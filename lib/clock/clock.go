// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock supplies the current time. Production code injects Real();
// tests inject Fake() with deterministic time control.
//
// Every function that needs wall-clock time should accept a Clock (or
// be a method on a struct with a Clock field) instead of calling
// time.Now directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
