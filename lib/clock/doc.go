// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the host clock for testability.
//
// Every operation in the state core reads the current time exactly
// once, at the start of the operation, through an injected [Clock].
// Production code injects [Real]; tests inject [Fake] and advance it
// explicitly. Nothing in the core sleeps, ticks, or schedules — time
// is an input, not a resource, so the interface is deliberately just
// Now.
package clock
