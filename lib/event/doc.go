// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package event carries the notification stream the state core emits
// alongside record mutations.
//
// Every successful operation emits exactly one event after its record
// writes commit. Events are advisory: they notify observers (indexers,
// UIs, the host's own log) but no state transition ever depends on
// one having been seen. The [Emitter] contract reflects that — Emit
// returns nothing, and a failing sink drops the event rather than
// failing the operation that produced it.
//
// Payloads are the structs in lib/schema (AgentCreatedEvent and
// friends), encoded deterministically with lib/codec so the same
// mutation always produces byte-identical event bytes.
package event
