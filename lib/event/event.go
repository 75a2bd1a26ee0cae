// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roster-foundation/roster/lib/codec"
)

// Emitter receives the event stream from the state core. Emit is
// best-effort: implementations log or buffer failures internally and
// never propagate them — a dropped event must not fail the operation
// that produced it.
//
// Implementations must be safe for concurrent use.
type Emitter interface {
	// Emit publishes one event. eventType is a stable dotted name
	// ("roster.staked"); payload is the matching lib/schema event
	// struct.
	Emit(ctx context.Context, eventType string, payload any)
}

// Discard returns an Emitter that drops everything. For callers that
// embed the core without an observer.
func Discard() Emitter {
	return discard{}
}

type discard struct{}

func (discard) Emit(context.Context, string, any) {}

// Slog is an Emitter that writes each event to a structured logger,
// with the payload rendered in CBOR diagnostic notation. This is the
// default production sink: the host's log becomes the event stream.
type Slog struct {
	logger *slog.Logger
}

// NewSlog returns an emitter writing to logger. A nil logger gets the
// slog default.
func NewSlog(logger *slog.Logger) *Slog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slog{logger: logger}
}

// Emit implements Emitter. Encoding failures are logged and the event
// dropped.
func (s *Slog) Emit(ctx context.Context, eventType string, payload any) {
	data, err := codec.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "event payload encoding failed",
			"event_type", eventType,
			"error", err,
		)
		return
	}
	rendered, err := codec.Diagnose(data)
	if err != nil {
		// Cannot happen for bytes we just encoded, but a hex dump is a
		// better fallback than losing the event.
		rendered = fmt.Sprintf("%x", data)
	}
	s.logger.InfoContext(ctx, "event",
		"event_type", eventType,
		"payload", rendered,
	)
}

// Recorded is one captured event, as seen by a [Collector].
type Recorded struct {
	Type    string
	Payload any
}

// Collector is an Emitter that records events in order. Test helper:
// operations assert on the sequence and contents of what they emitted.
type Collector struct {
	mu     sync.Mutex
	events []Recorded
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Emit implements Emitter.
func (c *Collector) Emit(_ context.Context, eventType string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, Recorded{Type: eventType, Payload: payload})
}

// Events returns a copy of the recorded sequence.
func (c *Collector) Events() []Recorded {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Recorded(nil), c.events...)
}

// Last returns the most recent event and true, or a zero Recorded and
// false if nothing has been emitted.
func (c *Collector) Last() (Recorded, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return Recorded{}, false
	}
	return c.events[len(c.events)-1], true
}

// Reset clears the recorded sequence.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}
