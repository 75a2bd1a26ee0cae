// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "strings"

// AgentFlag names one lifecycle capability of an agent record. The
// public API deals in named flags; the packed u32 representation is
// confined to the binary layout.
type AgentFlag uint32

const (
	// FlagActive marks the agent as live. Cleared via SetActive before
	// the record can be closed.
	FlagActive AgentFlag = 1 << 0

	// FlagLocked permanently freezes the memory fields. There is no
	// unlock operation.
	FlagLocked AgentFlag = 1 << 1

	// FlagHasStaking permits a staking pool to be bound to the agent.
	// Set only at creation.
	FlagHasStaking AgentFlag = 1 << 2
)

// String returns the flag's name.
func (f AgentFlag) String() string {
	switch f {
	case FlagActive:
		return "ACTIVE"
	case FlagLocked:
		return "LOCKED"
	case FlagHasStaking:
		return "HAS_STAKING"
	default:
		return "UNKNOWN"
	}
}

// AgentFlags is the set of lifecycle flags on an agent record. The
// zero value is the empty set.
type AgentFlags struct {
	bits uint32
}

// NewAgentFlags returns a set containing the given flags.
func NewAgentFlags(flags ...AgentFlag) AgentFlags {
	var s AgentFlags
	for _, f := range flags {
		s.Set(f)
	}
	return s
}

// Has reports whether f is in the set.
func (s AgentFlags) Has(f AgentFlag) bool { return s.bits&uint32(f) != 0 }

// Set adds f to the set.
func (s *AgentFlags) Set(f AgentFlag) { s.bits |= uint32(f) }

// Clear removes f from the set.
func (s *AgentFlags) Clear(f AgentFlag) { s.bits &^= uint32(f) }

// String returns the set in "ACTIVE|HAS_STAKING" form, or "none".
func (s AgentFlags) String() string {
	var names []string
	for _, f := range []AgentFlag{FlagActive, FlagLocked, FlagHasStaking} {
		if s.Has(f) {
			names = append(names, f.String())
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// packed returns the wire representation. Unknown bits written by a
// future version survive a decode/encode cycle untouched.
func (s AgentFlags) packed() uint32 { return s.bits }

// agentFlagsFromPacked restores a set from its wire representation.
func agentFlagsFromPacked(bits uint32) AgentFlags { return AgentFlags{bits: bits} }
