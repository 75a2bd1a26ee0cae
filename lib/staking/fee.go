// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package staking

import (
	"fmt"
	"math/bits"

	"github.com/roster-foundation/roster/lib/schema"
)

// WithdrawalFee computes the fee for a withdrawal elapsed seconds
// after the position's first stake.
//
// Inside the decay window the fee interpolates linearly from
// FeeImmediate at elapsed zero down to FeeRegular at the end of the
// window; at or past the window it is FeeRegular. The result is
// always capped at FeeMax. Negative elapsed (a host clock that moved
// backwards) is treated as zero, charging the full immediate fee
// rather than an unpredictable one.
//
// A zero decay duration fails with schema.ErrInvalidFeeConfig: such a
// schedule never leaves the store through InitFeeConfig, so hitting
// one means the record is corrupt and no fee can be trusted.
func WithdrawalFee(elapsed int64, cfg *schema.FeeConfig) (uint64, error) {
	duration := int64(cfg.DecayDurationSeconds)
	if duration <= 0 {
		return 0, fmt.Errorf("decay duration is %d seconds: %w", duration, schema.ErrInvalidFeeConfig)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= duration {
		return min(cfg.FeeRegular, cfg.FeeMax), nil
	}
	if cfg.FeeImmediate <= cfg.FeeRegular {
		// Inverted schedule; no decay to apply.
		return min(cfg.FeeImmediate, cfg.FeeMax), nil
	}

	// reduction = (FeeImmediate - FeeRegular) * elapsed / duration,
	// computed in 128 bits. elapsed < duration bounds the quotient
	// below 2^64 and the product's high word below the divisor, so
	// Div64 cannot overflow.
	span := cfg.FeeImmediate - cfg.FeeRegular
	hi, lo := bits.Mul64(span, uint64(elapsed))
	reduction, _ := bits.Div64(hi, lo, uint64(duration))
	return min(cfg.FeeImmediate-reduction, cfg.FeeMax), nil
}
