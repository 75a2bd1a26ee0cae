// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package staking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roster-foundation/roster/lib/clock"
	"github.com/roster-foundation/roster/lib/event"
	"github.com/roster-foundation/roster/lib/ref"
	"github.com/roster-foundation/roster/lib/schema"
	"github.com/roster-foundation/roster/lib/store"
	"github.com/roster-foundation/roster/lib/token"
)

// DefaultRentExemptMinimum is the native balance a staker must retain
// after paying a withdrawal fee. Matches the original deployment's
// storage-allowance floor for a zero-data account.
const DefaultRentExemptMinimum uint64 = 890_880

// Config holds the collaborators for a [Staking] service. Store,
// Tokens, and Native are required.
type Config struct {
	// Store holds pool, position, and fee-config records. Agent
	// records read during pool creation come from the same store.
	Store store.Store

	// Tokens is the ledger holding staker accounts and pool vaults.
	Tokens token.Ledger

	// Native is the balance system withdrawal fees are paid in.
	Native token.NativeLedger

	// Clock supplies stake timestamps. Defaults to clock.Real().
	Clock clock.Clock

	// Events receives one event per successful mutation. Defaults to
	// event.Discard().
	Events event.Emitter

	// Logger receives operational messages. Defaults to a no-op
	// logger.
	Logger *slog.Logger

	// RentExemptMinimum overrides DefaultRentExemptMinimum when
	// nonzero.
	RentExemptMinimum uint64
}

// Staking executes pool and position operations. Safe for concurrent
// use if its Store and ledgers are.
type Staking struct {
	store      store.Store
	tokens     token.Ledger
	native     token.NativeLedger
	clock      clock.Clock
	events     event.Emitter
	logger     *slog.Logger
	rentExempt uint64
}

// New creates a Staking service.
func New(cfg Config) (*Staking, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("staking: Store is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("staking: Tokens is required")
	}
	if cfg.Native == nil {
		return nil, fmt.Errorf("staking: Native is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Events == nil {
		cfg.Events = event.Discard()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.RentExemptMinimum == 0 {
		cfg.RentExemptMinimum = DefaultRentExemptMinimum
	}
	return &Staking{
		store:      cfg.Store,
		tokens:     cfg.Tokens,
		native:     cfg.Native,
		clock:      cfg.Clock,
		events:     cfg.Events,
		logger:     cfg.Logger,
		rentExempt: cfg.RentExemptMinimum,
	}, nil
}

// InitFeeConfigParams are the inputs to [Staking.InitFeeConfig]. Zero
// fee fields take the deployment defaults.
type InitFeeConfigParams struct {
	// Treasury receives every withdrawal fee. Required.
	Treasury ref.ID

	FeeImmediate         uint64
	FeeRegular           uint64
	FeeMax               uint64
	DecayDurationSeconds uint32
}

// InitFeeConfig creates the deployment-wide fee schedule singleton.
// A second call fails with store.ErrRecordExists.
func (s *Staking) InitFeeConfig(ctx context.Context, p InitFeeConfigParams) error {
	if p.Treasury.IsZero() {
		return fmt.Errorf("init fee config: treasury: %w", schema.ErrUnauthorized)
	}

	cfg := schema.FeeConfig{
		FeeImmediate:         p.FeeImmediate,
		FeeRegular:           p.FeeRegular,
		FeeMax:               p.FeeMax,
		DecayDurationSeconds: p.DecayDurationSeconds,
		Treasury:             p.Treasury,
	}
	if cfg.FeeImmediate == 0 {
		cfg.FeeImmediate = schema.DefaultFeeImmediate
	}
	if cfg.FeeRegular == 0 {
		cfg.FeeRegular = schema.DefaultFeeRegular
	}
	if cfg.FeeMax == 0 {
		cfg.FeeMax = schema.DefaultFeeMax
	}
	if cfg.DecayDurationSeconds == 0 {
		cfg.DecayDurationSeconds = schema.DefaultDecayDuration
	}

	d := schema.FeeConfigDerivation()
	cfg.Bump = d.Bump()
	data, err := cfg.Encode()
	if err != nil {
		return fmt.Errorf("init fee config: %w", err)
	}
	if err := s.store.Create(ctx, store.Record{Address: d.Address(), Bump: d.Bump(), Data: data}); err != nil {
		return fmt.Errorf("init fee config: %w", err)
	}

	s.events.Emit(ctx, schema.EventTypeFeeConfigInit, schema.FeeConfigInitializedEvent{
		Treasury:     cfg.Treasury,
		FeeImmediate: cfg.FeeImmediate,
		FeeRegular:   cfg.FeeRegular,
	})
	s.logger.InfoContext(ctx, "fee config initialized",
		"treasury", cfg.Treasury.Short(),
		"fee_immediate", cfg.FeeImmediate,
		"fee_regular", cfg.FeeRegular,
		"decay_seconds", cfg.DecayDurationSeconds,
	)
	return nil
}

// FeeConfig loads the fee schedule singleton.
func (s *Staking) FeeConfig(ctx context.Context) (*schema.FeeConfig, error) {
	d := schema.FeeConfigDerivation()
	raw, err := s.store.Get(ctx, d.Address())
	if err != nil {
		return nil, fmt.Errorf("fee config: %w", err)
	}
	if err := store.VerifyBump(raw, d); err != nil {
		return nil, fmt.Errorf("fee config: %w", err)
	}
	cfg, err := schema.DecodeFeeConfig(raw.Data)
	if err != nil {
		return nil, fmt.Errorf("fee config: %w", err)
	}
	return cfg, nil
}

// CreateStakingPool creates the pool bound to an agent record, along
// with its vault token account, and returns the pool's address. Only
// the agent's owner may create it, and only for agents carrying the
// HAS_STAKING flag. One pool per agent: a second create fails with
// store.ErrRecordExists.
func (s *Staking) CreateStakingPool(ctx context.Context, caller, agent, mint ref.ID, minStake uint64) (ref.ID, error) {
	rec, err := s.loadAgent(ctx, agent)
	if err != nil {
		return ref.ID{}, fmt.Errorf("create staking pool: %w", err)
	}
	if caller.IsZero() || caller != rec.Owner {
		return ref.ID{}, fmt.Errorf("create staking pool: %w", schema.ErrUnauthorized)
	}
	if !rec.Flags.Has(schema.FlagHasStaking) {
		return ref.ID{}, fmt.Errorf("create staking pool: %w", schema.ErrStakingNotEnabled)
	}
	if minStake == 0 {
		return ref.ID{}, fmt.Errorf("create staking pool: %w", schema.ErrInvalidMinStake)
	}

	poolDeriv := schema.PoolDerivation(agent)
	poolAddr := poolDeriv.Address()
	vaultDeriv := schema.VaultDerivation(poolAddr)
	vaultAddr := vaultDeriv.Address()

	pool := schema.NewStakingPool(agent, rec.Owner, mint, vaultAddr, minStake, s.clock.Now().Unix(), poolDeriv.Bump())
	data, err := pool.Encode()
	if err != nil {
		return ref.ID{}, fmt.Errorf("create staking pool: %w", err)
	}
	if err := s.store.Create(ctx, store.Record{Address: poolAddr, Bump: poolDeriv.Bump(), Data: data}); err != nil {
		return ref.ID{}, fmt.Errorf("create staking pool: %w", err)
	}

	// The vault is owned by the pool's derived address: deposits can
	// only leave through a withdrawal executed here. If the account
	// cannot be created, unwind the pool record.
	if err := s.tokens.CreateAccount(ctx, vaultAddr, poolAddr, mint); err != nil {
		if deleteErr := s.store.Delete(ctx, poolAddr, rec.Owner); deleteErr != nil {
			s.logger.ErrorContext(ctx, "pool unwind failed",
				"pool", poolAddr.Short(), "error", deleteErr)
		}
		return ref.ID{}, fmt.Errorf("create staking pool: vault: %w", err)
	}

	s.events.Emit(ctx, schema.EventTypePoolCreated, schema.PoolCreatedEvent{
		Agent:          agent,
		Owner:          rec.Owner,
		MinStakeAmount: minStake,
	})
	s.logger.InfoContext(ctx, "staking pool created",
		"agent", agent.Short(),
		"pool", poolAddr.Short(),
		"vault", vaultAddr.Short(),
		"min_stake", minStake,
	)
	return poolAddr, nil
}

// GetPool loads and validates the pool bound to an agent.
func (s *Staking) GetPool(ctx context.Context, agent ref.ID) (*schema.StakingPool, error) {
	pool, err := s.loadPool(ctx, agent)
	if err != nil {
		return nil, fmt.Errorf("get pool: %w", err)
	}
	return pool, nil
}

// UpdateMinStake changes a pool's first-stake minimum. Pool owner
// only; the new minimum must be positive. Existing positions are
// unaffected — the minimum gates first-time deposits only.
func (s *Staking) UpdateMinStake(ctx context.Context, caller, agent ref.ID, newMin uint64) error {
	pool, err := s.loadPool(ctx, agent)
	if err != nil {
		return fmt.Errorf("update min stake: %w", err)
	}
	if caller.IsZero() || caller != pool.Owner {
		return fmt.Errorf("update min stake: %w", schema.ErrUnauthorized)
	}
	if newMin == 0 {
		return fmt.Errorf("update min stake: %w", schema.ErrInvalidMinStake)
	}

	old := pool.MinStakeAmount
	pool.MinStakeAmount = newMin
	if err := s.savePool(ctx, agent, pool); err != nil {
		return fmt.Errorf("update min stake: %w", err)
	}

	s.events.Emit(ctx, schema.EventTypeMinStakeUpdated, schema.MinStakeUpdatedEvent{
		Agent:     agent,
		OldAmount: old,
		NewAmount: newMin,
	})
	s.logger.InfoContext(ctx, "pool min stake updated",
		"agent", agent.Short(), "old", old, "new", newMin)
	return nil
}

// InitStake creates the zeroed position for (staker, agent). The pool
// must exist. The position's StakedAt is set now and never reset, so
// the withdrawal-fee decay clock starts here. A second init fails
// with store.ErrRecordExists.
func (s *Staking) InitStake(ctx context.Context, staker, agent ref.ID) error {
	if staker.IsZero() {
		return fmt.Errorf("init stake: %w", schema.ErrUnauthorized)
	}
	if _, err := s.loadPool(ctx, agent); err != nil {
		return fmt.Errorf("init stake: %w", err)
	}

	d := schema.StakeDerivation(staker, agent)
	now := s.clock.Now().Unix()
	position := schema.StakePosition{
		Staker:        staker,
		AgentRef:      agent,
		StakedAt:      now,
		LastUpdatedAt: now,
		Bump:          d.Bump(),
	}
	data, err := position.Encode()
	if err != nil {
		return fmt.Errorf("init stake: %w", err)
	}
	if err := s.store.Create(ctx, store.Record{Address: d.Address(), Bump: d.Bump(), Data: data}); err != nil {
		return fmt.Errorf("init stake: %w", err)
	}

	s.logger.InfoContext(ctx, "stake position initialized",
		"staker", staker.Short(), "agent", agent.Short())
	return nil
}

// GetPosition loads and validates the (staker, agent) position.
func (s *Staking) GetPosition(ctx context.Context, staker, agent ref.ID) (*schema.StakePosition, error) {
	position, err := s.loadPosition(ctx, staker, agent)
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}
	return position, nil
}

// StakeParams are the inputs to [Staking.Stake].
type StakeParams struct {
	// Agent selects the pool.
	Agent ref.ID

	// From is the staker's token account, debited by Amount. The
	// staker must own it.
	From ref.ID

	// Vault must be the pool's vault; anything else is rejected with
	// ErrInvalidVault before any tokens move.
	Vault ref.ID

	Amount uint64
}

// Stake deposits tokens into the staker's position. The position must
// have been initialized. A deposit onto a zero balance is a first
// stake: it must meet the pool minimum and counts the staker; top-ups
// on a live position have no minimum.
func (s *Staking) Stake(ctx context.Context, staker ref.ID, p StakeParams) error {
	if staker.IsZero() {
		return fmt.Errorf("stake: %w", schema.ErrUnauthorized)
	}
	if p.Amount == 0 {
		return fmt.Errorf("stake: %w", schema.ErrInvalidStakeAmount)
	}

	pool, err := s.loadPool(ctx, p.Agent)
	if err != nil {
		return fmt.Errorf("stake: %w", err)
	}
	if p.Vault != pool.TokenVault {
		return fmt.Errorf("stake: %w", schema.ErrInvalidVault)
	}
	position, err := s.loadPosition(ctx, staker, p.Agent)
	if err != nil {
		return fmt.Errorf("stake: %w", err)
	}

	firstStake := position.StakedAmount == 0
	if firstStake && p.Amount < pool.MinStakeAmount {
		return fmt.Errorf("stake: amount %d, minimum %d: %w",
			p.Amount, pool.MinStakeAmount, schema.ErrBelowMinimumStake)
	}

	if err := s.tokens.Transfer(ctx, token.Signer(staker), p.From, p.Vault, p.Amount); err != nil {
		return fmt.Errorf("stake: %w", err)
	}

	now := s.clock.Now().Unix()
	position.StakedAmount = saturatingAdd(position.StakedAmount, p.Amount)
	position.LastUpdatedAt = now
	pool.TotalStaked = saturatingAdd(pool.TotalStaked, p.Amount)
	if firstStake {
		pool.StakerCount++
	}

	if err := s.savePosition(ctx, staker, p.Agent, position); err != nil {
		return fmt.Errorf("stake: %w", err)
	}
	if err := s.savePool(ctx, p.Agent, pool); err != nil {
		return fmt.Errorf("stake: %w", err)
	}

	s.events.Emit(ctx, schema.EventTypeStaked, schema.StakedEvent{
		Staker: staker,
		Agent:  p.Agent,
		Amount: p.Amount,
		Total:  position.StakedAmount,
	})
	s.logger.InfoContext(ctx, "staked",
		"staker", staker.Short(),
		"agent", p.Agent.Short(),
		"amount", p.Amount,
		"position_total", position.StakedAmount,
	)
	return nil
}

// WithdrawParams are the inputs to [Staking.WithdrawStake].
type WithdrawParams struct {
	// Agent selects the pool.
	Agent ref.ID

	// To is the token account credited with the full staked balance.
	To ref.ID

	// Vault must be the pool's vault.
	Vault ref.ID
}

// WithdrawStake withdraws the staker's entire staked balance and
// returns the amount withdrawn and the fee assessed. The fee, decayed
// from the first-stake time per the deployment fee schedule, is paid
// from the staker's native balance to the treasury; the withdrawal is
// refused if paying it would leave the staker below the rent-exempt
// minimum. The position survives with a zero balance and its original
// StakedAt.
func (s *Staking) WithdrawStake(ctx context.Context, staker ref.ID, p WithdrawParams) (amount, fee uint64, err error) {
	if staker.IsZero() {
		return 0, 0, fmt.Errorf("withdraw stake: %w", schema.ErrUnauthorized)
	}

	pool, err := s.loadPool(ctx, p.Agent)
	if err != nil {
		return 0, 0, fmt.Errorf("withdraw stake: %w", err)
	}
	if p.Vault != pool.TokenVault {
		return 0, 0, fmt.Errorf("withdraw stake: %w", schema.ErrInvalidVault)
	}
	position, err := s.loadPosition(ctx, staker, p.Agent)
	if err != nil {
		return 0, 0, fmt.Errorf("withdraw stake: %w", err)
	}
	if position.StakedAmount == 0 {
		return 0, 0, fmt.Errorf("withdraw stake: %w", schema.ErrNoStake)
	}
	feeConfig, err := s.FeeConfig(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("withdraw stake: %w", err)
	}

	now := s.clock.Now().Unix()
	elapsed := now - position.StakedAt
	fee, err = WithdrawalFee(elapsed, feeConfig)
	if err != nil {
		return 0, 0, fmt.Errorf("withdraw stake: %w", err)
	}
	amount = position.StakedAmount

	if fee > 0 {
		balance, err := s.native.NativeBalance(ctx, staker)
		if err != nil {
			return 0, 0, fmt.Errorf("withdraw stake: %w", err)
		}
		if balance < saturatingAdd(fee, s.rentExempt) {
			return 0, 0, fmt.Errorf("withdraw stake: balance %d, need %d fee plus %d reserve: %w",
				balance, fee, s.rentExempt, schema.ErrInsufficientFeeBalance)
		}
		if err := s.native.TransferNative(ctx, token.Signer(staker), staker, feeConfig.Treasury, fee); err != nil {
			return 0, 0, fmt.Errorf("withdraw stake: fee: %w", err)
		}
	}

	// The vault pays out under the pool's derived authority.
	poolDeriv := schema.PoolDerivation(p.Agent)
	if err := s.tokens.Transfer(ctx, token.Derived(poolDeriv), p.Vault, p.To, amount); err != nil {
		return 0, 0, fmt.Errorf("withdraw stake: %w", err)
	}

	position.StakedAmount = 0
	position.LastUpdatedAt = now
	pool.TotalStaked = saturatingSub(pool.TotalStaked, amount)

	if err := s.savePosition(ctx, staker, p.Agent, position); err != nil {
		return 0, 0, fmt.Errorf("withdraw stake: %w", err)
	}
	if err := s.savePool(ctx, p.Agent, pool); err != nil {
		return 0, 0, fmt.Errorf("withdraw stake: %w", err)
	}

	s.events.Emit(ctx, schema.EventTypeWithdrawn, schema.WithdrawnEvent{
		Staker: staker,
		Agent:  p.Agent,
		Amount: amount,
		Fee:    fee,
	})
	s.logger.InfoContext(ctx, "stake withdrawn",
		"staker", staker.Short(),
		"agent", p.Agent.Short(),
		"amount", amount,
		"fee", fee,
	)
	return amount, fee, nil
}

// loadAgent fetches and verifies the agent record backing a pool
// operation.
func (s *Staking) loadAgent(ctx context.Context, agent ref.ID) (*schema.AgentRecord, error) {
	raw, err := s.store.Get(ctx, agent)
	if err != nil {
		return nil, err
	}
	rec, err := schema.DecodeAgentRecord(raw.Data)
	if err != nil {
		return nil, err
	}
	d := schema.AgentDerivation(rec.Creator)
	if d.Address() != agent {
		return nil, fmt.Errorf("record at %s does not derive from its creator: %w", agent.Short(), store.ErrBumpMismatch)
	}
	if err := store.VerifyBump(raw, d); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Staking) loadPool(ctx context.Context, agent ref.ID) (*schema.StakingPool, error) {
	d := schema.PoolDerivation(agent)
	raw, err := s.store.Get(ctx, d.Address())
	if err != nil {
		return nil, err
	}
	if err := store.VerifyBump(raw, d); err != nil {
		return nil, err
	}
	pool, err := schema.DecodeStakingPool(raw.Data)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func (s *Staking) savePool(ctx context.Context, agent ref.ID, pool *schema.StakingPool) error {
	data, err := pool.Encode()
	if err != nil {
		return err
	}
	addr := schema.PoolDerivation(agent).Address()
	return s.store.Update(ctx, store.Record{Address: addr, Bump: pool.Bump, Data: data})
}

func (s *Staking) loadPosition(ctx context.Context, staker, agent ref.ID) (*schema.StakePosition, error) {
	d := schema.StakeDerivation(staker, agent)
	raw, err := s.store.Get(ctx, d.Address())
	if err != nil {
		return nil, err
	}
	if err := store.VerifyBump(raw, d); err != nil {
		return nil, err
	}
	position, err := schema.DecodeStakePosition(raw.Data)
	if err != nil {
		return nil, err
	}
	return position, nil
}

func (s *Staking) savePosition(ctx context.Context, staker, agent ref.ID, position *schema.StakePosition) error {
	data, err := position.Encode()
	if err != nil {
		return err
	}
	addr := schema.StakeDerivation(staker, agent).Address()
	return s.store.Update(ctx, store.Record{Address: addr, Bump: position.Bump, Data: data})
}

// saturatingAdd returns a+b, clamped at the uint64 maximum.
func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

// saturatingSub returns a-b, clamped at zero.
func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
