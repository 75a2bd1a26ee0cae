// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Roster deployments.
//
// Configuration is loaded from a single file specified by:
//   - ROSTER_CONFIG environment variable, or
//   - an explicit path passed to [LoadFile]
//
// There are no fallbacks or automatic discovery; the config file is the
// single source of truth and environment variables never override its
// values. Files ending in .json or .jsonc are parsed as JSON with
// comments, anything else as YAML.
//
// The file may contain environment-specific sections (development,
// staging, production) that override base values when the environment
// matches.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/roster-foundation/roster/lib/ref"
	"github.com/roster-foundation/roster/lib/schema"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for a Roster deployment.
type Config struct {
	// Environment identifies the deployment type.
	Environment Environment `yaml:"environment" json:"environment"`

	// Store configures the record store.
	Store StoreConfig `yaml:"store" json:"store"`

	// Fees configures the withdrawal fee schedule used when
	// initializing the fee config singleton.
	Fees FeeSchedule `yaml:"fees" json:"fees"`

	// EnvironmentOverrides contains per-environment overrides, applied
	// after the base config is loaded.
	Development *Overrides `yaml:"development,omitempty" json:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty" json:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty" json:"production,omitempty"`
}

// Overrides contains fields that can be overridden per environment.
type Overrides struct {
	Store *StoreConfig `yaml:"store,omitempty" json:"store,omitempty"`
	Fees  *FeeSchedule `yaml:"fees,omitempty" json:"fees,omitempty"`
}

// StoreConfig configures the record store.
type StoreConfig struct {
	// Path is the SQLite database path. Empty selects the in-memory
	// store.
	Path string `yaml:"path" json:"path"`

	// PoolSize is the SQLite connection pool size. Default: 4.
	PoolSize int `yaml:"pool_size" json:"pool_size"`
}

// FeeSchedule configures withdrawal fees, in native base units.
type FeeSchedule struct {
	// FeeImmediate is the fee for withdrawing the instant after
	// staking.
	FeeImmediate uint64 `yaml:"fee_immediate" json:"fee_immediate"`

	// FeeRegular is the steady-state fee after the decay window.
	FeeRegular uint64 `yaml:"fee_regular" json:"fee_regular"`

	// FeeMax caps the assessed fee.
	FeeMax uint64 `yaml:"fee_max" json:"fee_max"`

	// DecayDurationSeconds is the linear decay window.
	DecayDurationSeconds uint32 `yaml:"decay_duration_seconds" json:"decay_duration_seconds"`

	// Treasury is the hex-encoded identity receiving fees.
	Treasury string `yaml:"treasury" json:"treasury"`
}

// Default returns the default configuration: development environment,
// in-memory store, and the deployment-default fee schedule with no
// treasury (the treasury has no sensible default and must be
// configured).
func Default() *Config {
	return &Config{
		Environment: Development,
		Store: StoreConfig{
			PoolSize: 4,
		},
		Fees: FeeSchedule{
			FeeImmediate:         schema.DefaultFeeImmediate,
			FeeRegular:           schema.DefaultFeeRegular,
			FeeMax:               schema.DefaultFeeMax,
			DecayDurationSeconds: schema.DefaultDecayDuration,
		},
	}
}

// Load loads configuration from the path in the ROSTER_CONFIG
// environment variable. Fails if the variable is not set — there are
// no fallbacks.
func Load() (*Config, error) {
	path := os.Getenv("ROSTER_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("ROSTER_CONFIG environment variable not set; " +
			"set it to the path of your roster.yaml config file")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, applies
// environment-specific overrides, and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// jsonc strips comments and trailing commas; the result is
		// plain JSON, which the YAML parser accepts as a subset.
		data = jsonc.ToJSON(data)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Store != nil {
		if overrides.Store.Path != "" {
			c.Store.Path = overrides.Store.Path
		}
		if overrides.Store.PoolSize != 0 {
			c.Store.PoolSize = overrides.Store.PoolSize
		}
	}
	if overrides.Fees != nil {
		if overrides.Fees.FeeImmediate != 0 {
			c.Fees.FeeImmediate = overrides.Fees.FeeImmediate
		}
		if overrides.Fees.FeeRegular != 0 {
			c.Fees.FeeRegular = overrides.Fees.FeeRegular
		}
		if overrides.Fees.FeeMax != 0 {
			c.Fees.FeeMax = overrides.Fees.FeeMax
		}
		if overrides.Fees.DecayDurationSeconds != 0 {
			c.Fees.DecayDurationSeconds = overrides.Fees.DecayDurationSeconds
		}
		if overrides.Fees.Treasury != "" {
			c.Fees.Treasury = overrides.Fees.Treasury
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Fees.DecayDurationSeconds == 0 {
		errs = append(errs, fmt.Errorf("fees.decay_duration_seconds must be positive"))
	}
	if c.Fees.Treasury != "" {
		if _, err := c.TreasuryID(); err != nil {
			errs = append(errs, fmt.Errorf("fees.treasury: %w", err))
		}
	}
	if c.Store.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("store.pool_size must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// TreasuryID parses the configured treasury identity. Returns the zero
// ID when unconfigured.
func (c *Config) TreasuryID() (ref.ID, error) {
	if c.Fees.Treasury == "" {
		return ref.ID{}, nil
	}
	return ref.Parse(c.Fees.Treasury)
}
