// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roster-foundation/roster/lib/schema"
)

const testTreasury = "0101010101010101010101010101010101010101010101010101010101010101"

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "roster.yaml", `
environment: development
store:
  path: /var/lib/roster/records.db
  pool_size: 8
fees:
  fee_immediate: 500
  fee_regular: 5
  treasury: "`+testTreasury+`"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Store.Path != "/var/lib/roster/records.db" || cfg.Store.PoolSize != 8 {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Fees.FeeImmediate != 500 || cfg.Fees.FeeRegular != 5 {
		t.Errorf("fees = %+v", cfg.Fees)
	}
	// Unset fields keep defaults.
	if cfg.Fees.FeeMax != schema.DefaultFeeMax {
		t.Errorf("FeeMax = %d, want default %d", cfg.Fees.FeeMax, schema.DefaultFeeMax)
	}
	if cfg.Fees.DecayDurationSeconds != schema.DefaultDecayDuration {
		t.Errorf("DecayDurationSeconds = %d, want default", cfg.Fees.DecayDurationSeconds)
	}

	treasury, err := cfg.TreasuryID()
	if err != nil {
		t.Fatalf("TreasuryID: %v", err)
	}
	if treasury.IsZero() {
		t.Error("treasury parsed to zero")
	}
}

func TestLoadFileJSONC(t *testing.T) {
	path := writeConfig(t, "roster.jsonc", `{
  // deployment fee schedule
  "environment": "development",
  "fees": {
    "fee_immediate": 42,
  },
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Fees.FeeImmediate != 42 {
		t.Errorf("FeeImmediate = %d, want 42", cfg.Fees.FeeImmediate)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "roster.yaml", `
environment: production
store:
  path: base.db
fees:
  fee_regular: 7
production:
  store:
    path: prod.db
  fees:
    fee_regular: 70
development:
  store:
    path: dev.db
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Store.Path != "prod.db" {
		t.Errorf("Store.Path = %q, want prod.db", cfg.Store.Path)
	}
	if cfg.Fees.FeeRegular != 70 {
		t.Errorf("FeeRegular = %d, want 70", cfg.Fees.FeeRegular)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bad environment",
			content: "environment: testing\n",
			want:    "invalid environment",
		},
		{
			name:    "zero decay",
			content: "fees:\n  decay_duration_seconds: 0\n",
			want:    "decay_duration_seconds",
		},
		{
			name:    "bad treasury",
			content: "fees:\n  treasury: not-hex\n",
			want:    "fees.treasury",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "roster.yaml", tt.content)
			_, err := LoadFile(path)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("LoadFile: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("LoadFile = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadRequiresEnvVar(t *testing.T) {
	t.Setenv("ROSTER_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load without ROSTER_CONFIG succeeded")
	}

	path := writeConfig(t, "roster.yaml", "environment: staging\n")
	t.Setenv("ROSTER_CONFIG", path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != Staging {
		t.Errorf("Environment = %q, want staging", cfg.Environment)
	}
}
