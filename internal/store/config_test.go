package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
curve:
  - {tenor: 1, rate: 0.03}
  - {tenor: 5, rate: 0.04}
  - {tenor: 10, rate: 0.05}
book:
  risk_aversion: 0.02
  base_spread: 0.2
instruments:
  - {kind: VANILLA, ticker: UST5, notional: 100, maturity: 5, coupon: 0.04, frequency: 2}
  - {kind: ZERO, ticker: ZERO10, maturity: 10}
  - {kind: FRN, ticker: FRN3, notional: 100, maturity: 3, spread: 0.005, frequency: 4}
seed_trades:
  - {ticker: UST5, quantity: 250}
stress:
  scenarios:
    - {name: shock, shift_bps: 150}
simulation:
  steps: 25
  step_interval: 500ms
`

const sampleTOML = `
[book]
risk_aversion = 0.03

[[instruments]]
kind = "vanilla"
ticker = "UST2"
maturity = 2
coupon = 0.035
frequency = 2

[[seed_trades]]
ticker = "UST2"
quantity = -100
price = 99.5
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadConfigYAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.Curve) != 3 {
		t.Errorf("Expected 3 curve nodes, got %d", len(cfg.Curve))
	}
	if cfg.Book.RiskAversion != 0.02 {
		t.Errorf("Expected risk aversion 0.02, got %v", cfg.Book.RiskAversion)
	}
	if cfg.Book.HalfSpread != 0.05 {
		t.Errorf("Expected default half spread 0.05, got %v", cfg.Book.HalfSpread)
	}
	if cfg.Simulation.Steps != 25 {
		t.Errorf("Expected 25 simulation steps, got %d", cfg.Simulation.Steps)
	}
	if cfg.Simulation.StepInterval != 500*time.Millisecond {
		t.Errorf("Expected 500ms step interval, got %v", cfg.Simulation.StepInterval)
	}
	if len(cfg.Stress.Scenarios) != 1 || cfg.Stress.Scenarios[0].ShiftBps != 150 {
		t.Errorf("Expected the single configured scenario, got %+v", cfg.Stress.Scenarios)
	}

	bonds, err := cfg.BuildInstruments()
	if err != nil {
		t.Fatalf("BuildInstruments failed: %v", err)
	}
	if len(bonds) != 3 {
		t.Fatalf("Expected 3 instruments, got %d", len(bonds))
	}
	if bonds[1].Notional() != 100 {
		t.Errorf("Expected default notional 100 for ZERO10, got %v", bonds[1].Notional())
	}

	c, err := cfg.BuildCurve()
	if err != nil {
		t.Fatalf("BuildCurve failed: %v", err)
	}
	if r := c.Rate(3); r < 0.0349 || r > 0.0351 {
		t.Errorf("Expected interpolated rate 0.035, got %v", r)
	}
}

func TestLoadConfigTOMLWithDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.toml", sampleTOML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Book.RiskAversion != 0.03 {
		t.Errorf("Expected risk aversion 0.03, got %v", cfg.Book.RiskAversion)
	}
	if len(cfg.Curve) != len(DefaultCurve()) {
		t.Errorf("Expected default curve, got %d nodes", len(cfg.Curve))
	}
	if len(cfg.Stress.Scenarios) != 4 {
		t.Errorf("Expected 4 default scenarios, got %d", len(cfg.Stress.Scenarios))
	}
	if cfg.SeedTrades[0].Quantity != -100 || cfg.SeedTrades[0].Price != 99.5 {
		t.Errorf("Unexpected seed trade %+v", cfg.SeedTrades[0])
	}
	if cfg.Journal.Dir != "logs" {
		t.Errorf("Expected default journal dir 'logs', got %q", cfg.Journal.Dir)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("BOOK_RISK_AVERSION", "0.5")
	t.Setenv("SIM_STEPS", "3")
	t.Setenv("TRADER_LOG_DIR", "/tmp/fills")

	cfg, err := LoadConfig(writeConfig(t, "config.yml", sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Book.RiskAversion != 0.5 {
		t.Errorf("Expected env risk aversion 0.5, got %v", cfg.Book.RiskAversion)
	}
	if cfg.Simulation.Steps != 3 {
		t.Errorf("Expected env steps 3, got %d", cfg.Simulation.Steps)
	}
	if cfg.Journal.Dir != "/tmp/fills" {
		t.Errorf("Expected env journal dir, got %q", cfg.Journal.Dir)
	}
	if cfg.Book.BaseSpread != 0.2 {
		t.Errorf("Expected file base spread 0.2 to survive, got %v", cfg.Book.BaseSpread)
	}
}

func TestValidateRejectsBadInstruments(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			"zero frequency",
			"instruments:\n  - {kind: VANILLA, ticker: A, maturity: 5, coupon: 0.04, frequency: 0}\n",
			"frequency",
		},
		{
			"unknown kind",
			"instruments:\n  - {kind: SWAP, ticker: A, maturity: 5}\n",
			"unknown bond kind",
		},
		{
			"duplicate ticker",
			"instruments:\n  - {kind: ZERO, ticker: A, maturity: 5}\n  - {kind: ZERO, ticker: A, maturity: 7}\n",
			"duplicate ticker",
		},
		{
			"seed trade on unknown ticker",
			"instruments:\n  - {kind: ZERO, ticker: A, maturity: 5}\nseed_trades:\n  - {ticker: B, quantity: 10}\n",
			"not a configured instrument",
		},
		{
			"negative tenor",
			"curve:\n  - {tenor: -1, rate: 0.03}\n",
			"tenor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "config.yaml", tt.body))
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
