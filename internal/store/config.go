package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/curve"
	"bond-market-maker/internal/risk"
)

type Config struct {
	Curve       []curve.Point      `yaml:"curve" toml:"curve"`
	Book        BookConfig         `yaml:"book" toml:"book"`
	Instruments []InstrumentConfig `yaml:"instruments" toml:"instruments"`
	SeedTrades  []SeedTrade        `yaml:"seed_trades" toml:"seed_trades"`
	Stress      StressConfig       `yaml:"stress" toml:"stress"`
	Simulation  SimulationConfig   `yaml:"simulation" toml:"simulation"`
	Journal     JournalConfig      `yaml:"journal" toml:"journal"`
}

type BookConfig struct {
	RiskAversion float64 `yaml:"risk_aversion" toml:"risk_aversion" env:"BOOK_RISK_AVERSION"`
	BaseSpread   float64 `yaml:"base_spread" toml:"base_spread" env:"BOOK_BASE_SPREAD"`
	HalfSpread   float64 `yaml:"half_spread" toml:"half_spread" env:"BOOK_HALF_SPREAD"`
}

type InstrumentConfig struct {
	Kind      string  `yaml:"kind" toml:"kind"`
	Ticker    string  `yaml:"ticker" toml:"ticker"`
	Notional  float64 `yaml:"notional" toml:"notional"`
	Maturity  float64 `yaml:"maturity" toml:"maturity"`
	Coupon    float64 `yaml:"coupon" toml:"coupon"`
	Spread    float64 `yaml:"spread" toml:"spread"`
	Frequency int     `yaml:"frequency" toml:"frequency"`
}

// Spec converts the entry into a bond.Spec. Notional defaults to 100.
func (ic InstrumentConfig) Spec() (bond.Spec, error) {
	kind, err := bond.ParseKind(ic.Kind)
	if err != nil {
		return bond.Spec{}, err
	}
	notional := ic.Notional
	if notional == 0 {
		notional = 100
	}
	return bond.Spec{
		Kind:      kind,
		Ticker:    ic.Ticker,
		Notional:  notional,
		Maturity:  ic.Maturity,
		Coupon:    ic.Coupon,
		Spread:    ic.Spread,
		Frequency: ic.Frequency,
	}, nil
}

// SeedTrade opens inventory at startup. A zero Price trades at the model mid.
type SeedTrade struct {
	Ticker   string  `yaml:"ticker" toml:"ticker"`
	Quantity float64 `yaml:"quantity" toml:"quantity"`
	Price    float64 `yaml:"price" toml:"price"`
}

type StressConfig struct {
	Scenarios []risk.Scenario `yaml:"scenarios" toml:"scenarios"`
}

type SimulationConfig struct {
	Steps          int           `yaml:"steps" toml:"steps" env:"SIM_STEPS"`
	Instruments    int           `yaml:"instruments" toml:"instruments" env:"SIM_INSTRUMENTS"`
	Seed           uint64        `yaml:"seed" toml:"seed" env:"SIM_SEED"`
	StepInterval   time.Duration `yaml:"step_interval" toml:"step_interval" env:"SIM_STEP_INTERVAL"`
	ShockStdDevBps float64       `yaml:"shock_stddev_bps" toml:"shock_stddev_bps"`
	SizeMean       float64       `yaml:"size_mean" toml:"size_mean"`
	SizeStdDev     float64       `yaml:"size_stddev" toml:"size_stddev"`
}

type JournalConfig struct {
	Enabled       bool   `yaml:"enabled" toml:"enabled" env:"JOURNAL_ENABLED"`
	Dir           string `yaml:"dir" toml:"dir" env:"TRADER_LOG_DIR"`
	RetentionDays int    `yaml:"retention_days" toml:"retention_days" env:"TRADER_LOG_RETENTION_DAYS"`
}

// DefaultCurve is used when the config names no curve nodes.
func DefaultCurve() []curve.Point {
	return []curve.Point{
		{Tenor: 1, Rate: 0.03},
		{Tenor: 5, Rate: 0.04},
		{Tenor: 10, Rate: 0.05},
		{Tenor: 30, Rate: 0.055},
	}
}

func (c *Config) Validate() error {
	for _, p := range c.Curve {
		if p.Tenor <= 0 {
			return fmt.Errorf("curve tenor must be positive, got %v", p.Tenor)
		}
	}
	if c.Book.RiskAversion < 0 {
		return fmt.Errorf("book.risk_aversion must be >= 0, got %v", c.Book.RiskAversion)
	}
	if c.Book.BaseSpread < 0 || c.Book.HalfSpread < 0 {
		return errors.New("book spreads must be >= 0")
	}

	tickers := make(map[string]bool, len(c.Instruments))
	for i, ic := range c.Instruments {
		spec, err := ic.Spec()
		if err != nil {
			return fmt.Errorf("instruments[%d]: %w", i, err)
		}
		if _, err := bond.New(spec); err != nil {
			return fmt.Errorf("instruments[%d]: %w", i, err)
		}
		if tickers[ic.Ticker] {
			return fmt.Errorf("instruments[%d]: duplicate ticker '%s'", i, ic.Ticker)
		}
		tickers[ic.Ticker] = true
	}
	for i, st := range c.SeedTrades {
		if !tickers[st.Ticker] {
			return fmt.Errorf("seed_trades[%d]: ticker '%s' is not a configured instrument", i, st.Ticker)
		}
	}

	if c.Simulation.Steps < 0 || c.Simulation.Instruments < 0 {
		return errors.New("simulation.steps and simulation.instruments must be >= 0")
	}
	return nil
}

// BuildCurve returns the configured curve.
func (c *Config) BuildCurve() (*curve.Curve, error) {
	return curve.New(c.Curve...)
}

// BuildInstruments constructs every configured instrument in file order.
func (c *Config) BuildInstruments() ([]bond.Bond, error) {
	out := make([]bond.Bond, 0, len(c.Instruments))
	for i, ic := range c.Instruments {
		spec, err := ic.Spec()
		if err != nil {
			return nil, fmt.Errorf("instruments[%d]: %w", i, err)
		}
		b, err := bond.New(spec)
		if err != nil {
			return nil, fmt.Errorf("instruments[%d]: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// LoadConfig reads a YAML (.yaml/.yml) or TOML (.toml) file, fills defaults,
// applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(b), &c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	c.applyDefaults()

	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if len(c.Curve) == 0 {
		c.Curve = DefaultCurve()
	}
	if c.Book.RiskAversion == 0 {
		c.Book.RiskAversion = 0.01
	}
	if c.Book.BaseSpread == 0 {
		c.Book.BaseSpread = 0.10
	}
	if c.Book.HalfSpread == 0 {
		c.Book.HalfSpread = 0.05
	}
	if len(c.Stress.Scenarios) == 0 {
		c.Stress.Scenarios = []risk.Scenario{
			{Name: "rally_100", ShiftBps: -100},
			{Name: "rally_50", ShiftBps: -50},
			{Name: "selloff_50", ShiftBps: 50},
			{Name: "selloff_100", ShiftBps: 100},
		}
	}
	if c.Simulation.Steps == 0 {
		c.Simulation.Steps = 10
	}
	if c.Simulation.Instruments == 0 {
		c.Simulation.Instruments = 10
	}
	if c.Simulation.StepInterval == 0 {
		c.Simulation.StepInterval = 2 * time.Second
	}
	if c.Simulation.ShockStdDevBps == 0 {
		c.Simulation.ShockStdDevBps = 5
	}
	if c.Simulation.SizeMean == 0 {
		c.Simulation.SizeMean = 500
	}
	if c.Simulation.SizeStdDev == 0 {
		c.Simulation.SizeStdDev = 200
	}
	if c.Journal.Dir == "" {
		c.Journal.Dir = "logs"
	}
}
