package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"brokersim/market"
)

// Config represents the complete simulation configuration
type Config struct {
	Market    MarketConfig    `json:"market" yaml:"market"`
	Ledger    LedgerConfig    `json:"ledger" yaml:"ledger"`
	Broadcast BroadcastConfig `json:"broadcast" yaml:"broadcast"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
}

// MarketConfig contains price generation parameters
type MarketConfig struct {
	TickInterval    string             `json:"tick_interval" yaml:"tick_interval"`
	HistoryCapacity int                `json:"history_capacity" yaml:"history_capacity"`
	SMAWindow       int                `json:"sma_window" yaml:"sma_window"`
	DriftPerMille   float64            `json:"drift_per_mille" yaml:"drift_per_mille"`
	PriceFloor      float64            `json:"price_floor" yaml:"price_floor"`
	Seed            int64              `json:"seed,omitempty" yaml:"seed,omitempty"`
	InitialPrices   map[string]float64 `json:"initial_prices,omitempty" yaml:"initial_prices,omitempty"`
}

// Interval converts the tick interval string to a time.Duration
func (m MarketConfig) Interval() (time.Duration, error) {
	if m.TickInterval == "" {
		return time.Second, nil
	}
	return time.ParseDuration(m.TickInterval)
}

// LedgerConfig contains account parameters
type LedgerConfig struct {
	ReferenceCost float64         `json:"reference_cost" yaml:"reference_cost"`
	StartingCash  float64         `json:"starting_cash" yaml:"starting_cash"`
	Accounts      []AccountConfig `json:"accounts,omitempty" yaml:"accounts,omitempty"`
}

// AccountConfig is one seeded demo account
type AccountConfig struct {
	UserID   string         `json:"user_id" yaml:"user_id"`
	Cash     float64        `json:"cash" yaml:"cash"`
	Holdings map[string]int `json:"holdings,omitempty" yaml:"holdings,omitempty"`
}

// BroadcastConfig contains fan-out parameters
type BroadcastConfig struct {
	BufferSize int `json:"buffer_size" yaml:"buffer_size"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "memory"
	OrdersFile string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.Market.Interval(); err != nil {
		return fmt.Errorf("market.tick_interval: %w", err)
	}
	if c.Market.HistoryCapacity <= 0 {
		return fmt.Errorf("market.history_capacity must be positive")
	}
	if c.Market.SMAWindow <= 0 {
		return fmt.Errorf("market.sma_window must be positive")
	}
	if c.Market.SMAWindow > c.Market.HistoryCapacity {
		return fmt.Errorf("market.sma_window cannot exceed history_capacity")
	}
	if c.Market.DriftPerMille <= 0 {
		return fmt.Errorf("market.drift_per_mille must be positive")
	}
	if c.Market.PriceFloor <= 0 {
		return fmt.Errorf("market.price_floor must be positive")
	}
	for sym, price := range c.Market.InitialPrices {
		if !market.Supported(sym) {
			return fmt.Errorf("unknown instrument in initial_prices: %s", sym)
		}
		if price < c.Market.PriceFloor {
			return fmt.Errorf("initial price for %s below floor", sym)
		}
	}
	if c.Ledger.ReferenceCost <= 0 {
		return fmt.Errorf("ledger.reference_cost must be positive")
	}
	if c.Ledger.StartingCash < 0 {
		return fmt.Errorf("ledger.starting_cash cannot be negative")
	}
	for i, acct := range c.Ledger.Accounts {
		if acct.UserID == "" {
			return fmt.Errorf("ledger.accounts[%d].user_id is required", i)
		}
		if acct.Cash < 0 {
			return fmt.Errorf("ledger.accounts[%d].cash cannot be negative", i)
		}
		for sym, qty := range acct.Holdings {
			if !market.Supported(sym) {
				return fmt.Errorf("ledger.accounts[%d] holds unknown instrument %s", i, sym)
			}
			if qty <= 0 {
				return fmt.Errorf("ledger.accounts[%d] holds %d %s", i, qty, sym)
			}
		}
	}
	if c.Broadcast.BufferSize <= 0 {
		return fmt.Errorf("broadcast.buffer_size must be positive")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.OrdersFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal orders_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "memory":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'memory'")
	}
	return nil
}

// Default returns a configuration with sensible defaults, including
// the two demo accounts the simulation ships with.
func Default() *Config {
	return &Config{
		Market: MarketConfig{
			TickInterval:    "1s",
			HistoryCapacity: market.DefaultHistoryCapacity,
			SMAWindow:       20,
			DriftPerMille:   1.0,
			PriceFloor:      market.DefaultPriceFloor,
		},
		Ledger: LedgerConfig{
			ReferenceCost: 400.0,
			StartingCash:  100000,
			Accounts: []AccountConfig{
				{
					UserID:   "user1@example.com",
					Cash:     50000,
					Holdings: map[string]int{"GOOG": 10, "TSLA": 5},
				},
				{
					UserID:   "user2@example.com",
					Cash:     75000,
					Holdings: map[string]int{"META": 15, "NVDA": 3},
				},
			},
		},
		Broadcast: BroadcastConfig{
			BufferSize: 8,
		},
		Journal: JournalConfig{
			Type: "memory",
		},
	}
}
