package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// BROKERSIM_MARKET_TICKINTERVAL=250ms or BROKERSIM_JOURNAL_TYPE=sqlite.
const EnvPrefix = "brokersim"

// Load builds the effective configuration: the file at path (or the
// defaults when path is empty), then environment overrides on top.
func Load(path string) (*Config, error) {
	var cfg *Config
	var err error

	if path == "" {
		cfg = Default()
	} else {
		cfg, err = LoadFromFile(path)
		if err != nil {
			return nil, err
		}
	}

	// A .env file is optional; missing is not an error.
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
