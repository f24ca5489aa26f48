// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Calculator CalculatorConfig `toml:"calculator"`
	Rates      RatesConfig      `toml:"rates"`
	Log        LogConfig        `toml:"log"`
}

// CalculatorConfig maps calculator defaults.
type CalculatorConfig struct {
	Currency        *string  `toml:"currency"`
	Compounds       *int     `toml:"compounds"`
	MaxPaymentPct   *float64 `toml:"max-payment-pct"`
	EmergencyMonths *int     `toml:"emergency-months"`
}

// RatesConfig maps exchange-rate settings.
type RatesConfig struct {
	Endpoint        *string `toml:"endpoint"`
	Offline         *bool   `toml:"offline"`
	TimeoutSeconds  *int    `toml:"timeout-seconds"`
	CacheTTLMinutes *int    `toml:"cache-ttl-minutes"`
	RedisAddr       *string `toml:"redis-addr"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
