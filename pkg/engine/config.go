package engine

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/layr-protocol/guardian-go/pkg/watchdog"
)

// Config errors.
var (
	// ErrNegativeLatency is returned for a negative resource latency.
	ErrNegativeLatency = errors.New("latencies must be non-negative")
)

// Config holds the engine's tunable parameters. Latencies are in ticks
// and model the completion delay of each external resource.
type Config struct {
	// WatchdogBudget is the authentication session budget in ticks.
	WatchdogBudget int `yaml:"watchdog_budget"`

	// BusLatency is the reader channel per-command latency.
	BusLatency int `yaml:"bus_latency"`

	// CryptoLatency is the AES engine per-block latency.
	CryptoLatency int `yaml:"crypto_latency"`

	// StoreLatency is the key store per-byte read latency.
	StoreLatency int `yaml:"store_latency"`

	// NonceLatency is the nonce source latency.
	NonceLatency int `yaml:"nonce_latency"`
}

// DefaultConfig returns the default engine parameters.
func DefaultConfig() Config {
	return Config{
		WatchdogBudget: watchdog.DefaultBudget,
		BusLatency:     0,
		CryptoLatency:  1,
		StoreLatency:   1,
		NonceLatency:   1,
	}
}

// LoadConfig reads a YAML config file, filling unset fields from the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the parameters for consistency.
func (c Config) Validate() error {
	if c.WatchdogBudget <= 0 {
		return watchdog.ErrInvalidBudget
	}
	if c.BusLatency < 0 || c.CryptoLatency < 0 || c.StoreLatency < 0 || c.NonceLatency < 0 {
		return ErrNegativeLatency
	}
	return nil
}
