// Package config loads and saves the YAML run parameters the CLI needs
// to configure a dive: which M-value table mode to use, the starting
// breathing gas, and the planned maximum depth. The number of schedule
// stop slots is not configurable here; it is fixed by schedule.MaxStops.
// Grounded on the san-kum-dynsim example's internal/config
// package, which uses the same os.ReadFile/yaml.Unmarshal/os.WriteFile/
// yaml.Marshal round trip.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMValueMode = 0
	DefaultMaxDepth   = 30.0
	DefaultFO2        = 0.21
	DefaultFHe        = 0.0
	DefaultFH2        = 0.0
)

// Config is the full set of run parameters a CLI invocation needs.
type Config struct {
	MValueMode int       `yaml:"m_value_mode"`
	MaxDepth   float64   `yaml:"max_depth_msw"`
	Gas        GasConfig `yaml:"gas"`
}

// GasConfig is the starting breathing gas's fractional composition.
type GasConfig struct {
	FO2 float64 `yaml:"fo2"`
	FHe float64 `yaml:"fhe"`
	FH2 float64 `yaml:"fh2"`
}

// DefaultConfig returns a Config seeded with sane defaults: air, raw
// M-value table, a 30 msw planned depth.
func DefaultConfig() *Config {
	return &Config{
		MValueMode: DefaultMValueMode,
		MaxDepth:   DefaultMaxDepth,
		Gas: GasConfig{
			FO2: DefaultFO2,
			FHe: DefaultFHe,
			FH2: DefaultFH2,
		},
	}
}

// Load reads a YAML config file at path, starting from DefaultConfig so
// any field omitted from the file keeps its default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
