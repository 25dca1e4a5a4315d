package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the recognized tuning surface: per-kind pool settings plus
// logging and audio for the demo shell. No CLI; a single TOML file.
type Config struct {
	Pools   map[string]PoolConfig `toml:"pool"`
	Logging LoggingConfig         `toml:"logging"`
	Audio   AudioConfig           `toml:"audio"`
}

// PoolConfig tunes one actor kind
type PoolConfig struct {
	Warmup int     `toml:"warmup"` // pre-constructed instances, >= 0
	Radius float64 `toml:"radius"` // collision extent, > 0
	Life   float64 `toml:"life"`   // lifetime seconds, 0 = unbounded
	Max    int     `toml:"max"`    // construction cap, 0 = unbounded
}

type LoggingConfig struct {
	Level string `toml:"level"` // zap level name: debug, info, warn, error
	File  string `toml:"file"`  // log destination; the terminal belongs to tcell
}

type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in configuration used when no file is given
func Default() *Config {
	return &Config{
		Pools: map[string]PoolConfig{
			"bullet": {Warmup: 20, Radius: 0.3, Life: 2.5},
			"drone":  {Warmup: 10, Radius: 0.8},
		},
		Logging: LoggingConfig{Level: "info", File: "proxima.log"},
		Audio:   AudioConfig{Enabled: true},
	}
}

// Load reads and validates a TOML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pool manager would refuse at runtime
func (c *Config) Validate() error {
	if len(c.Pools) == 0 {
		return fmt.Errorf("config: no pool kinds defined")
	}
	for kind, pc := range c.Pools {
		if pc.Warmup < 0 {
			return fmt.Errorf("config: pool %q: warmup must be >= 0, got %d", kind, pc.Warmup)
		}
		if pc.Radius <= 0 {
			return fmt.Errorf("config: pool %q: radius must be > 0, got %g", kind, pc.Radius)
		}
		if pc.Life < 0 {
			return fmt.Errorf("config: pool %q: life must be >= 0, got %g", kind, pc.Life)
		}
		if pc.Max < 0 {
			return fmt.Errorf("config: pool %q: max must be >= 0, got %d", kind, pc.Max)
		}
	}
	return nil
}
