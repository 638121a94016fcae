package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/golc/internal/combo"
	"github.com/alexiusacademia/golc/internal/schema"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "golc.yaml"

// Config holds all golc configuration.
type Config struct {
	// Table layout: column, wall or reaction
	Mode string `yaml:"mode"`

	// Duplicate (entity, case) rows: mean, last, sum or reject
	Duplicates string `yaml:"duplicates"`

	// Fail when a load case is absent instead of zero-filling it
	RequireCases bool `yaml:"require_cases"`

	// Fractional digits accepted in factor strings
	FactorDecimals int `yaml:"factor_decimals"`

	Underground UndergroundConfig `yaml:"underground"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// UndergroundConfig holds the defaults of the underground floor derivation.
type UndergroundConfig struct {
	Label   string            `yaml:"label"`
	Factors map[string]string `yaml:"factors"` // case -> factor, e.g. Dead: "1.0"
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Mode:           string(schema.ModeColumn),
		Duplicates:     string(combo.DuplicatesMean),
		FactorDecimals: combo.DefaultFactorDecimals,
		Underground: UndergroundConfig{
			Label: combo.DefaultBasisLabel,
			Factors: map[string]string{
				"Dead": "1.0",
				"SDL":  "1.0",
				"Live": "1.0",
			},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file. Fields omitted from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := schema.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := combo.ParseDuplicatePolicy(c.Duplicates); err != nil {
		return err
	}
	if c.FactorDecimals < 0 || c.FactorDecimals > 10 {
		return fmt.Errorf("factor_decimals must be between 0 and 10, got %d", c.FactorDecimals)
	}
	if _, err := c.UndergroundFactors(); err != nil {
		return fmt.Errorf("underground.factors: %w", err)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	return nil
}

// Schema returns the schema of the configured mode.
func (c *Config) Schema() (schema.Schema, error) {
	m, err := schema.ParseMode(c.Mode)
	if err != nil {
		return schema.Schema{}, err
	}
	return schema.For(m)
}

// ReshapeOptions builds engine options from the configuration.
func (c *Config) ReshapeOptions() (combo.ReshapeOptions, error) {
	policy, err := combo.ParseDuplicatePolicy(c.Duplicates)
	if err != nil {
		return combo.ReshapeOptions{}, err
	}
	return combo.ReshapeOptions{Duplicates: policy, RequireCases: c.RequireCases}, nil
}

// UndergroundFactors parses the configured underground factors.
func (c *Config) UndergroundFactors() (combo.Factors, error) {
	return combo.ParseFactorMap(c.Underground.Factors, c.FactorDecimals)
}
