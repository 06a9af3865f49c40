package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level ledgerstitch.yaml configuration.
type Config struct {
	Accounts   []BankAccount    `yaml:"accounts,omitempty"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Paths      PathsConfig      `yaml:"paths"`
}

// BankAccount maps an institution account identifier to a display name.
type BankAccount struct {
	Identifier string `yaml:"identifier"`
	Name       string `yaml:"name"`
	Bank       string `yaml:"bank"`
	LastFour   string `yaml:"last_four,omitempty"`
}

// ThresholdsConfig controls reconciliation strictness.
type ThresholdsConfig struct {
	// BalanceTolerance is the largest absolute delta still treated as a
	// matching balance. "0" means exact equality, the intended contract.
	BalanceTolerance string `yaml:"balance_tolerance"`
}

// PathsConfig locates the project's files.
type PathsConfig struct {
	RulesFile string `yaml:"rules_file"`
	OutputDir string `yaml:"output_dir"`
	LogsDir   string `yaml:"logs_dir"`
}

// Load reads a ledgerstitch.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Thresholds: ThresholdsConfig{
			BalanceTolerance: "0",
		},
		Paths: PathsConfig{
			RulesFile: "rules/categorisation-rules.yaml",
			OutputDir: "output",
			LogsDir:   "logs",
		},
	}
}

// Tolerance parses the configured balance tolerance.
func (c *Config) Tolerance() (decimal.Decimal, error) {
	if c.Thresholds.BalanceTolerance == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(c.Thresholds.BalanceTolerance)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing balance_tolerance: %w", err)
	}
	return d.Abs(), nil
}
