// Package config loads the statement-ledger YAML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the top-level statement-ledger.yaml structure.
type Config struct {
	// ValidityThreshold is the fraction of balance-checkable records that
	// must validate before a strategy's ledger is accepted.
	ValidityThreshold float64 `yaml:"validity_threshold"`
	// BalanceTolerance is the allowed absolute balance mismatch, in
	// currency units, as a decimal string ("0.01").
	BalanceTolerance string `yaml:"balance_tolerance"`
	// OpeningBalance optionally seeds the balance chain for documents
	// whose first row states no balance.
	OpeningBalance string `yaml:"opening_balance,omitempty"`
	// MinHeaderFields overrides the header-detection minimum.
	MinHeaderFields int `yaml:"min_header_fields,omitempty"`
	// FieldMaps holds per-issuer header alias overrides, merged over the
	// builtin tables: issuer key -> canonical field -> aliases.
	FieldMaps map[string]map[string][]string `yaml:"field_maps,omitempty"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		ValidityThreshold: 0.70,
		BalanceTolerance:  "0.01",
	}
}

// Load reads a YAML config file, applying defaults for absent keys.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Defaults()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects out-of-range knobs.
func (c Config) Validate() error {
	if c.ValidityThreshold < 0 || c.ValidityThreshold > 1 {
		return fmt.Errorf("validity_threshold %v outside [0,1]", c.ValidityThreshold)
	}
	tol, err := decimal.NewFromString(c.BalanceTolerance)
	if err != nil {
		return fmt.Errorf("balance_tolerance %q is not a decimal: %w", c.BalanceTolerance, err)
	}
	if tol.IsNegative() {
		return fmt.Errorf("balance_tolerance %q is negative", c.BalanceTolerance)
	}
	return nil
}

// Tolerance returns the balance tolerance as a decimal.
func (c Config) Tolerance() decimal.Decimal {
	tol, err := decimal.NewFromString(c.BalanceTolerance)
	if err != nil {
		return decimal.NewFromFloat(0.01)
	}
	return tol
}
