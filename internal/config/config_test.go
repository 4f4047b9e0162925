package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement-ledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.InDelta(t, 0.70, cfg.ValidityThreshold, 1e-9)
	assert.Equal(t, "0.01", cfg.BalanceTolerance)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
validity_threshold: 0.85
balance_tolerance: "0.05"
opening_balance: "1000.00"
min_header_fields: 3
field_maps:
  access:
    REMARKS:
      - "transaction remarks"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.85, cfg.ValidityThreshold, 1e-9)
	assert.Equal(t, "0.05", cfg.BalanceTolerance)
	assert.Equal(t, "1000.00", cfg.OpeningBalance)
	assert.Equal(t, 3, cfg.MinHeaderFields)
	require.Contains(t, cfg.FieldMaps, "access")
	assert.Equal(t, []string{"transaction remarks"}, cfg.FieldMaps["access"]["REMARKS"])
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "validity_threshold: 0.90\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.90, cfg.ValidityThreshold, 1e-9)
	assert.Equal(t, "0.01", cfg.BalanceTolerance)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults ok", func(*Config) {}, ""},
		{"threshold too high", func(c *Config) { c.ValidityThreshold = 1.5 }, "validity_threshold"},
		{"threshold negative", func(c *Config) { c.ValidityThreshold = -0.1 }, "validity_threshold"},
		{"tolerance not a number", func(c *Config) { c.BalanceTolerance = "cheap" }, "not a decimal"},
		{"tolerance negative", func(c *Config) { c.BalanceTolerance = "-0.01" }, "negative"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "validity_threshold: 2.0\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestTolerance(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "0.01", cfg.Tolerance().StringFixed(2))

	cfg.BalanceTolerance = "0.50"
	assert.Equal(t, "0.50", cfg.Tolerance().StringFixed(2))

	// Unparsable tolerance falls back rather than breaking validation.
	cfg.BalanceTolerance = "junk"
	assert.Equal(t, "0.01", cfg.Tolerance().StringFixed(2))
}
