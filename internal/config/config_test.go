package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, "BTC", cfg.Input.Instrument)
	assert.Equal(t, "datasets/historical_data.csv", cfg.Input.TradesFile)
	assert.Equal(t, 1, cfg.Analysis.TopK)
	assert.InDelta(t, 0.55, cfg.Analysis.HighWinRate, 1e-9)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestDefaultMatchesLoadedDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	loaded, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, loaded, cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SENTRADE_INPUT_INSTRUMENT", "ETH")
	t.Setenv("SENTRADE_SERVER_PORT", "9191")

	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, "ETH", cfg.Input.Instrument)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentrade.yaml")
	content := `
input:
  instrument: SOL
  trades_file: /data/fills.xlsx
analysis:
  top_k: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "SOL", cfg.Input.Instrument)
	assert.Equal(t, "/data/fills.xlsx", cfg.Input.TradesFile)
	assert.Equal(t, 5, cfg.Analysis.TopK)
	// Defaults still fill the rest.
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentrade.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input:\n  instrument: SOL\n"), 0644))

	t.Setenv("SENTRADE_INPUT_INSTRUMENT", "ETH")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ETH", cfg.Input.Instrument)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty instrument", func(c *Config) { c.Input.Instrument = "" }},
		{"zero top_k", func(c *Config) { c.Analysis.TopK = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"inverted win-rate thresholds", func(c *Config) {
			c.Analysis.LowWinRate = 0.6
			c.Analysis.HighWinRate = 0.5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromFile("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
