package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-sales-lab/internal/recommendation"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Online Retail", cfg.Sheet)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Concurrent)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("RETAIL_POSTGRES_DSN", "postgres://u:p@localhost:5432/retail")
	t.Setenv("RETAIL_CONCURRENT", "true")
	t.Setenv("RETAIL_OUTPUT_DIR", "/tmp/out")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost:5432/retail", cfg.PostgresDSN)
	assert.True(t, cfg.Concurrent)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("RETAIL_CONCURRENT", "maybe")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("RETAIL_SHEET=Year 2010-2011\nRETAIL_LOG_LEVEL=debug\n"), 0o644))

	// Existing variables are not overridden.
	t.Setenv("RETAIL_LOG_LEVEL", "warn")
	// Registers cleanup so the value loaded from the file does not leak.
	t.Setenv("RETAIL_SHEET", "")
	require.NoError(t, os.Unsetenv("RETAIL_SHEET"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Year 2010-2011", cfg.Sheet)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadPolicy_Defaults(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, recommendation.DefaultPolicy(), p)
}

func TestLoadPolicy_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retention_uplift: 0.30\ndiscontinue_fraction: 0.05\n"), 0o644))

	t.Setenv("RETAIL_POLICY_DISCONTINUE_FRACTION", "0.15")

	p, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, 0.30, p.RetentionUplift)
	assert.Equal(t, 0.15, p.DiscontinueFraction)
	assert.Equal(t, 0.22, p.TotalImprovementPotential)
}

func TestLoadPolicy_InvalidEnv(t *testing.T) {
	t.Setenv("RETAIL_POLICY_LOW_PERFORMER_FRACTION", "1.5")

	_, err := LoadPolicy("")
	assert.ErrorIs(t, err, recommendation.ErrInvalidPolicy)
}
