package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// =============================================================================
// Loading
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 3, c.Search.MinSeed)
	assert.False(t, c.Search.Dedup)
	assert.Equal(t, "text", c.Output.Format)
	assert.Equal(t, "auto", c.Output.Color)
	assert.False(t, c.Store.Enabled)
	assert.Equal(t, filepath.Join(".gapseek", "runs.db"), c.Store.Path)
	assert.Equal(t, "warn", c.Log.Level)
	assert.NoError(t, c.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoad_OverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
[search]
min_seed = 5
dedup = true

[output]
format = "tsv"
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Search.MinSeed)
	assert.True(t, c.Search.Dedup)
	assert.Equal(t, "tsv", c.Output.Format)
	assert.Equal(t, "auto", c.Output.Color)
	assert.Equal(t, "warn", c.Log.Level)
}

func TestLoad_PartialRecoveryOnTypeMismatch(t *testing.T) {
	path := writeConfig(t, `
[search]
min_seed = "three"
crosscheck = true

[log]
level = "debug"
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Search.MinSeed, "bad value falls back to default")
	assert.True(t, c.Search.Crosscheck)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoad_UnparsableFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "[search\nmin_seed = = 4")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

// =============================================================================
// Saving
// =============================================================================

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := DefaultConfig()
	c.Search.MinSeed = 7
	c.Store.Enabled = true
	c.Output.Format = "json"
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gapseek", "config.toml")

	c, created, err := InitConfig(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, DefaultConfig(), c)
	assert.FileExists(t, path)

	// Existing file is left alone.
	c.Search.MinSeed = 9
	require.NoError(t, Save(c, path))
	got, created, err := InitConfig(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 9, got.Search.MinSeed)
}

// =============================================================================
// Validation
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min seed", func(c *Config) { c.Search.MinSeed = 0 }},
		{"format", func(c *Config) { c.Output.Format = "xml" }},
		{"color", func(c *Config) { c.Output.Color = "sometimes" }},
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"store path", func(c *Config) { c.Store.Enabled = true; c.Store.Path = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}
