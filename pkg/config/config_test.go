package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "OPENAI_API_BASE", "OPENAI_API_MODEL"} {
		t.Setenv(key, "")
	}
}

func TestStore_LoadDefault(t *testing.T) {
	clearProviderEnv(t)

	store := NewStore(t.TempDir())
	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.False(t, cfg.Configured())
}

func TestStore_SaveAndLoad(t *testing.T) {
	clearProviderEnv(t)

	dir := filepath.Join(t.TempDir(), "nested", "heph")
	store := NewStore(dir)

	cfg := DefaultConfig()
	cfg.APIToken = "sk-test-1234567890"
	cfg.Model = "gpt-4o-mini"
	require.NoError(t, store.Save(cfg))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
	assert.True(t, loaded.Configured())
}

func TestStore_PartialFile(t *testing.T) {
	clearProviderEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_token: abc\n"), 0o600))

	cfg, err := NewStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.APIToken)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
}

func TestStore_InvalidYAML(t *testing.T) {
	clearProviderEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("model: [unclosed"), 0o600))

	_, err := NewStore(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestStore_InvalidValues(t *testing.T) {
	clearProviderEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("max_tokens: -1\n"), 0o600))

	_, err := NewStore(dir).Load()
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "max_tokens", verr.Field)
}

func TestStore_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("OPENAI_API_BASE", "http://localhost:1234/v1")
	t.Setenv("OPENAI_API_MODEL", "local-model")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_token: sk-file\nmodel: gpt-4\n"), 0o600))

	store := NewStore(dir)
	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.APIToken)
	assert.Equal(t, "http://localhost:1234/v1", cfg.BaseURL)
	assert.Equal(t, "local-model", cfg.Model)

	raw, err := store.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "sk-file", raw.APIToken)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty model", func(c *Config) { c.Model = " " }, "model"},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, "max_tokens"},
		{"negative temperature", func(c *Config) { c.Temperature = -0.5 }, "temperature"},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }, "temperature"},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, "timeout_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfig_MaskedToken(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sk-...cdef", Config{APIToken: "sk-1234567890abcdef"}.MaskedToken())
	assert.Equal(t, "*****", Config{APIToken: "short"}.MaskedToken())
	assert.Equal(t, "", Config{}.MaskedToken())
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("HEPH_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "heph"), dir)

	t.Setenv("HEPH_CONFIG_DIR", "/opt/heph")
	dir, err = DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/opt/heph", dir)
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("HEPH_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("HEPH_DOTENV_PROBE"))

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("HEPH_DOTENV_PROBE=loaded\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("HEPH_DOTENV_PROBE"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
