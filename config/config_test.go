package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"8080\"\nprovider: gemini\nmodel: gemini-1.5-pro\npublic_dir: web\n"), 0o644))
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "k1, k2,,")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model)
	assert.Equal(t, "web", cfg.PublicDir)
	assert.Equal(t, []string{"k1", "k2"}, cfg.GeminiAPIKeys())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigUnknownProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "llama")

	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "unknown provider")
}
