package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.BatchSize)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.True(t, cfg.EnableAI)
	assert.True(t, cfg.EnableCache)
}

func TestValidate_ClampsBatchSize(t *testing.T) {
	cfg := DefaultConfig()

	cfg.BatchSize = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.BatchSize)

	cfg.BatchSize = -3
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.BatchSize)

	cfg.BatchSize = 100
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 32, cfg.BatchSize)
}

func TestValidate_ClampsTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestValidate_OutputFormat(t *testing.T) {
	cfg := DefaultConfig()

	for _, format := range []string{"text", "table", "json"} {
		cfg.OutputFormat = format
		require.NoError(t, cfg.Validate())
		assert.Equal(t, format, cfg.OutputFormat)
	}

	cfg.OutputFormat = "xml"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "text", cfg.OutputFormat)
}

func TestResolveAPIKey_ProviderEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("CODESAGE_API_KEY", "")

	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.resolveAPIKey()
	assert.Equal(t, "sk-from-env", cfg.APIKey)
}

func TestResolveAPIKey_GenericFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CODESAGE_API_KEY", "generic-key")

	cfg := DefaultConfig()
	cfg.Provider = "gemini"
	cfg.resolveAPIKey()
	assert.Equal(t, "generic-key", cfg.APIKey)
}

func TestResolveAPIKey_ExplicitWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg := DefaultConfig()
	cfg.APIKey = "explicit"
	cfg.resolveAPIKey()
	assert.Equal(t, "explicit", cfg.APIKey)
}

func TestPath(t *testing.T) {
	assert.Contains(t, Path(), "codesage")
	assert.Contains(t, Path(), "config.yaml")
}
