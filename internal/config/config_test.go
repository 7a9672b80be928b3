package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so a developer's .env
// does not leak into assertions.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.BaseURL)
	assert.NotEmpty(t, cfg.Outreach.DefaultSenderRole)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "5s")
	t.Setenv("LLM_PROVIDER", "OpenRouter")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("DEFAULT_DEMO_SITE", "https://demo.example.com")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, ,https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ProviderOpenRouter, cfg.LLMProvider)
	assert.Equal(t, "key", cfg.Gemini.APIKey)
	assert.Equal(t, "https://demo.example.com", cfg.Outreach.DefaultDemoSite)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.CORSOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdirTemp(t)

	t.Setenv("HTTP_CLIENT_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("HTTP_CLIENT_TIMEOUT", "5s")
	t.Setenv("LLM_PROVIDER", "ollama")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := chdirTemp(t)
	content := "GEMINI_MODEL=gemini-from-file\nHTTP_ADDR=:7000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Setenv("HTTP_ADDR", ":7100")
	// t.Setenv restores the previous state only for keys it touched.
	t.Setenv("GEMINI_MODEL", "")
	require.NoError(t, os.Unsetenv("GEMINI_MODEL"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini-from-file", cfg.Gemini.Model)
	assert.Equal(t, ":7100", cfg.HTTPAddr)
}
