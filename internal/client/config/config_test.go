package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetArgs(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"cli"}, args...)
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetArgs(t)

	cfg := LoadConfig()
	assert.Equal(t, "http://localhost:8000", cfg.ServerEndpointURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.TopK)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_EnvOverlay(t *testing.T) {
	resetArgs(t)
	t.Setenv("ASKPDF_SERVER_URL", "http://api.example.com")
	t.Setenv("ASKPDF_TIMEOUT", "45s")
	t.Setenv("ASKPDF_TOP_K", "8")
	t.Setenv("ASKPDF_LOG_LEVEL", "debug")

	cfg := LoadConfig()
	assert.Equal(t, "http://api.example.com", cfg.ServerEndpointURL)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 8, cfg.TopK)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_EnvIgnoresInvalidValues(t *testing.T) {
	resetArgs(t)
	t.Setenv("ASKPDF_TIMEOUT", "soon")
	t.Setenv("ASKPDF_TOP_K", "-3")

	cfg := LoadConfig()
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.TopK)
}

func TestLoadConfig_JsonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_endpoint_url": "http://json.example.com",
		"request_timeout": "10s",
		"top_k": 6
	}`), 0o600))

	resetArgs(t, "-c", path)

	cfg := LoadConfig()
	assert.Equal(t, "http://json.example.com", cfg.ServerEndpointURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 6, cfg.TopK)
	// fields absent from the file keep their defaults
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_FlagsWinOverJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_endpoint_url": "http://json.example.com",
		"top_k": 6
	}`), 0o600))

	resetArgs(t, "-c", path, "-e", "http://flags.example.com", "-t", "5")

	cfg := LoadConfig()
	assert.Equal(t, "http://flags.example.com", cfg.ServerEndpointURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 6, cfg.TopK, "json value survives when no flag overrides it")
}

func TestLoadConfig_BrokenJsonPanics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	resetArgs(t, "-c", path)
	assert.Panics(t, func() { LoadConfig() })
}
