package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "veteran", cfg.UI.Profile)
	assert.False(t, cfg.Logging.Debug)
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://api.finsight.example
  timeout: 15s
ui:
  profile: newtimer
logging:
  debug: true
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.finsight.example", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.GetTimeout())
	assert.Equal(t, "newtimer", cfg.UI.Profile)
	assert.True(t, cfg.Logging.Debug)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FINSIGHT_API_URL", "https://override.example")
	t.Setenv("FINSIGHT_PROFILE", "newtimer")
	t.Setenv("FINSIGHT_DEBUG", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://override.example", cfg.API.BaseURL)
	assert.Equal(t, "newtimer", cfg.UI.Profile)
	assert.True(t, cfg.Logging.Debug)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file.example\n"), 0644))
	t.Setenv("FINSIGHT_API_URL", "http://env.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example", cfg.API.BaseURL)
}

func TestGetTimeout_InvalidFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = "not-a-duration"
	assert.Equal(t, 60*time.Second, cfg.GetTimeout())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.UI.Profile = "daytrader"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.API.BaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://saved.example"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example", loaded.API.BaseURL)
}
