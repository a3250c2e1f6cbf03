package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSec)
	assert.Equal(t, "default", cfg.Display.Theme)
	assert.Equal(t, string(FilterAll), cfg.Display.Filter)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("MAILPANE_DISPLAY_THEME", "plum")
	t.Setenv("MAILPANE_API_URL", "http://mail.internal:9000")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "plum", cfg.Display.Theme)
	assert.Equal(t, "http://mail.internal:9000", cfg.API.BaseURL)
}

func TestSaveThenLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.API.BaseURL = "http://example.test"
	cfg.Display.Theme = "forest"
	cfg.Display.Filter = string(FilterUnread)
	cfg.Display.RefreshIntervalSec = 60
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test", loaded.API.BaseURL)
	assert.Equal(t, "forest", loaded.Display.Theme)
	assert.Equal(t, string(FilterUnread), loaded.Display.Filter)
	assert.Equal(t, 60, loaded.Display.RefreshIntervalSec)
}

func TestLoadConfigRejectsUnknownFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  filter: starred\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigClampsBadNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "api:\n  timeout_sec: 0\ndisplay:\n  refresh_interval_sec: -5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.API.TimeoutSec)
	assert.Equal(t, 0, cfg.Display.RefreshIntervalSec)
}
