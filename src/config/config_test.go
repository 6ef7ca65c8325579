package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, "python", cfg.LanguageServer.Product)
	assert.Equal(t, ChannelStable, cfg.LanguageServer.Channel)
	assert.True(t, cfg.LanguageServer.AutoUpdate)
	assert.True(t, cfg.LanguageServer.Download)
	assert.NotEmpty(t, cfg.LanguageServer.DistributionsDir)
	assert.NotEmpty(t, cfg.LanguageServer.StateFile)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
language_server:
  product: python
  channel: beta
  auto_update: false
  download: true
  distributions_dir: /opt/pyls
http:
  proxy: http://proxy.local:3128
  timeout_seconds: 10
debug:
  python_path: /usr/bin/python3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ChannelBeta, cfg.LanguageServer.Channel)
	assert.False(t, cfg.LanguageServer.AutoUpdate)
	assert.Equal(t, "/opt/pyls", cfg.LanguageServer.DistributionsDir)
	assert.Equal(t, "http://proxy.local:3128", cfg.HTTP.Proxy)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, "/usr/bin/python3", cfg.Debug.PythonPath)

	// Omitted fields fall back to defaults.
	assert.NotEmpty(t, cfg.LanguageServer.StateFile)
}

func TestLoadConfigRejectsUnknownChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
language_server:
  product: python
  channel: nightly
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "unknown channel")
}

func TestLoadConfigRejectsUnknownProduct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
language_server:
  product: cobol
  channel: stable
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "unsupported product")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.LanguageServer.Channel = ChannelDaily
	require.NoError(t, SaveConfig(cfg, path))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ChannelDaily, reloaded.LanguageServer.Channel)
	assert.Equal(t, cfg.LanguageServer.DistributionsDir, reloaded.LanguageServer.DistributionsDir)
}
