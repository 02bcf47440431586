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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost/fraudtrack"
ml_service:
  url: "http://ml:8000"
  timeout_seconds: 10
alert:
  webhook_url: "https://hooks.local/fraud"
  timeout_seconds: 3
  case_file_base_url: "https://cases.local"
server:
  port: ":9090"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/fraudtrack", cfg.Database.URL)
	assert.Equal(t, int64(10), cfg.MLService.TimeoutSeconds)
	assert.Equal(t, "https://hooks.local/fraud", cfg.Alert.WebhookURL)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost/fraudtrack"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(30), cfg.MLService.TimeoutSeconds)
	assert.Equal(t, int64(5), cfg.Alert.TimeoutSeconds)
	assert.Equal(t, "prediction_log.csv", cfg.Audit.LogPath)
	assert.Equal(t, ".", cfg.Export.Dir)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
