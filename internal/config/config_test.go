package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress())
	assert.Equal(t, "fact_taxi_daily", cfg.Postgres.Table)
	assert.Equal(t, time.Hour, cfg.Weather.Interval)
	assert.InDelta(t, 40.7128, cfg.Weather.Latitude, 0.0001)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log:
  level: debug
server:
  port: 9090
telegram:
  bot_token: token-from-file
  chat_id: "42"
redis:
  enabled: true
  address: redis:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "token-from-file", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateS3NeedsBucket(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Export.S3.Enabled = true
	cfg.Export.S3.Bucket = ""
	assert.Error(t, cfg.Validate())

	cfg.Export.S3.Bucket = "reports-bucket"
	assert.NoError(t, cfg.Validate())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("DATAQUAL_SERVER_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}
