package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  host: 0.0.0.0
  port: 9090
storage:
  type: redis
redis:
  url: redis://localhost:6379/0
  pool_size: 20
  quiz_session_ttl: 2h
auth:
  session_duration: 12h
  default_password: EDSA2025
raffle:
  size: 200
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Storage.Type)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, "2h", cfg.Redis.QuizSessionTTL)
	assert.Equal(t, "EDSA2025", cfg.Auth.DefaultPassword)
	assert.Equal(t, 200, cfg.Raffle.Size)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 30*time.Minute, Duration("30m", time.Hour))
	assert.Equal(t, time.Hour, Duration("", time.Hour))
	assert.Equal(t, time.Hour, Duration("not-a-duration", time.Hour))
}
