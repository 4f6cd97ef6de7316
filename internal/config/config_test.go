package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 4, cfg.GroupCapacity)
	assert.Equal(t, 6, cfg.CodeLength)
	assert.Equal(t, 500, cfg.ChatMaxLength)
	assert.Equal(t, 10.0, cfg.RateLimit.HTTP)
	assert.NotEmpty(t, cfg.Secret)
}

func TestLoadFile_Overrides(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
mode: debug
port: 9090
secret: s3cret
session_ttl: 2h
chat_max_length: 200
rate_limit:
  http: 3
  signal_burst: 4
`), 0o600))

	cfg, err := LoadFile(file)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 200, cfg.ChatMaxLength)
	assert.Equal(t, 3.0, cfg.RateLimit.HTTP)
	assert.Equal(t, 20, cfg.RateLimit.HTTPBurst)
	assert.Equal(t, 4, cfg.RateLimit.SignalBurst)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "config/config.dev.yaml", FileName(""))
	assert.Equal(t, "config/config.prod.yaml", FileName("prod"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("silent"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}
