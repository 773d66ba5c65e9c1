package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadClient_Valid(t *testing.T) {
	path := writeConfig(t, `
server_url: "https://pos.example.com"
db_path: /var/lib/possync/client.db
log_level: debug
sync:
  interval: 2m
  probe_interval: 5s
  max_attempts: 8
  prune_missing: false
  keep_processed: true
telemetry:
  otlp_endpoint: "localhost:4317"
  insecure: true
`)
	cfg, err := LoadClient(path)
	require.NoError(t, err)

	assert.Equal(t, "https://pos.example.com", cfg.ServerURL)
	assert.Equal(t, "/var/lib/possync/client.db", cfg.DBPath)
	assert.Equal(t, 2*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 5*time.Second, cfg.Sync.ProbeInterval)
	assert.Equal(t, 8, cfg.Sync.MaxAttempts)
	assert.False(t, cfg.Sync.PruneMissing)
	assert.True(t, cfg.Sync.KeepProcessed)
	require.NotNil(t, cfg.Telemetry)
	assert.Equal(t, "possync-client", cfg.Telemetry.ServiceName)

	settings := cfg.Telemetry.Settings("1.2.0")
	require.NotNil(t, settings)
	assert.Equal(t, "possync-client", settings.ServiceName)
	assert.Equal(t, "1.2.0", settings.Version)
	assert.Equal(t, cfg.Telemetry.OTLPEndpoint, settings.OTLPEndpoint)
}

func TestLoadClient_Defaults(t *testing.T) {
	cfg, err := LoadClient("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 15*time.Second, cfg.Sync.ProbeInterval)
	assert.Equal(t, 10*time.Minute, cfg.Sync.StaleAfter)
	assert.Equal(t, 5, cfg.Sync.MaxAttempts)
	assert.Equal(t, 3, cfg.Sync.CallAttempts)
	assert.Equal(t, 500, cfg.Sync.PageSize)
	assert.True(t, cfg.Sync.PruneMissing)
	assert.Nil(t, cfg.Telemetry)
	assert.Nil(t, cfg.Telemetry.Settings("dev"))
}

func TestLoadClient_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server_url: "http://file.local:8080"
sync:
  interval: 1m
`)
	t.Setenv("POSSYNC_SERVER_URL", "http://env.local:9090")
	t.Setenv("POSSYNC_SYNC_INTERVAL", "30s")
	t.Setenv("POSSYNC_OFFLINE", "true")

	cfg, err := LoadClient(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.local:9090", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.True(t, cfg.Offline)
}

func TestLoadClient_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown field", content: "server_url: http://x\nsurver_url: typo\n"},
		{name: "bad url", content: "server_url: not-a-url\n"},
		{name: "ftp url", content: "server_url: ftp://files.local\n"},
		{name: "empty db path", content: "db_path: \"\"\n"},
		{name: "bad log level", content: "log_level: verbose\n"},
		{name: "interval too short", content: "sync:\n  interval: 1s\n"},
		{name: "negative stale after", content: "sync:\n  stale_after: -1m\n"},
		{name: "page size above server max", content: "sync:\n  page_size: 1000\n"},
		{name: "telemetry without endpoint", content: "telemetry:\n  insecure: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadClient(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadClient_MissingFile(t *testing.T) {
	_, err := LoadClient(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadClient_EmptyFile(t *testing.T) {
	cfg, err := LoadClient(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "possync-client.db", cfg.DBPath)
}

func TestLoadServer(t *testing.T) {
	path := writeConfig(t, `
addr: "127.0.0.1:9000"
jwt_secret: "0123456789abcdef0123"
rate_limit:
  requests: 100
`)
	cfg, err := LoadServer(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 10, cfg.RateLimit.AuthRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoadServer_SecretFromEnv(t *testing.T) {
	t.Setenv("POSSYNC_JWT_SECRET", "a-very-long-test-secret")
	t.Setenv("POSSYNC_RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, "a-very-long-test-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoadServer_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing secret", content: "addr: \":8080\"\n"},
		{name: "short secret", content: "jwt_secret: short\n"},
		{name: "negative ttl", content: "jwt_secret: 0123456789abcdef\ntoken_ttl: -1h\n"},
		{name: "negative rate", content: "jwt_secret: 0123456789abcdef\nrate_limit:\n  requests: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadServer(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("anything"))
}
