package config

import (
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

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 8080
  max_connections: 500

redis:
  enabled: true
  addr: "redis:6379"
  password: "secret"
  db: 1

draft:
  pack_size: 14
  rounds: 2
  max_players: 6
  seed: 42
  grace_seconds: 10
  prefill_bots: false
  finished_ttl: 60

catalog:
  path: "/srv/cube.txt"

auth:
  secret: "jellybeans"
  token_ttl: 2

security:
  allowed_origins:
    - "http://localhost:3000"
    - "https://example.com"
  rate_limit:
    max_per_second: 20
    max_per_minute: 120
    ban_duration: 120
  message_limit:
    max_per_second: 50

log:
  level: debug
  development: true
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Server.MaxConnections)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 14, cfg.Draft.PackSize)
	assert.Equal(t, 2, cfg.Draft.Rounds)
	assert.Equal(t, 6, cfg.Draft.MaxPlayers)
	assert.Equal(t, uint64(42), cfg.Draft.Seed)
	assert.False(t, cfg.Draft.Prefill())
	assert.Equal(t, 10*time.Second, cfg.Draft.GraceDuration())
	assert.Equal(t, time.Hour, cfg.Draft.FinishedTTLDuration())
	assert.Equal(t, "/srv/cube.txt", cfg.Catalog.Path)
	assert.Equal(t, "jellybeans", cfg.Auth.Secret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTLDuration())
	assert.Len(t, cfg.Security.AllowedOrigins, 2)
	assert.Equal(t, 120*time.Second, cfg.Security.RateLimit.BanDurationTime())
	assert.Equal(t, 50, cfg.Security.MessageLimit.MaxPerSecond)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "invalid: yaml: :::"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultMaxConnections, cfg.Server.MaxConnections)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, defaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, defaultPackSize, cfg.Draft.PackSize)
	assert.Equal(t, defaultRounds, cfg.Draft.Rounds)
	assert.Equal(t, defaultMaxPlayers, cfg.Draft.MaxPlayers)
	assert.Equal(t, uint64(defaultSeed), cfg.Draft.Seed)
	assert.Equal(t, 30*time.Second, cfg.Draft.GraceDuration())
	assert.True(t, cfg.Draft.Prefill())
	assert.Zero(t, cfg.Draft.FinishedTTL)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, defaultLogLevel, cfg.Log.Level)
}

func TestLoad_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"too many players", "draft:\n  max_players: 9\n"},
		{"single player", "draft:\n  max_players: 1\n"},
		{"negative pack size", "draft:\n  pack_size: -1\n"},
		{"negative rounds", "draft:\n  rounds: -2\n"},
		{"negative finished ttl", "draft:\n  finished_ttl: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Not parallel because it modifies environment variables
	t.Setenv("SERVER_HOST", "env-host")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("REDIS_ADDR", "env-redis:6380")
	t.Setenv("DRAFT_PACK_SIZE", "5")
	t.Setenv("DRAFT_PREFILL_BOTS", "false")
	t.Setenv("AUTH_SECRET", "from-env")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.com,http://b.com")

	cfg, err := Load(writeConfig(t, "draft:\n  pack_size: 10\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "env-host", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "env-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 5, cfg.Draft.PackSize)
	assert.False(t, cfg.Draft.Prefill())
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.Security.AllowedOrigins)
}

func TestLoadDotEnv(t *testing.T) {
	// Not parallel because it modifies environment variables
	const key = "DRAFT_DOTENV_TEST_VALUE"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "from-dotenv", os.Getenv(key))
}

func TestDefault(t *testing.T) {
	// Not parallel because Default() reads the environment
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultPackSize, cfg.Draft.PackSize)
	assert.NoError(t, cfg.Validate())
}
