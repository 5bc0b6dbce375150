package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	if diff := cmp.Diff(defaults(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 5, cfg.LockPolicy().MaxAttempts)
	assert.Equal(t, 2*time.Hour, cfg.LockPolicy().LockDuration)
	assert.Equal(t, 15*time.Minute, cfg.LoginLimitPolicy().Window)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"PORT=9000\nMONGODB_DB=from_file\nLOGIN_RATE_LIMIT=7\nCORS_ORIGINS=https://a.test, https://b.test\n",
	), 0o600))

	t.Setenv("MONGODB_DB", "from_env")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")

	cfg, err := Load(envFile, []string{"-port", "9100", "-storage", "memory"})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port, "flags win over the env file")
	assert.Equal(t, "from_env", cfg.MongoDB, "environment wins over the env file")
	assert.Equal(t, 7, cfg.LoginRateLimit)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, StorageMemory, cfg.Storage)
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("LOCK_DURATION", "two hours")
	t.Setenv("BCRYPT_COST", "high")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCK_DURATION")
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}

func TestLoad_UnknownFlag(t *testing.T) {
	_, err := Load("", []string{"-nope"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"unknown storage", func(c *Config) { c.Storage = "redis" }},
		{"postgres limiter without dsn", func(c *Config) { c.RateLimitStore = LimiterPostgres }},
		{"default secret in production", func(c *Config) { c.Env = EnvProduction }},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero limit", func(c *Config) { c.LoginRateLimit = 0 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.edit(c)
			assert.Error(t, c.Validate())
		})
	}

	c := defaults()
	c.Env = "Production"
	c.JWTSecret = "real-secret"
	assert.NoError(t, c.Validate())
	assert.True(t, c.IsProduction())
}
