package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.App.Env)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, time.Duration(cfg.JWT.AccessExpiry), 15*time.Minute)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
}

func TestLoadParsesYAMLDurations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  port: 9090
jwt:
  secret: s3cret
  access_expiry: 30m
  refresh_expiry: 720h
stats_api:
  timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry.Std())
	assert.Equal(t, 720*time.Hour, cfg.JWT.RefreshExpiry.Std())
	assert.Equal(t, 3*time.Second, cfg.StatsAPI.Timeout.Std())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt:\n  access_expiry: soon\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "8181")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 8181, cfg.App.Port)
}

func TestDSN(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	cfg.Database.Password = "pw"

	assert.Equal(t,
		"host=localhost port=5432 user=caddystats password=pw dbname=caddystats sslmode=disable",
		cfg.DSN())
}
