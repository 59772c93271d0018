package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "ACCESS_SECRET=a\nREFRESH_SECRET=r\nDB_DRIVER=sqlite\nDB_NAME=file::memory:\nACCESS_TTL=5m\nALLOWED_ORIGINS=http://a.test, http://b.test\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DSN())
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, ":5000", cfg.HTTPPort)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := "ACCESS_SECRET=a\nREFRESH_SECRET=r\nHTTP_PORT=:7000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))
	t.Setenv("HTTP_PORT", ":9000")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPPort)
	assert.Contains(t, cfg.DSN(), "dbname=lms")
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
}

func TestLoadConfigHasherCostAndHealthInterval(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "a")
	t.Setenv("REFRESH_SECRET", "r")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 15*time.Second, cfg.HealthCheckInterval)

	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("HEALTH_CHECK_INTERVAL", "1m")
	cfg, err = LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, time.Minute, cfg.HealthCheckInterval)

	t.Setenv("BCRYPT_COST", "3")
	_, err = LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "BCRYPT_COST")
}
