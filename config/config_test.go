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
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, ":3001", cfg.Addr())
	assert.Equal(t, BackendLocal, cfg.StorageBackend)
	assert.Equal(t, SubstrateDir, cfg.LocalSubstrate)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, uint64(10), cfg.MongoMaxPoolSize)
	assert.Equal(t, 5*time.Second, cfg.MongoServerSelectionTimeout)
}

func TestLoadFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STORAGE_BACKEND=postgres\nDB_HOST=db\nDB_PASSWORD=secret\nCORS_ORIGIN=http://a.test,http://b.test\n"), 0600))
	t.Cleanup(func() {
		for _, k := range []string{"STORAGE_BACKEND", "DB_HOST", "DB_PASSWORD", "CORS_ORIGIN"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Equal(t, "host=db user=postgres password=secret dbname=shopeasy port=5432 sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)

	cfg.DatabaseURL = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:p@h/db", cfg.PostgresDSN())
}

func TestValidate(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_BACKEND")

	t.Setenv("STORAGE_BACKEND", "local")
	t.Setenv("LOCAL_SUBSTRATE", "floppy")
	_, err = Load()
	assert.ErrorContains(t, err, "LOCAL_SUBSTRATE")
}

func TestLoadReadsEveryEnvFile(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "second.env")
	third := filepath.Join(dir, "third.env")
	require.NoError(t, os.WriteFile(second, []byte("PORT=4000\nLOG_LEVEL=debug\n"), 0600))
	require.NoError(t, os.WriteFile(third, []byte("LOG_LEVEL=warn\nADMIN_API_KEY=from-third\n"), 0600))
	t.Cleanup(func() {
		for _, k := range []string{"PORT", "LOG_LEVEL", "ADMIN_API_KEY"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(filepath.Join(dir, "missing.env"), second, third)
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-third", cfg.AdminAPIKey)
}

func TestLoadRejectsUnreadableEnvFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
