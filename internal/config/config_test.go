package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DSN", "postgres://localhost/shareit")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("PROD_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("APP_ENV", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "postgres://localhost/shareit", cfg.Database.DSN)
	assert.Equal(t, 2*time.Second, cfg.Database.StoreTimeout)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 7, cfg.RateLimit.Burst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.ProdOrigins)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  name: shareit
  environment: staging
http:
  addr: ":7070"
database:
  dsn: "${TEST_SHAREIT_DSN}"
  store_timeout: 3s
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEST_SHAREIT_DSN", "postgres://file/shareit")
	t.Setenv("DB_DSN", "postgres://file/shareit")
	t.Setenv("HTTP_ADDR", ":7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, "postgres://file/shareit", cfg.Database.DSN)
	assert.Equal(t, 3*time.Second, cfg.Database.StoreTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoadInvalid(t *testing.T) {
	t.Run("InvalidTimeout", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("DB_DSN", "postgres://localhost/shareit")
		t.Setenv("STORE_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("InvalidBurst", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("DB_DSN", "postgres://localhost/shareit")
		t.Setenv("RATE_LIMIT_BURST", "many")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate(), "DSN is required")

	cfg.Database.DSN = "postgres://localhost/shareit"
	assert.NoError(t, cfg.Validate())

	cfg.Database.StoreTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Database.DSN = "postgres://localhost/shareit"
	cfg.RateLimit.RPS = 0
	assert.Error(t, cfg.Validate())
}
