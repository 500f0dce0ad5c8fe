package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "trainerhub.session-token", cfg.Cookie.Name)
	assert.Equal(t, "lax", cfg.Cookie.SameSite)
	assert.Equal(t, 3, cfg.Probe.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Probe.BaseDelay)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
database:
  driver: memory
jwt:
  secret: from-file
  expiration: 2h
cookie:
  same_site: strict
s3:
  bucket_name: progress-photos
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PROBE_ATTEMPTS", "6")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret, "env overrides file")
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "strict", cfg.Cookie.SameSite)
	assert.Equal(t, 6, cfg.Probe.Attempts)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Database: DatabaseConfig{Driver: "memory"},
		Cookie:   CookieConfig{SameSite: "Lax"},
		Probe:    ProbeConfig{Attempts: 1},
	}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Cookie.SameSite = "sometimes"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Probe.Attempts = 0
	assert.Error(t, bad.Validate())
}
