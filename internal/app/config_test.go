package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CLFS_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 30*time.Minute, cfg.Tokens.VerificationTTL)
	require.Equal(t, 30*time.Minute, cfg.Tokens.ResetTTL)
	require.True(t, cfg.Maintenance.Enabled)
}

func TestLoadConfigRejectsShortSecret(t *testing.T) {
	t.Setenv("CLFS_AUTH_JWT_SECRET", "short")

	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("CLFS_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
database:
  driver: postgres
  host: db.internal
  user: campus
  name: campusfound
tokens:
  verification_ttl: 1h
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, time.Hour, cfg.Tokens.VerificationTTL)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("CLFS_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("CLFS_SERVER_PORT", "7070")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
}
