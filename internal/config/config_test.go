package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644)
	require.NoError(t, err)
	return dir
}

func TestLoadConfigFromFile(t *testing.T) {
	viper.Reset()
	dir := writeConfigFile(t, `
server:
  address: ":9090"
database:
  uri: "mongodb://db:27017"
  name: "workouts_test"
jwt:
  secret: "super-secret"
  expiration: "30m"
certificates:
  mode: "embedded"
  required: true
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Address)
	require.Equal(t, "mongodb://db:27017", cfg.Database.URI)
	require.Equal(t, "workouts_test", cfg.Database.Name)
	require.Equal(t, "super-secret", cfg.JWT.Secret)
	require.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	require.Equal(t, StorageModeEmbedded, cfg.Certificates.Mode)
	require.True(t, cfg.Certificates.Required)
}

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Address)
	require.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	require.Equal(t, StorageModeReferenced, cfg.Certificates.Mode)
	require.False(t, cfg.Certificates.Required)
	require.Equal(t, time.Hour, cfg.JWT.Expiration)
}

func TestLoadConfigRejectsUnknownStorageMode(t *testing.T) {
	viper.Reset()
	dir := writeConfigFile(t, `
certificates:
  mode: "gridfs"
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "certificates.mode")
}
