package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: jsonfile
  data_dir: /tmp/pos-data
database:
  host: db.internal
  port: 5433
  user: pos
  password: secret
  database: restaurant_pos
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendJSONFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/pos-data", cfg.Storage.DataDir)
	assert.Equal(t, "receipts", cfg.Storage.ReceiptsDir)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "storage:\n  backend: jsonfile\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_UnknownBackend(t *testing.T) {
	path := writeConfig(t, "storage:\n  backend: redis\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("POS_DATABASE_PASSWORD", "from-env")
	path := writeConfig(t, "database:\n  password: from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres", Password: "pw", Database: "restaurant_pos",
	}}
	assert.Equal(t,
		"postgres://postgres:pw@localhost:5432/restaurant_pos?sslmode=disable",
		cfg.DatabaseURL())
}
