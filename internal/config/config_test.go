package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.InDelta(t, 20, cfg.Import.Tolerance, 1e-9)
	assert.InDelta(t, 15, cfg.Assemble.Gap, 1e-9)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
  read_timeout: 30
storage:
  driver: sqlite
  path: data/cad.db
import:
  tolerance: 5
`), 0o644))

	t.Setenv("CAD_ADDR", ":9090")
	t.Setenv("CAD_WRITE_TIMEOUT", "7")
	t.Setenv("CAD_READ_TIMEOUT", "abc")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, 7, cfg.Server.WriteTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "data/cad.db", cfg.Storage.Path)
	assert.InDelta(t, 5, cfg.Import.Tolerance, 1e-9)
	assert.InDelta(t, 15, cfg.Assemble.Gap, 1e-9)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv("CAD_STORE", "redis")
	_, err = Load("")
	assert.Error(t, err)
}
