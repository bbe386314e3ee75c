package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.True(t, cfg.Server.RateLimit.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FDA_SERVER_PORT", "9191")
	t.Setenv("FDA_DATA_DIR", "/var/fda")
	t.Setenv("FDA_LOGGING_LEVEL", "debug")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "/var/fda", cfg.Data.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 3000\ndata:\n  dir: extracts\n"), 0644))

	// envconfig defaults fill server.port before the file is read, so env
	// and defaults win over the file; only unset fields come from the file.
	t.Setenv("FDA_SERVER_PORT", "4000")
	cfg, err := LoadFrom(file)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestLoadInvalidLevel(t *testing.T) {
	t.Setenv("FDA_LOGGING_LEVEL", "loud")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestPaths(t *testing.T) {
	cfg := &Config{Data: DataConfig{Dir: "/srv/fda"}}

	assert.Equal(t, filepath.Join("/srv/fda", "Submissions.txt"), cfg.SubmissionsPath())
	assert.Equal(t, filepath.Join("/srv/fda", "Applications.txt"), cfg.ApplicationsPath())
	assert.Equal(t, filepath.Join("/srv/fda", "Products.txt"), cfg.ProductsPath())
	assert.Equal(t, filepath.Join("/srv/fda", "fda_submissions_merged.xlsx"), cfg.MergedWorkbookPath())
}
