package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv("CENSUS_DATA_PATH", "")
	t.Setenv("CENSUS_LOG_LEVEL", "")
	t.Setenv("CENSUS_SERVER_ADDR", "")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "county_demographics.csv", cfg.Data.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "census.yaml")

	cfg := Default()
	cfg.Data.Path = "/data/counties.csv"
	cfg.Logging.Format = "json"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/counties.csv", loaded.Data.Path)
	assert.Equal(t, "json", loaded.Logging.Format)
	assert.Equal(t, "info", loaded.Logging.Level)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "census.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "county_demographics.csv", cfg.Data.Path)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CENSUS_DATA_PATH", "/tmp/env.csv")
	t.Setenv("CENSUS_LOG_LEVEL", "warn")
	t.Setenv("CENSUS_SERVER_ADDR", ":9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.csv", cfg.Data.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("logging: [\n"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	level := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(level, []byte("logging:\n  level: loud\n"), 0o644))
	_, err = Load(level)
	assert.ErrorContains(t, err, "loud")

	body := filepath.Join(dir, "body.yaml")
	require.NoError(t, os.WriteFile(body, []byte("server:\n  max_body: lots\n"), 0o644))
	_, err = Load(body)
	assert.ErrorContains(t, err, "server.max_body")
}

func TestValidateMaxBody(t *testing.T) {
	for _, v := range []string{"1M", "512K", "2MB", "4096"} {
		cfg := Default()
		cfg.Server.MaxBodyBytes = v
		assert.NoError(t, cfg.Validate(), v)
	}
	for _, v := range []string{"", "lots", "1 megabyte"} {
		cfg := Default()
		cfg.Server.MaxBodyBytes = v
		assert.Error(t, cfg.Validate(), v)
	}
}
