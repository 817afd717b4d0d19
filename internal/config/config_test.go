package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, "./komalogs", GetString("logsDir"))
	assert.Equal(t, 400, GetInt("history.capacity"))
	assert.False(t, GetBool("influx.enabled"))
	assert.False(t, GetBool("graylog.enabled"))

	storage := GetStorageConfig()
	assert.Equal(t, "fs", storage.Type)
	assert.Equal(t, "./projects", storage.FS.Dir)
	assert.False(t, storage.FS.Scratch)
	assert.Empty(t, storage.SQLite.Path)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
  "logLevel": "debug",
  "history": {"capacity": 50},
  "storage": {
    "type": "sqlite",
    "sqlite": {"path": "/data/koma.db"}
  },
  "influx": {"enabled": true, "host": "metrics.local"}
}`
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, "koma.cfg.json"), []byte(cfg), 0o644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, 50, GetInt("history.capacity"))
	assert.True(t, GetBool("influx.enabled"))
	assert.Equal(t, "metrics.local", GetString("influx.host"))

	storage := GetStorageConfig()
	assert.Equal(t, "sqlite", storage.Type)
	assert.Equal(t, "/data/koma.db", storage.SQLite.Path)
	assert.Equal(t, "./projects", storage.FS.Dir, "untouched keys keep defaults")
}

func TestLoadMalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, "koma.cfg.json"), []byte("{oops"), 0o644))

	assert.Error(t, Load(dir))
}
