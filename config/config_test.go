package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadConfig(t *testing.T) {
	conf := DefaultConfig()
	conf.Logger.Filename = "veil.log"
	conf.ServerConfig.Address = "127.0.0.1:9999"
	conf.StegConfig.OutputFormat = "bmp"
	conf.StegConfig.Compress = true

	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveConfig(filename, conf))

	conf2, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, conf, conf2, "configuration was changed during save/load")
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("local_server_config:\n  address: \":7000\"\n")
	require.NoError(t, os.WriteFile(filename, data, 0600))

	conf, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, ":7000", conf.ServerConfig.Address)
	assert.Equal(t, 4, conf.ServerConfig.MaxWorkers)
	assert.Equal(t, int64(32<<20), conf.ServerConfig.MaxUploadSize)
	assert.Equal(t, "png", conf.StegConfig.OutputFormat)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	filename := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("logger_config: [1, 2"), 0600))
	_, err = LoadConfig(filename)
	assert.Error(t, err)
}
