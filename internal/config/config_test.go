package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"api": { "serverUrl": "http://deconflict.local:8080" },
		"analysis": { "distanceThreshold": 50 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skyguardian.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "http://deconflict.local:8080", viper.GetString("api.serverUrl"))
	assert.Equal(t, 50.0, viper.GetFloat64("analysis.distanceThreshold"))
	// unset keys keep defaults
	assert.Equal(t, 1.0, viper.GetFloat64("analysis.timeTolerance"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skyguardian.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, "http://localhost:5000", viper.GetString("api.serverUrl"))
	assert.Equal(t, 20.0, viper.GetFloat64("analysis.distanceThreshold"))
	assert.Equal(t, 1.0, viper.GetFloat64("analysis.timeTolerance"))
	assert.Equal(t, false, viper.GetBool("analysis.animate"))
	assert.Equal(t, "sqlite", viper.GetString("storage.type"))
	assert.Equal(t, "./skyguardian_session.db", viper.GetString("storage.sqlite.path"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "skyguardian", viper.GetString("influx.org"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestGetStorageConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"storage": {
			"type": "file",
			"file": { "path": "/tmp/slot.json", "compressOutput": true }
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skyguardian.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "file", sc.Type)
	assert.Equal(t, "/tmp/slot.json", sc.File.Path)
	assert.True(t, sc.File.CompressOutput)
	assert.Equal(t, "./skyguardian_session.db", sc.Sqlite.Path)
}

func TestGetOTelConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"otel": { "enabled": true, "serviceName": "planner-test", "batchTimeoutSeconds": 10 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skyguardian.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	oc := GetOTelConfig()
	assert.True(t, oc.Enabled)
	assert.Equal(t, "planner-test", oc.ServiceName)
	assert.Equal(t, 10*time.Second, oc.BatchTimeout)
}
