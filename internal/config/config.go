package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig selects and tunes the fallback store backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"` // "sqlite", "file" or "memory"
	Sqlite SqliteConfig `json:"sqlite" mapstructure:"sqlite"`
	File   FileConfig   `json:"file" mapstructure:"file"`
}

// SqliteConfig holds settings for the SQLite fallback store.
type SqliteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// FileConfig holds settings for the JSON-file fallback store.
type FileConfig struct {
	Path           string `json:"path" mapstructure:"path"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// Load reads configuration from a JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.timeoutSeconds", 30)

	viper.SetDefault("analysis.distanceThreshold", 20.0)
	viper.SetDefault("analysis.timeTolerance", 1.0)
	viper.SetDefault("analysis.animate", false)

	viper.SetDefault("origin.latitude", 0.0)
	viper.SetDefault("origin.longitude", 0.0)

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.sqlite.path", "./skyguardian_session.db")
	viper.SetDefault("storage.file.path", "./skyguardian_session.json")
	viper.SetDefault("storage.file.compressOutput", false)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "skyguardian")
	viper.SetDefault("influx.bucket", "simulation_metrics")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "sky-guardian-planner")
	viper.SetDefault("otel.batchTimeoutSeconds", 5)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	viper.SetConfigName("skyguardian.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetStorageConfig returns the fallback store configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Sqlite: SqliteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		File: FileConfig{
			Path:           viper.GetString("storage.file.path"),
			CompressOutput: viper.GetBool("storage.file.compressOutput"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: time.Duration(viper.GetInt("otel.batchTimeoutSeconds")) * time.Second,
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
