package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig selects and configures the storage backend for project
// roots.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	FS     FSConfig     `json:"fs" mapstructure:"fs"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// FSConfig holds filesystem backend settings.
type FSConfig struct {
	Dir     string `json:"dir" mapstructure:"dir"`
	Scratch bool   `json:"scratch" mapstructure:"scratch"`
}

// SQLiteConfig holds SQLite backend settings.
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// Load reads configuration from a JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./komalogs")

	viper.SetDefault("history.capacity", 400)

	viper.SetDefault("storage.type", "fs")
	viper.SetDefault("storage.fs.dir", "./projects")
	viper.SetDefault("storage.fs.scratch", false)
	viper.SetDefault("storage.sqlite.path", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "koma")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "koma-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("koma.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file just means defaults; anything else is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %v", err)
		}
	}

	return nil
}

// GetStorageConfig returns the storage backend configuration.
func GetStorageConfig() StorageConfig {
	var cfg StorageConfig
	if err := viper.UnmarshalKey("storage", &cfg); err != nil {
		return StorageConfig{Type: "fs"}
	}
	return cfg
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
