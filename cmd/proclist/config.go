package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the proclist settings
type Config struct {
	// Logging
	LogLevel string `mapstructure:"log_level"`

	// Output. Color styles the table header and the logger name prefix.
	Color bool `mapstructure:"color"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		Color:    true,
	}
}

// LoadConfig reads configuration from path, or from proclist.yaml in the
// user config dir and the working dir when path is empty. PROCLIST_* environment
// variables override file values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("color", cfg.Color)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("proclist")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "proclist"))
		}
		v.AddConfigPath(".")
	}

	// Environment variable support
	v.SetEnvPrefix("PROCLIST")
	v.AutomaticEnv()

	// Read config file (ignore if not found and none was asked for)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}
