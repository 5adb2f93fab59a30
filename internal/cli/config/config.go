package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the Loom tool configuration
type Config struct {
	Definitions string       `mapstructure:"definitions"`
	Output      OutputConfig `mapstructure:"output"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Format string `mapstructure:"format"` // "text" or "json"
	Color  bool   `mapstructure:"color"`
}

// Load loads the configuration from loom.yml or loom.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("definitions", "types.json")
	v.SetDefault("output.format", "text")
	v.SetDefault("output.color", true)

	// Set config name and paths
	v.SetConfigName("loom")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment variable overrides: LOOM_OUTPUT_FORMAT etc.
	v.SetEnvPrefix("LOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Output.Format != "text" && cfg.Output.Format != "json" {
		return nil, fmt.Errorf("invalid output format %q (want text or json)", cfg.Output.Format)
	}

	return &cfg, nil
}
