// Package config provides configuration management for the weld CLI using
// Viper for flexible configuration loading from files, environment variables
// and command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with a WELD_ prefix, and validation. It manages dev-server
// settings, element manifest paths, and development options like manifest
// hot-reload and state preservation across redefinition.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Manifests   ManifestsConfig   `yaml:"manifests"`
	Development DevelopmentConfig `yaml:"development"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type ManifestsConfig struct {
	Paths []string `yaml:"paths"`
}

type DevelopmentConfig struct {
	HotReload         bool `yaml:"hot_reload"`
	StatePreservation bool `yaml:"state_preservation"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load builds the effective configuration from viper's merged sources.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Server.Port == 0 {
		config.Server.Port = viper.GetInt("server.port")
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8338
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}

	// Handle manifest paths set via viper (workaround for viper slice handling)
	if len(config.Manifests.Paths) == 0 {
		config.Manifests.Paths = viper.GetStringSlice("manifests.paths")
	}
	if len(config.Manifests.Paths) == 0 {
		config.Manifests.Paths = []string{"./elements.yml"}
	}

	// Handle development settings set via viper (workaround for viper bool handling)
	if viper.IsSet("development.hot_reload") {
		config.Development.HotReload = viper.GetBool("development.hot_reload")
	} else {
		config.Development.HotReload = true
	}
	if viper.IsSet("development.state_preservation") {
		config.Development.StatePreservation = viper.GetBool("development.state_preservation")
	} else {
		config.Development.StatePreservation = true
	}

	if config.Logging.Level == "" {
		config.Logging.Level = viper.GetString("log-level")
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the effective configuration for values that cannot work.
func Validate(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", config.Server.Port)
	}
	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.Logging.Level)
	}
	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", config.Logging.Format)
	}
	return nil
}
