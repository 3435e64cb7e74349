package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"
)

// Config holds all census settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// DataConfig locates the county table.
type DataConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes string `yaml:"max_body"` // echo BodyLimit syntax, e.g. "1M"
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Path: "county_demographics.csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: "1M",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path yields the defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CENSUS_DATA_PATH"); v != "" {
		c.Data.Path = v
	}
	if v := os.Getenv("CENSUS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CENSUS_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks the settings that have a closed set of values.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return errors.New("data.path must be set")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not one of json, console", c.Logging.Format)
	}
	if _, err := bytes.Parse(c.Server.MaxBodyBytes); err != nil {
		return fmt.Errorf("server.max_body %q: %w", c.Server.MaxBodyBytes, err)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
