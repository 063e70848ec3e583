package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/kbroman/errorgrams/pkg/analysis"
	"github.com/kbroman/errorgrams/pkg/api"
	"github.com/kbroman/errorgrams/pkg/extract"
	"github.com/kbroman/errorgrams/pkg/redis"
	"github.com/kbroman/errorgrams/pkg/server"
	"github.com/kbroman/errorgrams/pkg/stackexchange"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalidLogLevel is returned when the logging level cannot be parsed
var ErrInvalidLogLevel = errors.New("invalid logging level")

// Config represents the application configuration
type Config struct {
	// Logging level
	Logging string `yaml:"logging" default:"info" validate:"oneof=panic fatal warn info debug trace"`

	// StackExchange configuration
	StackExchange stackexchange.Config `yaml:"stackexchange"`

	// Extraction configuration
	Extraction extract.Config `yaml:"extraction"`

	// Analysis configuration
	Analysis analysis.Config `yaml:"analysis"`

	// Redis configuration (optional, enables the page cache)
	Redis *redis.Config `yaml:"redis,omitempty"`

	// Server configuration, used by serve
	Server server.Config `yaml:"server"`

	// API configuration, used by serve
	API api.Config `yaml:"api"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Logging); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, c.Logging)
	}

	if err := c.StackExchange.Validate(); err != nil {
		return fmt.Errorf("stackexchange config validation failed: %w", err)
	}

	c.Extraction.SetDefaults()

	if err := c.Extraction.Validate(); err != nil {
		return fmt.Errorf("extraction config validation failed: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config validation failed: %w", err)
	}

	if c.Redis.Enabled() {
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("redis config validation failed: %w", err)
		}
	}

	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api config validation failed: %w", err)
	}

	return nil
}

// LoadConfig loads configuration from a YAML file. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	config := &Config{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// defaults.Set skips nil pointers, fill the optional section after parsing
	if config.Redis != nil {
		if err := defaults.Set(config.Redis); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
