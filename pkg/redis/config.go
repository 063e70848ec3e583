// Package redis provides Redis client configuration
package redis

import (
	"errors"
	"fmt"
	"time"
)

// Define static errors
var (
	ErrAddressRequired = errors.New("redis address is required")
)

// Config holds Redis client configuration
type Config struct {
	// Address is either host:port or a redis:// URL
	Address string        `yaml:"address"`
	Prefix  string        `yaml:"prefix" default:"errorgrams"`
	TTL     time.Duration `yaml:"ttl" default:"24h"`
}

// Enabled reports whether a Redis address has been configured
func (c *Config) Enabled() bool {
	return c != nil && c.Address != ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrAddressRequired
	}

	if c.Prefix == "" {
		c.Prefix = "errorgrams"
	}

	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}

	return nil
}

// PrefixKey adds the configured prefix to a Redis key
func (c *Config) PrefixKey(key string) string {
	if c.Prefix == "" {
		return key
	}

	return fmt.Sprintf("%s:%s", c.Prefix, key)
}
