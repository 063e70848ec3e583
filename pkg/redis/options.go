package redis

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// NewOptions converts the configured address into client options. Plain
// host:port addresses and redis:// or rediss:// URLs are accepted.
func NewOptions(cfg *Config) (*redis.Options, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if strings.Contains(cfg.Address, "://") {
		opt, err := redis.ParseURL(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}

		return opt, nil
	}

	return &redis.Options{Addr: cfg.Address}, nil
}

// New creates a Redis client from cfg
func New(cfg *Config) (*redis.Client, error) {
	opt, err := NewOptions(cfg)
	if err != nil {
		return nil, err
	}

	return redis.NewClient(opt), nil
}
