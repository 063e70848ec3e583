// Package server provides server configuration and management
package server

import (
	"errors"
	"time"
)

// Define static errors
var (
	ErrMetricsAddrRequired = errors.New("metrics address is required")
)

// Config holds server configuration
type Config struct {
	// MetricsAddr is the address to listen on for metrics.
	MetricsAddr string `yaml:"metricsAddr" default:":9090"`
	// HealthCheckAddr is the address to listen on for healthcheck.
	HealthCheckAddr *string `yaml:"healthCheckAddr"`
	// PProfAddr is the address to listen on for pprof.
	PProfAddr *string `yaml:"pprofAddr"`
	// ShutdownTimeout is the timeout for shutting down the server.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"10s"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MetricsAddr == "" {
		return ErrMetricsAddrRequired
	}

	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}

	return nil
}
