// Package stackexchange provides a client for the Stack Exchange search API
package stackexchange

import (
	"errors"
	"time"
)

// Static errors for configuration validation
var (
	ErrURLRequired      = errors.New("URL is required")
	ErrSiteRequired     = errors.New("site is required")
	ErrInvalidPageSize  = errors.New("pageSize must be between 1 and 100")
	ErrInvalidMaxPages  = errors.New("maxPages must be at least 1")
	ErrInvalidRateLimit = errors.New("requestsPerSecond must not be negative")
)

// MaxPageSize is the largest page the API will return
const MaxPageSize = 100

// Config contains Stack Exchange API settings and the default query
type Config struct {
	URL  string `yaml:"url" default:"https://api.stackexchange.com/2.3"`
	Site string `yaml:"site" default:"stackoverflow"`
	// Key is an optional app key, it raises the daily quota
	Key string `yaml:"key"`
	// Tagged is a semicolon separated tag filter
	Tagged string `yaml:"tagged" default:"r"`
	// Body is the text every returned post body must contain
	Body              string        `yaml:"body" default:"Error"`
	Filter            string        `yaml:"filter" default:"withbody"`
	Sort              string        `yaml:"sort" default:"activity"`
	PageSize          int           `yaml:"pageSize" default:"100"`
	MaxPages          int           `yaml:"maxPages" default:"10"`
	RequestTimeout    time.Duration `yaml:"requestTimeout" default:"30s"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond" default:"10"`
	Debug             bool          `yaml:"debug"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrURLRequired
	}

	if c.Site == "" {
		return ErrSiteRequired
	}

	if c.PageSize < 0 || c.PageSize > MaxPageSize {
		return ErrInvalidPageSize
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.RequestsPerSecond < 0 {
		return ErrInvalidRateLimit
	}

	return nil
}

// SetDefaults sets default values for the configuration
func (c *Config) SetDefaults() {
	if c.Filter == "" {
		c.Filter = "withbody"
	}

	if c.Sort == "" {
		c.Sort = "activity"
	}

	if c.PageSize == 0 {
		c.PageSize = MaxPageSize
	}

	if c.MaxPages == 0 {
		c.MaxPages = 10
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}

	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 10
	}
}

// Query returns the search described by the configuration
func (c *Config) Query() Query {
	return Query{
		Tagged: c.Tagged,
		Body:   c.Body,
	}
}
