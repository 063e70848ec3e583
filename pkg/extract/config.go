// Package extract pulls error-message text out of post bodies
package extract

import (
	"errors"
	"time"
)

// DefaultKeyword is the literal word an error message starts with
const DefaultKeyword = "Error"

// DefaultTerminators lists the markers that end an error message: a blank
// line, the usual follow-up notes of an R session, and closing tags of the
// HTML blocks error output is normally pasted into.
//
//nolint:gochecknoglobals // Read-only default list
var DefaultTerminators = []string{
	"\n\n",
	"In addition",
	"Warning",
	"</p>",
	"</code>",
	"</pre>",
	"</blockquote>",
}

// Static errors for configuration validation
var (
	ErrKeywordRequired     = errors.New("extraction keyword is required")
	ErrTerminatorsRequired = errors.New("at least one terminator is required")
	ErrEmptyTerminator     = errors.New("terminators must not be empty strings")
)

// Config controls how error strings are recognised
type Config struct {
	Keyword      string        `yaml:"keyword" default:"Error"`
	Terminators  []string      `yaml:"terminators"`
	MatchTimeout time.Duration `yaml:"matchTimeout" default:"1s"`
}

// SetDefaults fills unset fields
func (c *Config) SetDefaults() {
	if c.Keyword == "" {
		c.Keyword = DefaultKeyword
	}

	if len(c.Terminators) == 0 {
		c.Terminators = append([]string(nil), DefaultTerminators...)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Keyword == "" {
		return ErrKeywordRequired
	}

	if len(c.Terminators) == 0 {
		return ErrTerminatorsRequired
	}

	for _, t := range c.Terminators {
		if t == "" {
			return ErrEmptyTerminator
		}
	}

	return nil
}
