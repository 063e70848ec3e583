// Package analysis runs error extraction, trigram counting and coverage over a corpus
package analysis

import "errors"

// Static errors for configuration validation
var (
	ErrInvalidTopK        = errors.New("topK must not be negative")
	ErrInvalidReportLimit = errors.New("reportLimit must not be negative")
)

// Config controls an analysis run
type Config struct {
	// TopK is the number of most frequent trigrams coverage is computed for
	TopK int `yaml:"topK" default:"30"`
	// ReportLimit caps the ranked rows rendered in reports, 0 means all
	ReportLimit int `yaml:"reportLimit" default:"50"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.TopK < 0 {
		return ErrInvalidTopK
	}

	if c.ReportLimit < 0 {
		return ErrInvalidReportLimit
	}

	return nil
}
