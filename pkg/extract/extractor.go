package extract

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dlclark/regexp2"
)

// ErrMatch wraps failures of the underlying matcher, in practice a match timeout
var ErrMatch = errors.New("error extraction failed")

// Extractor finds error messages in post bodies.
//
// A message starts at the keyword, runs up to the first colon after it and
// then continues, across lines, up to the nearest terminator. The terminator
// itself is not part of the message. A keyword with no terminator anywhere
// after its colon does not produce a message.
type Extractor struct {
	re      *regexp2.Regexp
	pattern string
}

// NewExtractor compiles the extraction pattern for cfg
func NewExtractor(cfg Config) (*Extractor, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extraction config: %w", err)
	}

	pattern := buildPattern(cfg.Keyword, cfg.Terminators)

	re, err := regexp2.Compile(pattern, regexp2.Singleline)
	if err != nil {
		return nil, fmt.Errorf("failed to compile extraction pattern: %w", err)
	}

	if cfg.MatchTimeout > 0 {
		re.MatchTimeout = cfg.MatchTimeout
	}

	return &Extractor{re: re, pattern: pattern}, nil
}

// Pattern returns the compiled expression
func (e *Extractor) Pattern() string {
	return e.pattern
}

// Extract lazily yields every error string in body. A matcher failure ends
// the sequence; use All to observe it.
func (e *Extractor) Extract(body string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = e.each(body, yield)
	}
}

// All returns every error string in body
func (e *Extractor) All(body string) ([]string, error) {
	var out []string

	err := e.each(body, func(s string) bool {
		out = append(out, s)
		return true
	})

	return out, err
}

func (e *Extractor) each(body string, fn func(string) bool) error {
	if body == "" {
		return nil
	}

	// The matcher works on runes; drop invalid bytes rather than let them
	// come back as U+FFFD.
	m, err := e.re.FindStringMatch(strings.ToValidUTF8(body, ""))
	for err == nil && m != nil {
		if !fn(strings.TrimSuffix(m.String(), "\n")) {
			return nil
		}

		m, err = e.re.FindNextMatch(m)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrMatch, err)
	}

	return nil
}

// buildPattern yields keyword, anything but a colon, a colon, then the
// shortest run of anything that is followed by one of the terminators.
func buildPattern(keyword string, terminators []string) string {
	alts := make([]string, 0, len(terminators))
	for _, t := range terminators {
		alts = append(alts, regexp2.Escape(t))
	}

	return regexp2.Escape(keyword) + `[^:]*:.*?(?=` + strings.Join(alts, "|") + `)`
}
