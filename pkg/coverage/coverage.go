// Package coverage measures how many error strings a set of trigrams accounts for
package coverage

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher reports whether a string contains any of a fixed set of trigrams.
// The trigrams are matched as literal substrings.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher builds a single alternation over trigrams. Every trigram is
// quoted first, so parentheses and other metacharacters match literally.
// An empty set matches nothing.
func NewMatcher(trigrams []string) (*Matcher, error) {
	if len(trigrams) == 0 {
		return &Matcher{}, nil
	}

	quoted := make([]string, len(trigrams))
	for i, t := range trigrams {
		quoted[i] = regexp.QuoteMeta(t)
	}

	re, err := regexp.Compile(strings.Join(quoted, "|"))
	if err != nil {
		return nil, fmt.Errorf("failed to compile coverage pattern: %w", err)
	}

	return &Matcher{re: re}, nil
}

// Pattern returns the combined expression, empty for an empty set
func (m *Matcher) Pattern() string {
	if m.re == nil {
		return ""
	}

	return m.re.String()
}

// Match reports whether s contains at least one trigram
func (m *Matcher) Match(s string) bool {
	if m.re == nil {
		return false
	}

	return m.re.MatchString(s)
}

// Ratio returns the fraction of errs that contain at least one of trigrams.
// It is 0 when either set is empty.
func Ratio(trigrams, errs []string) (float64, error) {
	if len(errs) == 0 {
		return 0, nil
	}

	m, err := NewMatcher(trigrams)
	if err != nil {
		return 0, err
	}

	matched := 0
	for _, s := range errs {
		if m.Match(s) {
			matched++
		}
	}

	return float64(matched) / float64(len(errs)), nil
}

// Curve returns the coverage of the top k ranked trigrams for every k in
// 1..maxK, so Curve(...)[k-1] equals Ratio(ranked[:k], errs). Past the end of
// ranked the curve stays flat.
func Curve(ranked, errs []string, maxK int) []float64 {
	if maxK <= 0 {
		return []float64{}
	}

	curve := make([]float64, maxK)
	if len(errs) == 0 {
		return curve
	}

	limit := min(maxK, len(ranked))

	// firstHit[i] counts strings whose best-ranked contained trigram is ranked[i]
	firstHit := make([]int, limit)

	for _, s := range errs {
		for i := range limit {
			if strings.Contains(s, ranked[i]) {
				firstHit[i]++
				break
			}
		}
	}

	covered := 0
	for k := range maxK {
		if k < limit {
			covered += firstHit[k]
		}

		curve[k] = float64(covered) / float64(len(errs))
	}

	return curve
}
