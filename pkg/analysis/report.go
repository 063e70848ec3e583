package analysis

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/kbroman/errorgrams/pkg/coverage"
	"github.com/kbroman/errorgrams/pkg/trigram"
)

// Report is the outcome of one analysis run
type Report struct {
	RunID           string    `json:"run_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	Posts           int       `json:"posts"`
	PostsWithErrors int       `json:"posts_with_errors"`
	ErrorStrings    int       `json:"error_strings"`
	TotalTrigrams   int       `json:"total_trigrams"`
	UniqueTrigrams  int       `json:"unique_trigrams"`
	TopK            int       `json:"top_k"`
	// Coverage is the fraction of error strings containing one of the TopK
	// most frequent trigrams
	Coverage float64 `json:"coverage"`
	// CoverageCurve[k-1] is the coverage of the k most frequent trigrams
	CoverageCurve []float64       `json:"coverage_curve"`
	Ranked        []trigram.Entry `json:"ranked"`

	// Errors holds every extracted error string, in corpus order
	Errors []string `json:"-"`
}

// Top returns the k most frequent trigrams
func (r *Report) Top(k int) []trigram.Entry {
	if k < 0 {
		k = 0
	}

	return r.Ranked[:min(k, len(r.Ranked))]
}

// CoverageAt computes the coverage of the k most frequent trigrams
func (r *Report) CoverageAt(k int) (float64, error) {
	return coverage.Ratio(trigram.Trigrams(r.Top(k)), r.Errors)
}

// Matching returns the error strings that contain s
func (r *Report) Matching(s string) []string {
	var out []string

	for _, e := range r.Errors {
		if strings.Contains(e, s) {
			out = append(out, e)
		}
	}

	return out
}

// Sample returns up to n error strings containing s in an order drawn from
// rng. n <= 0 returns every match.
func (r *Report) Sample(s string, n int, rng *rand.Rand) []string {
	matches := r.Matching(s)

	if rng != nil {
		rng.Shuffle(len(matches), func(i, j int) {
			matches[i], matches[j] = matches[j], matches[i]
		})
	}

	if n > 0 && n < len(matches) {
		matches = matches[:n]
	}

	return matches
}
