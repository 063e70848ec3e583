package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// SearchPages counts Stack Exchange result pages fetched
	SearchPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errorgrams_search_pages_total",
			Help: "Total number of search result pages fetched",
		},
		[]string{"status"}, // status: success, error
	)

	// SearchRequestDuration measures Stack Exchange request latency
	SearchRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "errorgrams_search_request_duration_seconds",
			Help:    "Search API request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"status"},
	)

	// SearchQuotaRemaining tracks the API quota reported by the last response
	SearchQuotaRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "errorgrams_search_quota_remaining",
			Help: "Remaining Stack Exchange API quota",
		},
	)

	// PostsFetched counts posts returned by the search API
	PostsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "errorgrams_posts_fetched_total",
			Help: "Total number of posts fetched from the search API",
		},
	)

	// PageCacheHits tracks page cache hits
	PageCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "errorgrams_page_cache_hits_total",
			Help: "Total number of search page cache hits",
		},
	)

	// PageCacheMisses tracks page cache misses
	PageCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "errorgrams_page_cache_misses_total",
			Help: "Total number of search page cache misses",
		},
	)

	// PostsAnalyzed counts posts run through the extractor
	PostsAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errorgrams_posts_analyzed_total",
			Help: "Total number of posts run through error extraction",
		},
		[]string{"result"}, // result: matched, unmatched, failed
	)

	// ErrorStringsExtracted counts extracted error strings
	ErrorStringsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "errorgrams_error_strings_extracted_total",
			Help: "Total number of error strings extracted",
		},
	)

	// TrigramsIndexed counts trigrams emitted by the indexer
	TrigramsIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "errorgrams_trigrams_indexed_total",
			Help: "Total number of trigrams emitted",
		},
	)

	// AnalysisDuration measures a full analysis run
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "errorgrams_analysis_duration_seconds",
			Help:    "Analysis run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
	)

	// CoverageRatio is the coverage of the top-K trigrams from the last run
	CoverageRatio = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "errorgrams_coverage_ratio",
			Help: "Fraction of error strings containing one of the top-K trigrams",
		},
		[]string{"k"},
	)

	// ErrorsTotal counts total number of errors
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errorgrams_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordSearchPage records a page request
func RecordSearchPage(status string, duration float64) {
	SearchPages.WithLabelValues(status).Inc()
	SearchRequestDuration.WithLabelValues(status).Observe(duration)
}

// RecordPageCacheHit records a page cache hit
func RecordPageCacheHit() {
	PageCacheHits.Inc()
}

// RecordPageCacheMiss records a page cache miss
func RecordPageCacheMiss() {
	PageCacheMisses.Inc()
}

// RecordPostAnalyzed records the extraction outcome of one post
func RecordPostAnalyzed(result string, errorStrings, trigrams int) {
	PostsAnalyzed.WithLabelValues(result).Inc()
	ErrorStringsExtracted.Add(float64(errorStrings))
	TrigramsIndexed.Add(float64(trigrams))
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
