package analysis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kbroman/errorgrams/pkg/corpus"
	"github.com/kbroman/errorgrams/pkg/coverage"
	"github.com/kbroman/errorgrams/pkg/extract"
	"github.com/kbroman/errorgrams/pkg/observability"
	"github.com/kbroman/errorgrams/pkg/trigram"
	"github.com/sirupsen/logrus"
)

// Service runs the extraction and counting pipeline
type Service struct {
	log       logrus.FieldLogger
	cfg       *Config
	extractor *extract.Extractor
	now       func() time.Time
}

// NewService creates a new analysis service
func NewService(log logrus.FieldLogger, cfg *Config, extractor *extract.Extractor) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis config: %w", err)
	}

	return &Service{
		log:       log.WithField("component", "analysis"),
		cfg:       cfg,
		extractor: extractor,
		now:       time.Now,
	}, nil
}

// Run loads the posts of src and analyzes them
func (s *Service) Run(ctx context.Context, src corpus.Source) (*Report, error) {
	posts, err := src.Posts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	return s.Analyze(ctx, posts)
}

// Analyze extracts error strings from posts, counts their trigrams and
// measures how much of the corpus the most frequent trigrams cover.
func (s *Service) Analyze(ctx context.Context, posts []corpus.Post) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.log.WithField("run_id", runID)

	table := trigram.NewTable()

	var (
		errs       []string
		withErrors int
	)

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := s.extractor.All(post.Body)
		if err != nil {
			log.WithError(err).WithField("post_id", post.ID).Warn("Error extraction failed, keeping partial result")
			observability.RecordError("analysis", "extraction")
		}

		if len(found) == 0 {
			result := "unmatched"
			if err != nil {
				result = "failed"
			}

			observability.RecordPostAnalyzed(result, 0, 0)

			continue
		}

		before := table.Total()
		table.AddAll(trigram.IndexAll(found))

		withErrors++
		errs = append(errs, found...)

		observability.RecordPostAnalyzed("matched", len(found), table.Total()-before)
	}

	ranked := table.Ranked()
	trigrams := trigram.Trigrams(ranked)
	top := trigrams[:min(s.cfg.TopK, len(trigrams))]

	ratio, err := coverage.Ratio(top, errs)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:           runID,
		GeneratedAt:     s.now().UTC(),
		Posts:           len(posts),
		PostsWithErrors: withErrors,
		ErrorStrings:    len(errs),
		TotalTrigrams:   table.Total(),
		UniqueTrigrams:  table.Len(),
		TopK:            s.cfg.TopK,
		Coverage:        ratio,
		CoverageCurve:   coverage.Curve(trigrams, errs, s.cfg.TopK),
		Ranked:          ranked,
		Errors:          errs,
	}

	duration := time.Since(start)
	observability.AnalysisDuration.Observe(duration.Seconds())
	observability.CoverageRatio.WithLabelValues(strconv.Itoa(s.cfg.TopK)).Set(ratio)

	log.WithFields(logrus.Fields{
		"posts":           report.Posts,
		"error_strings":   report.ErrorStrings,
		"unique_trigrams": report.UniqueTrigrams,
		"coverage":        fmt.Sprintf("%.3f", ratio),
		"duration":        duration,
	}).Info("Analysis complete")

	return report, nil
}
