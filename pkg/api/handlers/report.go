package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/kbroman/errorgrams/pkg/trigram"
)

const (
	defaultTrigramLimit = 50
	defaultErrorLimit   = 20
)

type reportSummary struct {
	RunID           string    `json:"run_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	Posts           int       `json:"posts"`
	PostsWithErrors int       `json:"posts_with_errors"`
	ErrorStrings    int       `json:"error_strings"`
	TotalTrigrams   int       `json:"total_trigrams"`
	UniqueTrigrams  int       `json:"unique_trigrams"`
	TopK            int       `json:"top_k"`
	Coverage        float64   `json:"coverage"`
	CoverageCurve   []float64 `json:"coverage_curve"`
}

// GetReport handles GET /api/v1/report
func (s *Server) GetReport(c fiber.Ctx) error {
	report, err := s.current()
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(reportSummary{
		RunID:           report.RunID,
		GeneratedAt:     report.GeneratedAt,
		Posts:           report.Posts,
		PostsWithErrors: report.PostsWithErrors,
		ErrorStrings:    report.ErrorStrings,
		TotalTrigrams:   report.TotalTrigrams,
		UniqueTrigrams:  report.UniqueTrigrams,
		TopK:            report.TopK,
		Coverage:        report.Coverage,
		CoverageCurve:   report.CoverageCurve,
	})
}

// ListTrigrams handles GET /api/v1/trigrams
func (s *Server) ListTrigrams(c fiber.Ctx) error {
	report, err := s.current()
	if err != nil {
		return err
	}

	limit, err := intQuery(c, "limit", defaultTrigramLimit)
	if err != nil {
		return err
	}

	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		return err
	}

	start := min(offset, len(report.Ranked))
	end := start + min(limit, len(report.Ranked)-start)

	page := report.Ranked[start:end]
	if page == nil {
		page = []trigram.Entry{}
	}

	return c.Status(fiber.StatusOK).JSON(map[string]interface{}{
		"trigrams": page,
		"total":    len(report.Ranked),
		"offset":   offset,
		"limit":    limit,
	})
}

// GetCoverage handles GET /api/v1/coverage
func (s *Server) GetCoverage(c fiber.Ctx) error {
	report, err := s.current()
	if err != nil {
		return err
	}

	k, err := intQuery(c, "k", report.TopK)
	if err != nil {
		return err
	}

	ratio, err := report.CoverageAt(k)
	if err != nil {
		s.log.WithError(err).WithField("k", k).Error("Failed to compute coverage")
		return err
	}

	return c.Status(fiber.StatusOK).JSON(map[string]interface{}{
		"k":        k,
		"coverage": ratio,
		"trigrams": trigram.Trigrams(report.Top(k)),
	})
}

// ListErrors handles GET /api/v1/errors
func (s *Server) ListErrors(c fiber.Ctx) error {
	report, err := s.current()
	if err != nil {
		return err
	}

	needle := c.Query("trigram")
	if needle == "" {
		return ErrTrigramRequired
	}

	limit, err := intQuery(c, "limit", defaultErrorLimit)
	if err != nil {
		return err
	}

	matches := report.Matching(needle)
	total := len(matches)

	if limit < len(matches) {
		matches = matches[:limit]
	}

	if matches == nil {
		matches = []string{}
	}

	return c.Status(fiber.StatusOK).JSON(map[string]interface{}{
		"trigram": needle,
		"total":   total,
		"errors":  matches,
	})
}
