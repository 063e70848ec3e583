// Package handlers implements the request handlers of the errorgrams API.
package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/kbroman/errorgrams/pkg/analysis"
	"github.com/sirupsen/logrus"
)

// ReportProvider supplies the report the API serves
type ReportProvider interface {
	// Report returns nil until an analysis has completed
	Report() *analysis.Report
}

// ReportHolder is a ReportProvider serving a single finished report
type ReportHolder struct {
	report *analysis.Report
}

// NewReportHolder creates a holder, report may be nil
func NewReportHolder(report *analysis.Report) *ReportHolder {
	return &ReportHolder{report: report}
}

// Report returns the current report
func (h *ReportHolder) Report() *analysis.Report {
	return h.report
}

// Server holds the API handlers
type Server struct {
	reports ReportProvider
	log     logrus.FieldLogger
}

// NewServer creates a new API server instance
func NewServer(reports ReportProvider, log logrus.FieldLogger) *Server {
	return &Server{
		reports: reports,
		log:     log.WithField("component", "api.handlers"),
	}
}

// Register mounts the handlers on router
func (s *Server) Register(router fiber.Router) {
	router.Get("/report", s.GetReport)
	router.Get("/trigrams", s.ListTrigrams)
	router.Get("/coverage", s.GetCoverage)
	router.Get("/errors", s.ListErrors)
}

func (s *Server) current() (*analysis.Report, error) {
	report := s.reports.Report()
	if report == nil {
		return nil, ErrReportNotReady
	}

	return report, nil
}

// intQuery reads a non-negative integer query parameter
func intQuery(c fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s: %q", key, raw))
	}

	return v, nil
}
