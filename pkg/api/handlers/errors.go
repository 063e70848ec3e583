package handlers

import "github.com/gofiber/fiber/v3"

// ErrReportNotReady is returned when no analysis has completed yet
var ErrReportNotReady = fiber.NewError(fiber.StatusServiceUnavailable, "report not ready")

// ErrTrigramRequired is returned when the errors endpoint is called without a trigram
var ErrTrigramRequired = fiber.NewError(fiber.StatusBadRequest, "trigram query parameter is required")
