package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// FeatureReporter describes which notification channels are live.
type FeatureReporter interface {
	Features() map[string]bool
	SMSProviderName() string
}

// HealthHandler serves liveness and feature status.
type HealthHandler struct {
	features FeatureReporter
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(features FeatureReporter) *HealthHandler {
	return &HealthHandler{features: features}
}

// Health reports that the process is serving.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Status lists the server's features and notification channels.
func (h *HealthHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"features": []string{
			"Form Submission System",
			"OTP Verification System",
			"DLT Compliance",
			"Email Notifications",
			"File Uploads",
		},
		"channels":     h.features.Features(),
		"sms_provider": h.features.SMSProviderName(),
	})
}
