package http

import (
	"time"

	"github.com/VigilNet/FedWatch/pkg/infra/inference"
	"github.com/VigilNet/FedWatch/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type healthHandler struct {
	logger    *logrus.Logger
	inference inference.Client
	started   time.Time
}

// NewHealthHandler reports platform health including the external inference
// service when one is configured (inferenceClient may be nil).
func NewHealthHandler(logger *logrus.Logger, inferenceClient inference.Client) Handler {
	return &healthHandler{
		logger:    logger,
		inference: inferenceClient,
		started:   time.Now(),
	}
}

func (h *healthHandler) Handle(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":         "healthy",
		"version":        version.Version,
		"uptime_seconds": time.Since(h.started).Seconds(),
		"time":           time.Now().Format(time.RFC3339),
	}

	if h.inference != nil {
		if hs, err := h.inference.Health(c.Context()); err != nil {
			resp["inference"] = fiber.Map{"status": "unreachable"}
		} else {
			resp["inference"] = hs
		}
	} else {
		resp["inference"] = fiber.Map{"status": "not_configured"}
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
