package http

import (
	"encoding/json"

	"github.com/VigilNet/FedWatch/pkg/app/analysis"
	"github.com/VigilNet/FedWatch/pkg/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getDetectionStatsHandler struct {
	logger *logrus.Logger
	cache  *cache.Cache
	finder analysis.Finder
}

func NewGetDetectionStatsHandler(logger *logrus.Logger, c *cache.Cache, finder analysis.Finder) Handler {
	return &getDetectionStatsHandler{
		logger: logger,
		cache:  c,
		finder: finder,
	}
}

// Handle serves detection counts grouped by anomaly type, cached briefly so
// dashboard polling does not hit the database on every refresh.
func (h *getDetectionStatsHandler) Handle(c *fiber.Ctx) error {
	if h.cache != nil {
		if raw, err := h.cache.Get(c.Context(), cache.DetectionStatsKey); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(fiber.StatusOK).SendString(raw)
		}
	}

	counts, err := h.finder.Stats(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to load detection stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load detection stats"})
	}

	var total int64
	for _, count := range counts {
		total += count
	}
	payload := fiber.Map{
		"counts": counts,
		"total":  total,
	}

	if h.cache != nil {
		if data, err := json.Marshal(payload); err == nil {
			if err := h.cache.Set(c.Context(), cache.DetectionStatsKey, string(data), h.cache.TTL()); err != nil {
				h.logger.WithError(err).Warn("failed to cache detection stats")
			}
		}
	}

	return c.Status(fiber.StatusOK).JSON(payload)
}
