package http

import (
	"github.com/VigilNet/FedWatch/pkg/app/analysis"
	"github.com/VigilNet/FedWatch/pkg/domain/detection"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const maxPageSize = 200

type listDetectionsHandler struct {
	logger *logrus.Logger
	finder analysis.Finder
}

func NewListDetectionsHandler(logger *logrus.Logger, finder analysis.Finder) Handler {
	return &listDetectionsHandler{
		logger: logger,
		finder: finder,
	}
}

func (h *listDetectionsHandler) Handle(c *fiber.Ctx) error {
	filter := detection.ListFilter{
		AnomalyOnly: c.QueryBool("anomaly_only"),
		Limit:       c.QueryInt("limit", 50),
		Offset:      c.QueryInt("offset", 0),
	}
	if filter.Limit < 1 || filter.Limit > maxPageSize {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, err := h.finder.List(c.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("failed to list detections")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list detections"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detections": items,
		"count":      len(items),
	})
}
