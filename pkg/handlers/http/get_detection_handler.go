package http

import (
	"github.com/VigilNet/FedWatch/pkg/app/analysis"
	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type getDetectionHandler struct {
	logger *logrus.Logger
	finder analysis.Finder
}

func NewGetDetectionHandler(logger *logrus.Logger, finder analysis.Finder) Handler {
	return &getDetectionHandler{
		logger: logger,
		finder: finder,
	}
}

func (h *getDetectionHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("detection_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid detection_id"})
	}

	entity, err := h.finder.Get(c.Context(), id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "detection not found"})
		}
		h.logger.WithError(err).Error("failed to get detection")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get detection"})
	}

	return c.Status(fiber.StatusOK).JSON(entity)
}
