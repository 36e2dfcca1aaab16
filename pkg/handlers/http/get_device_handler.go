package http

import (
	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/VigilNet/FedWatch/pkg/domain/device"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type getDeviceHandler struct {
	logger *logrus.Logger
	repo   device.Repository
}

func NewGetDeviceHandler(logger *logrus.Logger, repo device.Repository) Handler {
	return &getDeviceHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *getDeviceHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("device_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid device_id"})
	}

	entity, err := h.repo.Get(c.Context(), id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "device not found"})
		}
		h.logger.WithError(err).Error("failed to get device")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get device"})
	}

	return c.Status(fiber.StatusOK).JSON(entity)
}
