package http

import (
	"github.com/VigilNet/FedWatch/pkg/domain/device"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listDevicesHandler struct {
	logger *logrus.Logger
	repo   device.Repository
}

func NewListDevicesHandler(logger *logrus.Logger, repo device.Repository) Handler {
	return &listDevicesHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *listDevicesHandler) Handle(c *fiber.Ctx) error {
	devices, err := h.repo.List(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list devices")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list devices"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"devices": devices,
		"count":   len(devices),
	})
}
