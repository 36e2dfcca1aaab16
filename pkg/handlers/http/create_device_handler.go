package http

import (
	"errors"

	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/VigilNet/FedWatch/pkg/domain/device"
	"github.com/VigilNet/FedWatch/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type createDeviceHandler struct {
	logger *logrus.Logger
	repo   device.Repository
}

func NewCreateDeviceHandler(logger *logrus.Logger, repo device.Repository) Handler {
	return &createDeviceHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle registers an edge device alongside the simulated fleet, e.g. a real
// demo camera that should show up on the dashboard.
func (h *createDeviceHandler) Handle(c *fiber.Ctx) error {
	var req request.CreateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	entity := &device.EdgeDevice{
		Name:         req.Name,
		Zone:         req.Zone,
		Status:       req.Status,
		BatteryLevel: req.BatteryLevel,
	}
	if err := entity.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.repo.Create(c.Context(), entity); err != nil {
		if errors.Is(err, domain.ErrDeviceAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "device already exists"})
		}
		h.logger.WithError(err).Error("failed to create device")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create device"})
	}

	return c.Status(fiber.StatusCreated).JSON(entity)
}
