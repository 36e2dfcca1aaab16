package http

import (
	"errors"

	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/VigilNet/FedWatch/pkg/domain/flround"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getLatestRoundHandler struct {
	logger *logrus.Logger
	repo   flround.Repository
}

func NewGetLatestRoundHandler(logger *logrus.Logger, repo flround.Repository) Handler {
	return &getLatestRoundHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *getLatestRoundHandler) Handle(c *fiber.Ctx) error {
	round, err := h.repo.Latest(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoRoundsCompleted) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no training rounds completed yet"})
		}
		h.logger.WithError(err).Error("failed to get latest round")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get latest round"})
	}

	return c.Status(fiber.StatusOK).JSON(round)
}
