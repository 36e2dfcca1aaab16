package http

import (
	"github.com/VigilNet/FedWatch/pkg/domain/flround"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listRoundsHandler struct {
	logger *logrus.Logger
	repo   flround.Repository
}

func NewListRoundsHandler(logger *logrus.Logger, repo flround.Repository) Handler {
	return &listRoundsHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *listRoundsHandler) Handle(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > maxPageSize {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	rounds, err := h.repo.List(c.Context(), limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("failed to list training rounds")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list training rounds"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"rounds": rounds,
		"count":  len(rounds),
	})
}
