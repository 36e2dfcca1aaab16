package http

import (
	"errors"
	"fmt"

	"github.com/VigilNet/FedWatch/pkg/cache"
	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/VigilNet/FedWatch/pkg/domain/flround"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getModelHandler struct {
	logger *logrus.Logger
	cache  *cache.Cache
	rounds flround.Repository
}

func NewGetModelHandler(logger *logrus.Logger, c *cache.Cache, rounds flround.Repository) Handler {
	return &getModelHandler{
		logger: logger,
		cache:  c,
		rounds: rounds,
	}
}

// Handle serves the cached global-model snapshot, falling back to the latest
// persisted round when the cache is cold.
func (h *getModelHandler) Handle(c *fiber.Ctx) error {
	if h.cache != nil {
		if raw, err := h.cache.Get(c.Context(), cache.GlobalModelKey); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(fiber.StatusOK).SendString(raw)
		}
	}

	round, err := h.rounds.Latest(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoRoundsCompleted) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no global model available yet"})
		}
		h.logger.WithError(err).Error("failed to load global model")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load global model"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"round_number":      round.RoundNumber,
		"version":           fmt.Sprintf("v1.%d", round.RoundNumber),
		"global_loss":       round.GlobalLoss,
		"global_accuracy":   round.GlobalAccuracy,
		"epsilon_remaining": round.EpsilonRemaining,
		"participant_count": round.ParticipantCount,
		"updated_at":        round.CompletedAt,
	})
}
