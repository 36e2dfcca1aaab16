package middleware

import (
	"strings"

	"github.com/VigilNet/FedWatch/pkg/infra/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// authMiddleware guards mutating routes with a bearer token minted by the
// platform's JWT manager.
type authMiddleware struct {
	logger  *logrus.Logger
	manager jwt.Manager
	enabled bool
}

func NewAuthMiddleware(logger *logrus.Logger, manager jwt.Manager, enabled bool) Middleware {
	return &authMiddleware{
		logger:  logger,
		manager: manager,
		enabled: enabled,
	}
}

func (m *authMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !m.enabled {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			m.logger.Debug("missing bearer token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authorization required"})
		}

		if err := m.manager.ValidateToken(token); err != nil {
			m.logger.WithError(err).Debug("token validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		return c.Next()
	}
}
