package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/VigilNet/FedWatch/pkg/config"
	"github.com/VigilNet/FedWatch/pkg/infra/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(t *testing.T, manager jwt.Manager, enabled bool) *fiber.App {
	t.Helper()
	app := fiber.New()
	mw := NewAuthMiddleware(logrus.New(), manager, enabled)
	app.Use(mw.Middleware())
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	manager := jwt.NewJwtManager(&config.ServerConfig{SecretKey: "test-secret"})
	token, err := manager.CreateToken("dashboard")
	require.NoError(t, err)

	app := newAuthApp(t, manager, true)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	manager := jwt.NewJwtManager(&config.ServerConfig{SecretKey: "test-secret"})
	app := newAuthApp(t, manager, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	other := jwt.NewJwtManager(&config.ServerConfig{SecretKey: "other-secret"})
	token, err := other.CreateToken("dashboard")
	require.NoError(t, err)

	manager := jwt.NewJwtManager(&config.ServerConfig{SecretKey: "test-secret"})
	app := newAuthApp(t, manager, true)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	manager := jwt.NewJwtManager(&config.ServerConfig{SecretKey: "test-secret"})
	app := newAuthApp(t, manager, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
