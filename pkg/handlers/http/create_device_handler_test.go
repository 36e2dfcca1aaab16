package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/VigilNet/FedWatch/pkg/domain"
	deviceMocks "github.com/VigilNet/FedWatch/pkg/domain/device/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func postDevice(t *testing.T, app *fiber.App, payload map[string]interface{}) int {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/v1/devices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCreateDeviceHandler_Success(t *testing.T) {
	repo := new(deviceMocks.Repository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*device.EdgeDevice")).Return(nil)

	handler := NewCreateDeviceHandler(logrus.New(), repo)
	app := fiber.New()
	app.Post("/api/v1/devices", handler.Handle)

	status := postDevice(t, app, map[string]interface{}{
		"name": "lobby-cam", "zone": "lobby", "battery_level": 0.8,
	})
	assert.Equal(t, fiber.StatusCreated, status)
	repo.AssertExpectations(t)
}

func TestCreateDeviceHandler_Conflict(t *testing.T) {
	repo := new(deviceMocks.Repository)
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDeviceAlreadyExists)

	handler := NewCreateDeviceHandler(logrus.New(), repo)
	app := fiber.New()
	app.Post("/api/v1/devices", handler.Handle)

	status := postDevice(t, app, map[string]interface{}{"name": "lobby-cam"})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestCreateDeviceHandler_MissingName(t *testing.T) {
	repo := new(deviceMocks.Repository)

	handler := NewCreateDeviceHandler(logrus.New(), repo)
	app := fiber.New()
	app.Post("/api/v1/devices", handler.Handle)

	status := postDevice(t, app, map[string]interface{}{"zone": "lobby"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
