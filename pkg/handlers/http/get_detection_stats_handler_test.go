package http

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/VigilNet/FedWatch/pkg/app/analysis"
	"github.com/VigilNet/FedWatch/pkg/cache"
	detectionMocks "github.com/VigilNet/FedWatch/pkg/domain/detection/mocks"
	"github.com/go-redis/redismock/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetDetectionStatsHandler(t *testing.T) {
	repo := new(detectionMocks.Repository)
	repo.On("CountByType", mock.Anything).Return(map[string]int64{
		"weapon_detected": 2,
		"normal_activity": 5,
	}, nil)

	handler := NewGetDetectionStatsHandler(logrus.New(), nil, analysis.NewFinder(repo))
	app := fiber.New()
	app.Get("/api/v1/detections/stats", handler.Handle)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/detections/stats", nil)
	require.NoError(t, err)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded struct {
		Counts map[string]int64 `json:"counts"`
		Total  int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, int64(7), decoded.Total)
	assert.Equal(t, int64(2), decoded.Counts["weapon_detected"])
	assert.Equal(t, int64(5), decoded.Counts["normal_activity"])
}

func TestGetDetectionStatsHandler_ServesCachedSnapshot(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet(cache.DetectionStatsKey).SetVal(`{"counts":{"normal_activity":5},"total":5}`)

	repo := new(detectionMocks.Repository)
	handler := NewGetDetectionStatsHandler(logrus.New(), cache.NewCacheWithClient(client), analysis.NewFinder(repo))
	app := fiber.New()
	app.Get("/api/v1/detections/stats", handler.Handle)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/detections/stats", nil)
	require.NoError(t, err)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"counts":{"normal_activity":5},"total":5}`, string(body))

	repo.AssertNotCalled(t, "CountByType", mock.Anything)
}
