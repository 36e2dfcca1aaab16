package inference

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/VigilNet/FedWatch/pkg/config"
	"github.com/VigilNet/FedWatch/pkg/infra/httpx"
	httpxmocks "github.com/VigilNet/FedWatch/pkg/infra/httpx/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() config.InferenceConfig {
	return config.InferenceConfig{
		Endpoint:       "http://inference:8000",
		APIKey:         "test-key",
		TimeoutSeconds: 5,
		MaxFailures:    3,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestClient_Predict(t *testing.T) {
	httpClient := new(httpxmocks.MockHTTPClient)
	httpClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodPost &&
			req.URL.String() == "http://inference:8000/predict" &&
			req.Header.Get("Authorization") == "Bearer test-key" &&
			strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data")
	})).Return(jsonResponse(http.StatusOK, `{
		"anomaly_detected": true,
		"anomaly_type": "fighting",
		"confidence": 0.82,
		"severity": "high",
		"description": "Fighting detected",
		"recommended_action": "alert",
		"model_used": "TimeSFormer",
		"processing_time_ms": 3100
	}`), nil)

	c := NewClientWithHTTP(logrus.New(), httpClient, httpx.NewCircuitBreaker("test", 0, 3), testConfig())

	res, err := c.Predict(context.Background(), "brawl.mp4", "video/mp4", []byte("fake-bytes"))
	require.NoError(t, err)
	assert.True(t, res.AnomalyDetected)
	assert.Equal(t, "fighting", string(res.AnomalyType))
	assert.Equal(t, 0.82, res.Confidence)
	assert.Equal(t, "TimeSFormer", res.ModelUsed)
	assert.Equal(t, "video/mp4", res.Metadata.FileType)
	httpClient.AssertExpectations(t)
}

func TestClient_PredictNonOKStatus(t *testing.T) {
	httpClient := new(httpxmocks.MockHTTPClient)
	httpClient.On("Do", mock.Anything).Return(jsonResponse(http.StatusServiceUnavailable, `{"detail":"model warming up"}`), nil)

	c := NewClientWithHTTP(logrus.New(), httpClient, httpx.NewCircuitBreaker("test", 0, 3), testConfig())

	res, err := c.Predict(context.Background(), "clip.mp4", "video/mp4", []byte("x"))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "status 503")
}

func TestClient_PredictWithoutEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.Endpoint = ""
	c := NewClientWithHTTP(logrus.New(), new(httpxmocks.MockHTTPClient), httpx.NewCircuitBreaker("test", 0, 3), cfg)

	_, err := c.Predict(context.Background(), "clip.mp4", "video/mp4", []byte("x"))
	require.Error(t, err)
}

func TestClient_Health(t *testing.T) {
	httpClient := new(httpxmocks.MockHTTPClient)
	httpClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodGet && req.URL.String() == "http://inference:8000/health"
	})).Return(jsonResponse(http.StatusOK, `{
		"status": "healthy",
		"model_loaded": true,
		"uptime_seconds": 512.4,
		"version": "1.2.0"
	}`), nil)

	c := NewClientWithHTTP(logrus.New(), httpClient, httpx.NewCircuitBreaker("test", 0, 3), testConfig())

	hs, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", hs.Status)
	assert.True(t, hs.ModelLoaded)
	assert.Equal(t, 512.4, hs.UptimeSeconds)
	assert.Equal(t, "1.2.0", hs.Version)
}
