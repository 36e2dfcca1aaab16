package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/VigilNet/FedWatch/pkg/classifier"
	"github.com/VigilNet/FedWatch/pkg/config"
	"github.com/VigilNet/FedWatch/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

// HealthStatus is the inference service's own health report.
type HealthStatus struct {
	Status        string  `json:"status"`
	ModelLoaded   bool    `json:"model_loaded"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Version       string  `json:"version"`
}

//go:generate mockery --name=Client --dir=. --output=mocks/ --filename=client_mock.go --case=underscore --with-expecter
type Client interface {
	// Predict submits the uploaded media for real inference. A non-nil error
	// means the caller should fall back to local classification.
	Predict(ctx context.Context, filename, mimeType string, content []byte) (*classifier.Result, error)
	Health(ctx context.Context) (*HealthStatus, error)
}

type client struct {
	httpClient httpx.Client
	breaker    httpx.CircuitBreaker
	logger     *logrus.Logger
	endpoint   string
	apiKey     string
}

func NewClient(logger *logrus.Logger, cfg config.InferenceConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return &client{
		httpClient: httpx.NewFastHTTPClient(timeout),
		breaker:    httpx.NewCircuitBreaker("inference", timeout, uint32(cfg.MaxFailures)),
		logger:     logger,
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
	}
}

// NewClientWithHTTP is used by tests to inject a mock transport.
func NewClientWithHTTP(logger *logrus.Logger, httpClient httpx.Client, breaker httpx.CircuitBreaker, cfg config.InferenceConfig) Client {
	return &client{
		httpClient: httpClient,
		breaker:    breaker,
		logger:     logger,
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
	}
}

func (c *client) Predict(ctx context.Context, filename, mimeType string, content []byte) (*classifier.Result, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("inference endpoint not configured")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/predict", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	var result classifier.Result
	err = c.breaker.Execute(func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("inference request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read inference response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("inference service returned status %d: %s", resp.StatusCode, string(respBody))
		}
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("failed to decode inference response: %w", err)
		}
		return nil
	})
	if err != nil {
		c.logger.WithError(err).WithField("filename", filename).Warn("inference call failed")
		return nil, err
	}

	// The remote mime detection is not authoritative, keep ours.
	if result.Metadata.FileType == "" {
		result.Metadata.FileType = mimeType
	}
	return &result, nil
}

func (c *client) Health(ctx context.Context) (*HealthStatus, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("inference endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference health check failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference service returned status %d", resp.StatusCode)
	}

	v, err := fastjson.ParseBytes(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}
	return &HealthStatus{
		Status:        string(v.GetStringBytes("status")),
		ModelLoaded:   v.GetBool("model_loaded"),
		UptimeSeconds: v.GetFloat64("uptime_seconds"),
		Version:       string(v.GetStringBytes("version")),
	}, nil
}
