package mocks

import (
	"context"

	"github.com/VigilNet/FedWatch/pkg/classifier"
	"github.com/VigilNet/FedWatch/pkg/infra/inference"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) Predict(ctx context.Context, filename, mimeType string, content []byte) (*classifier.Result, error) {
	args := m.Called(ctx, filename, mimeType, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.Result), args.Error(1)
}

func (m *Client) Health(ctx context.Context) (*inference.HealthStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inference.HealthStatus), args.Error(1)
}
