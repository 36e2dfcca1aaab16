package mocks

import (
	"context"

	"github.com/VigilNet/FedWatch/pkg/infra/broadcast"
	"github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, ev broadcast.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
