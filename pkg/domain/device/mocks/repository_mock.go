package mocks

import (
	"context"

	"github.com/VigilNet/FedWatch/pkg/domain/device"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Create(ctx context.Context, entity *device.EdgeDevice) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, id uuid.UUID) (*device.EdgeDevice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*device.EdgeDevice), args.Error(1)
}

func (m *Repository) List(ctx context.Context) ([]device.EdgeDevice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]device.EdgeDevice), args.Error(1)
}

func (m *Repository) Update(ctx context.Context, entity *device.EdgeDevice) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}
