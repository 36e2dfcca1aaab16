package mocks

import (
	"context"

	"github.com/VigilNet/FedWatch/pkg/domain/detection"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Create(ctx context.Context, entity *detection.Detection) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, id uuid.UUID) (*detection.Detection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*detection.Detection), args.Error(1)
}

func (m *Repository) List(ctx context.Context, filter detection.ListFilter) ([]detection.Detection, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]detection.Detection), args.Error(1)
}

func (m *Repository) CountByType(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}
