package mocks

import (
	"context"

	"github.com/VigilNet/FedWatch/pkg/domain/flround"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Create(ctx context.Context, entity *flround.TrainingRound) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *Repository) Latest(ctx context.Context) (*flround.TrainingRound, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flround.TrainingRound), args.Error(1)
}

func (m *Repository) List(ctx context.Context, limit, offset int) ([]flround.TrainingRound, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]flround.TrainingRound), args.Error(1)
}
