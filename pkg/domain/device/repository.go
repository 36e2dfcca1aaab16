package device

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=mocks/ --filename=repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Create(ctx context.Context, entity *EdgeDevice) error
	Get(ctx context.Context, id uuid.UUID) (*EdgeDevice, error)
	List(ctx context.Context) ([]EdgeDevice, error)
	Update(ctx context.Context, entity *EdgeDevice) error
}
