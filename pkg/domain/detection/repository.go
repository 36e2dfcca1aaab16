package detection

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a detection listing.
type ListFilter struct {
	AnomalyOnly bool
	Limit       int
	Offset      int
}

//go:generate mockery --name=Repository --dir=. --output=mocks/ --filename=repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Create(ctx context.Context, entity *Detection) error
	Get(ctx context.Context, id uuid.UUID) (*Detection, error)
	List(ctx context.Context, filter ListFilter) ([]Detection, error)
	CountByType(ctx context.Context) (map[string]int64, error)
}
