package flround

import "context"

//go:generate mockery --name=Repository --dir=. --output=mocks/ --filename=repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Create(ctx context.Context, entity *TrainingRound) error
	Latest(ctx context.Context) (*TrainingRound, error)
	List(ctx context.Context, limit, offset int) ([]TrainingRound, error)
}
