package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/VigilNet/FedWatch/pkg/domain/flround"
	"gorm.io/gorm"
)

type RoundRepository struct {
	db *gorm.DB
}

func NewRoundRepository(db *gorm.DB) flround.Repository {
	return &RoundRepository{
		db: db,
	}
}

func (r *RoundRepository) Create(ctx context.Context, entity *flround.TrainingRound) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create training round: %w", err)
	}
	return nil
}

func (r *RoundRepository) Latest(ctx context.Context) (*flround.TrainingRound, error) {
	var entity flround.TrainingRound
	result := r.db.WithContext(ctx).Order("round_number DESC").First(&entity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoRoundsCompleted
		}
		return nil, fmt.Errorf("training round: %w", result.Error)
	}
	return &entity, nil
}

func (r *RoundRepository) List(ctx context.Context, limit, offset int) ([]flround.TrainingRound, error) {
	query := r.db.WithContext(ctx).Model(&flround.TrainingRound{}).Order("round_number DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var entities []flround.TrainingRound
	if err := query.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list training rounds: %w", err)
	}
	return entities, nil
}
