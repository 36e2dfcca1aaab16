package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/VigilNet/FedWatch/pkg/domain/detection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DetectionRepository struct {
	db *gorm.DB
}

func NewDetectionRepository(db *gorm.DB) detection.Repository {
	return &DetectionRepository{
		db: db,
	}
}

func (r *DetectionRepository) Create(ctx context.Context, entity *detection.Detection) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create detection: %w", err)
	}
	return nil
}

func (r *DetectionRepository) Get(ctx context.Context, id uuid.UUID) (*detection.Detection, error) {
	var entity detection.Detection
	result := r.db.WithContext(ctx).First(&entity, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("detection", id)
		}
		return nil, fmt.Errorf("detection: %w", result.Error)
	}
	return &entity, nil
}

func (r *DetectionRepository) List(ctx context.Context, filter detection.ListFilter) ([]detection.Detection, error) {
	query := r.db.WithContext(ctx).Model(&detection.Detection{}).Order("created_at DESC")
	if filter.AnomalyOnly {
		query = query.Where("anomaly_detected = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	var entities []detection.Detection
	if err := query.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list detections: %w", err)
	}
	return entities, nil
}

func (r *DetectionRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	type row struct {
		AnomalyType string
		Count       int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&detection.Detection{}).
		Select("anomaly_type, count(*) as count").
		Group("anomaly_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count detections: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.AnomalyType] = r.Count
	}
	return counts, nil
}
