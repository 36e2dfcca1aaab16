package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/VigilNet/FedWatch/pkg/domain/device"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) device.Repository {
	return &DeviceRepository{
		db: db,
	}
}

func (r *DeviceRepository) Create(ctx context.Context, entity *device.EdgeDevice) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDeviceAlreadyExists
		}
		return fmt.Errorf("failed to create device: %w", err)
	}
	return nil
}

func (r *DeviceRepository) Get(ctx context.Context, id uuid.UUID) (*device.EdgeDevice, error) {
	var entity device.EdgeDevice
	result := r.db.WithContext(ctx).First(&entity, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("device", id)
		}
		return nil, fmt.Errorf("device: %w", result.Error)
	}
	return &entity, nil
}

func (r *DeviceRepository) List(ctx context.Context) ([]device.EdgeDevice, error) {
	var entities []device.EdgeDevice
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return entities, nil
}

func (r *DeviceRepository) Update(ctx context.Context, entity *device.EdgeDevice) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}
	return nil
}
