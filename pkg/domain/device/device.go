package device

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusOnline   = "online"
	StatusOffline  = "offline"
	StatusDegraded = "degraded"
)

// EdgeDevice is one simulated camera node participating in federated rounds.
type EdgeDevice struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name               string    `json:"name" gorm:"uniqueIndex"`
	Zone               string    `json:"zone"`
	Status             string    `json:"status"`
	BatteryLevel       float64   `json:"battery_level"`
	RoundsParticipated int       `json:"rounds_participated"`
	LastSeen           time.Time `json:"last_seen"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (d *EdgeDevice) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.LastSeen.IsZero() {
		d.LastSeen = now
	}
	return d.Validate()
}

func (d *EdgeDevice) BeforeUpdate(tx *gorm.DB) error {
	d.UpdatedAt = time.Now()
	return d.Validate()
}

func (d *EdgeDevice) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Status == "" {
		d.Status = StatusOnline
	}
	switch d.Status {
	case StatusOnline, StatusOffline, StatusDegraded:
	default:
		return fmt.Errorf("invalid status %q", d.Status)
	}
	return nil
}
