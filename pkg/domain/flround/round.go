package flround

import (
	"time"

	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrainingRound is one completed (simulated) federated-learning round.
type TrainingRound struct {
	ID               uuid.UUID                `json:"id" gorm:"type:uuid;primaryKey"`
	RoundNumber      int                      `json:"round_number" gorm:"uniqueIndex"`
	ParticipantCount int                      `json:"participant_count"`
	GlobalLoss       float64                  `json:"global_loss"`
	GlobalAccuracy   float64                  `json:"global_accuracy"`
	EpsilonSpent     float64                  `json:"epsilon_spent"`
	EpsilonRemaining float64                  `json:"epsilon_remaining"`
	DurationMs       int                      `json:"duration_ms"`
	ClientMetrics    domain.ClientMetricsJSON `json:"client_metrics" gorm:"type:jsonb"`
	CompletedAt      time.Time                `json:"completed_at" gorm:"index"`
}

func (r *TrainingRound) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now()
	}
	return nil
}
