package broadcast

import (
	"time"

	"github.com/VigilNet/FedWatch/pkg/classifier"
	"github.com/VigilNet/FedWatch/pkg/domain"
)

// EventsChannel is the Redis pub/sub channel feeding every dashboard.
const EventsChannel = "fedwatch:events"

const (
	TypeDetectionCreated    = "detection.created"
	TypeRoundCompleted      = "round.completed"
	TypeDeviceStatusChanged = "device.status_changed"
)

// Event is anything that can be fanned out to connected dashboards.
type Event interface {
	Type() string
}

type DetectionCreatedEvent struct {
	DetectionID       string                   `json:"detection_id"`
	Filename          string                   `json:"filename"`
	AnomalyDetected   bool                     `json:"anomaly_detected"`
	AnomalyType       string                   `json:"anomaly_type"`
	Severity          string                   `json:"severity"`
	Confidence        float64                  `json:"confidence"`
	Description       string                   `json:"description"`
	RecommendedAction string                   `json:"recommended_action"`
	ModelUsed         string                   `json:"model_used"`
	BoundingBoxes     []classifier.BoundingBox `json:"bounding_boxes"`
	CreatedAt         time.Time                `json:"created_at"`
}

func (DetectionCreatedEvent) Type() string { return TypeDetectionCreated }

type RoundCompletedEvent struct {
	RoundID          string                `json:"round_id"`
	RoundNumber      int                   `json:"round_number"`
	ParticipantCount int                   `json:"participant_count"`
	GlobalLoss       float64               `json:"global_loss"`
	GlobalAccuracy   float64               `json:"global_accuracy"`
	EpsilonSpent     float64               `json:"epsilon_spent"`
	EpsilonRemaining float64               `json:"epsilon_remaining"`
	ClientMetrics    []domain.ClientMetric `json:"client_metrics"`
	CompletedAt      time.Time             `json:"completed_at"`
}

func (RoundCompletedEvent) Type() string { return TypeRoundCompleted }

type DeviceStatusChangedEvent struct {
	DeviceID     string    `json:"device_id"`
	Name         string    `json:"name"`
	Zone         string    `json:"zone"`
	Status       string    `json:"status"`
	BatteryLevel float64   `json:"battery_level"`
	LastSeen     time.Time `json:"last_seen"`
}

func (DeviceStatusChangedEvent) Type() string { return TypeDeviceStatusChanged }
