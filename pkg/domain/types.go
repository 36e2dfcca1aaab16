package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/VigilNet/FedWatch/pkg/classifier"
)

type (
	BoundingBoxesJSON []classifier.BoundingBox
	MetadataJSON      classifier.Metadata
	ClientMetricsJSON []ClientMetric
)

// ClientMetric is one simulated participant's contribution to a round.
type ClientMetric struct {
	DeviceID   string  `json:"device_id"`
	SampleSize int     `json:"sample_size"`
	LocalLoss  float64 `json:"local_loss"`
	Accuracy   float64 `json:"accuracy"`
	DurationMs int     `json:"duration_ms"`
}

func (b BoundingBoxesJSON) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

func (b *BoundingBoxesJSON) Scan(value interface{}) error {
	if value == nil {
		*b = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, b)
}

func (m MetadataJSON) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MetadataJSON) Scan(value interface{}) error {
	if value == nil {
		*m = MetadataJSON{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, m)
}

func (c ClientMetricsJSON) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *ClientMetricsJSON) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, c)
}
