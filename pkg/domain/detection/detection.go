package detection

import (
	"fmt"
	"time"

	"github.com/VigilNet/FedWatch/pkg/classifier"
	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Detection is a persisted analysis outcome for one uploaded file.
type Detection struct {
	ID                uuid.UUID                `json:"id" gorm:"type:uuid;primaryKey"`
	Filename          string                   `json:"filename"`
	MimeType          string                   `json:"mime_type"`
	MediaKind         string                   `json:"media_kind"`
	AnomalyDetected   bool                     `json:"anomaly_detected" gorm:"index"`
	AnomalyType       string                   `json:"anomaly_type"`
	Severity          string                   `json:"severity"`
	Confidence        float64                  `json:"confidence"`
	Description       string                   `json:"description"`
	RecommendedAction string                   `json:"recommended_action"`
	ModelUsed         string                   `json:"model_used"`
	ProcessingTimeMs  int                      `json:"processing_time_ms"`
	BoundingBoxes     domain.BoundingBoxesJSON `json:"bounding_boxes" gorm:"type:jsonb"`
	Metadata          domain.MetadataJSON      `json:"metadata" gorm:"type:jsonb"`
	ArchiveKey        string                   `json:"archive_key,omitempty"`
	CreatedAt         time.Time                `json:"created_at" gorm:"index"`
}

// FromResult builds a Detection record out of a classification result.
func FromResult(filename, mimeType string, res classifier.Result) *Detection {
	return &Detection{
		ID:                uuid.New(),
		Filename:          filename,
		MimeType:          mimeType,
		MediaKind:         res.Metadata.FileType,
		AnomalyDetected:   res.AnomalyDetected,
		AnomalyType:       string(res.AnomalyType),
		Severity:          string(res.Severity),
		Confidence:        res.Confidence,
		Description:       res.Description,
		RecommendedAction: string(res.RecommendedAction),
		ModelUsed:         res.ModelUsed,
		ProcessingTimeMs:  res.ProcessingTimeMs,
		BoundingBoxes:     res.BoundingBoxes,
		Metadata:          domain.MetadataJSON(res.Metadata),
	}
}

func (d *Detection) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	return d.Validate()
}

func (d *Detection) Validate() error {
	if d.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if d.MimeType == "" {
		return fmt.Errorf("mime_type is required")
	}
	return nil
}
