package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VigilNet/FedWatch/pkg/classifier"
	"github.com/VigilNet/FedWatch/pkg/domain/detection"
	"github.com/VigilNet/FedWatch/pkg/infra/broadcast"
	"github.com/VigilNet/FedWatch/pkg/infra/inference"
	"github.com/VigilNet/FedWatch/pkg/infra/objstore"
	"github.com/VigilNet/FedWatch/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Analyzer --dir=. --output=./mocks --filename=analyzer_mock.go --case=underscore --with-expecter
type Analyzer interface {
	// Analyze classifies an upload and, for supported media types, persists
	// the outcome and broadcasts it to connected dashboards.
	Analyze(ctx context.Context, filename, mimeType string, content []byte) (*detection.Detection, classifier.Result, error)
}

type analyzer struct {
	logger     *logrus.Logger
	repo       detection.Repository
	inference  inference.Client
	publisher  broadcast.EventPublisher
	mediaStore objstore.MediaStore
}

// NewAnalyzer wires the analysis pipeline. inferenceClient and mediaStore may
// be nil when the respective integrations are not configured.
func NewAnalyzer(
	logger *logrus.Logger,
	repo detection.Repository,
	inferenceClient inference.Client,
	publisher broadcast.EventPublisher,
	mediaStore objstore.MediaStore,
) Analyzer {
	return &analyzer{
		logger:     logger,
		repo:       repo,
		inference:  inferenceClient,
		publisher:  publisher,
		mediaStore: mediaStore,
	}
}

func (a *analyzer) Analyze(
	ctx context.Context,
	filename, mimeType string,
	content []byte,
) (*detection.Detection, classifier.Result, error) {
	started := time.Now()
	result := a.classify(ctx, filename, mimeType, content)

	prometheus.AnalysisTotal.WithLabelValues(result.ModelUsed, string(result.AnomalyType), outcome(result)).Inc()
	prometheus.AnalysisLatency.WithLabelValues(result.ModelUsed).Observe(float64(time.Since(started).Milliseconds()))

	if result.Error != "" {
		// Unsupported media never reaches the database.
		return nil, result, nil
	}

	entity := detection.FromResult(filename, mimeType, result)
	if a.mediaStore != nil && len(content) > 0 {
		key := fmt.Sprintf("uploads/%s/%s", entity.ID, filename)
		archiveKey, err := a.mediaStore.Archive(ctx, key, content, mimeType)
		if err != nil {
			a.logger.WithError(err).Warn("failed to archive upload, continuing without archive")
		} else {
			entity.ArchiveKey = archiveKey
		}
	}

	if err := a.repo.Create(ctx, entity); err != nil {
		a.logger.WithError(err).Error("failed to persist detection")
		return nil, result, fmt.Errorf("failed to persist detection: %w", err)
	}

	a.publish(ctx, entity, result)
	return entity, result, nil
}

// classify prefers the external inference service and falls back to the
// deterministic classifier on any failure.
func (a *analyzer) classify(ctx context.Context, filename, mimeType string, content []byte) classifier.Result {
	if !supportedMime(mimeType) || a.inference == nil {
		return a.fallback(filename, mimeType)
	}

	remote, err := a.inference.Predict(ctx, filename, mimeType, content)
	if err != nil {
		a.logger.WithError(err).WithField("filename", filename).
			Info("inference unavailable, using fallback classifier")
		prometheus.InferenceFallbackTotal.Inc()
		return a.fallback(filename, mimeType)
	}
	return *remote
}

func (a *analyzer) fallback(filename, mimeType string) classifier.Result {
	return classifier.Classify(classifier.Input{
		Filename: filename,
		MimeType: mimeType,
	})
}

func (a *analyzer) publish(ctx context.Context, entity *detection.Detection, result classifier.Result) {
	if a.publisher == nil {
		return
	}
	ev := broadcast.DetectionCreatedEvent{
		DetectionID:       entity.ID.String(),
		Filename:          entity.Filename,
		AnomalyDetected:   result.AnomalyDetected,
		AnomalyType:       string(result.AnomalyType),
		Severity:          string(result.Severity),
		Confidence:        result.Confidence,
		Description:       result.Description,
		RecommendedAction: string(result.RecommendedAction),
		ModelUsed:         result.ModelUsed,
		BoundingBoxes:     result.BoundingBoxes,
		CreatedAt:         entity.CreatedAt,
	}
	if err := a.publisher.Publish(ctx, ev); err != nil {
		a.logger.WithError(err).Error("failed to publish detection event")
	}
}

func outcome(result classifier.Result) string {
	switch {
	case result.Error != "":
		return "unsupported"
	case result.AnomalyDetected:
		return "anomaly"
	default:
		return "normal"
	}
}

func supportedMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || strings.HasPrefix(mimeType, "video/")
}

// Finder resolves stored detections for the read endpoints.
type Finder interface {
	Get(ctx context.Context, id uuid.UUID) (*detection.Detection, error)
	List(ctx context.Context, filter detection.ListFilter) ([]detection.Detection, error)
	Stats(ctx context.Context) (map[string]int64, error)
}

type finder struct {
	repo detection.Repository
}

func NewFinder(repo detection.Repository) Finder {
	return &finder{repo: repo}
}

func (f *finder) Get(ctx context.Context, id uuid.UUID) (*detection.Detection, error) {
	return f.repo.Get(ctx, id)
}

func (f *finder) List(ctx context.Context, filter detection.ListFilter) ([]detection.Detection, error) {
	return f.repo.List(ctx, filter)
}

// Stats returns detection counts grouped by anomaly type.
func (f *finder) Stats(ctx context.Context) (map[string]int64, error) {
	return f.repo.CountByType(ctx)
}
