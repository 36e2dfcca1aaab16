package federation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/VigilNet/FedWatch/pkg/cache"
	"github.com/VigilNet/FedWatch/pkg/config"
	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/VigilNet/FedWatch/pkg/domain/device"
	"github.com/VigilNet/FedWatch/pkg/domain/flround"
	"github.com/VigilNet/FedWatch/pkg/infra/broadcast"
	"github.com/VigilNet/FedWatch/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// GlobalModel is the cached snapshot of the aggregated model state exposed at
// /api/v1/model.
type GlobalModel struct {
	RoundNumber      int       `json:"round_number"`
	Version          string    `json:"version"`
	GlobalLoss       float64   `json:"global_loss"`
	GlobalAccuracy   float64   `json:"global_accuracy"`
	EpsilonRemaining float64   `json:"epsilon_remaining"`
	ParticipantCount int       `json:"participant_count"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Orchestrator drives simulated federated-learning rounds on a fixed
// interval. All randomness comes from the configured seed.
type Orchestrator struct {
	logger    *logrus.Logger
	rounds    flround.Repository
	devices   device.Repository
	simulator *DeviceSimulator
	cache     *cache.Cache
	publisher broadcast.EventPublisher
	cfg       config.FederationConfig

	mu           sync.Mutex
	rng          *rand.Rand
	roundNumber  int
	epsilonSpent float64
}

func NewOrchestrator(
	logger *logrus.Logger,
	rounds flround.Repository,
	devices device.Repository,
	simulator *DeviceSimulator,
	cache *cache.Cache,
	publisher broadcast.EventPublisher,
	cfg config.FederationConfig,
) *Orchestrator {
	return &Orchestrator{
		logger:    logger,
		rounds:    rounds,
		devices:   devices,
		simulator: simulator,
		cache:     cache,
		publisher: publisher,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed + 1)),
	}
}

// Resume picks up the round counter and spent budget from persisted state so
// restarts continue the sequence instead of starting over.
func (o *Orchestrator) Resume(ctx context.Context) error {
	latest, err := o.rounds.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoRoundsCompleted) {
			return nil
		}
		return fmt.Errorf("failed to load latest round: %w", err)
	}
	o.mu.Lock()
	o.roundNumber = latest.RoundNumber
	o.epsilonSpent = latest.EpsilonSpent
	o.mu.Unlock()
	return nil
}

// Run executes training rounds until ctx is cancelled or the privacy budget
// is exhausted.
func (o *Orchestrator) Run(ctx context.Context) error {
	interval, err := time.ParseDuration(o.cfg.RoundInterval)
	if err != nil {
		return fmt.Errorf("invalid round_interval: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("federation orchestrator shutting down")
			return nil
		case <-ticker.C:
			if err := o.RunRound(ctx); err != nil {
				switch {
				case errors.Is(err, ErrBudgetExhausted):
					o.logger.Warn("privacy budget exhausted, stopping training rounds")
					return nil
				case errors.Is(err, ErrNotEnoughDevices):
					// Transient fleet state, try again next tick.
				default:
					o.logger.WithError(err).Error("training round failed")
				}
			}
		}
	}
}

var (
	ErrBudgetExhausted  = errors.New("privacy budget exhausted")
	ErrNotEnoughDevices = errors.New("not enough online devices for a round")
)

// RunRound executes exactly one training round.
func (o *Orchestrator) RunRound(ctx context.Context) error {
	o.mu.Lock()
	if o.epsilonSpent+o.cfg.EpsilonPerRound > o.cfg.PrivacyBudget {
		o.mu.Unlock()
		return ErrBudgetExhausted
	}
	o.mu.Unlock()

	online, err := o.simulator.OnlineDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to select participants: %w", err)
	}
	if len(online) < o.cfg.MinParticipants {
		o.logger.WithFields(logrus.Fields{
			"online":   len(online),
			"required": o.cfg.MinParticipants,
		}).Debug("skipping round, not enough online devices")
		return ErrNotEnoughDevices
	}

	started := time.Now()

	o.mu.Lock()
	o.roundNumber++
	roundNumber := o.roundNumber
	participants := o.pickParticipantsLocked(online)
	metrics := o.clientUpdatesLocked(roundNumber, participants)
	o.epsilonSpent += o.cfg.EpsilonPerRound
	epsilonSpent := o.epsilonSpent
	o.mu.Unlock()

	globalLoss, globalAccuracy := aggregate(metrics)
	epsilonRemaining := o.cfg.PrivacyBudget - epsilonSpent

	round := &flround.TrainingRound{
		RoundNumber:      roundNumber,
		ParticipantCount: len(participants),
		GlobalLoss:       globalLoss,
		GlobalAccuracy:   globalAccuracy,
		EpsilonSpent:     epsilonSpent,
		EpsilonRemaining: epsilonRemaining,
		DurationMs:       int(time.Since(started).Milliseconds()) + maxClientDuration(metrics),
		ClientMetrics:    metrics,
	}
	if err := o.rounds.Create(ctx, round); err != nil {
		return fmt.Errorf("failed to persist round %d: %w", roundNumber, err)
	}

	o.bumpParticipation(ctx, participants)
	o.cacheGlobalModel(ctx, round)
	o.publishRound(ctx, round)

	prometheus.TrainingRoundsTotal.Inc()
	prometheus.PrivacyBudgetRemaining.Set(epsilonRemaining)

	o.logger.WithFields(logrus.Fields{
		"round":        roundNumber,
		"participants": len(participants),
		"loss":         globalLoss,
		"accuracy":     globalAccuracy,
		"eps_left":     epsilonRemaining,
	}).Info("training round completed")
	return nil
}

// pickParticipantsLocked samples a subset of the online fleet. Caller holds mu.
func (o *Orchestrator) pickParticipantsLocked(online []device.EdgeDevice) []device.EdgeDevice {
	count := o.cfg.MinParticipants + o.rng.Intn(len(online)-o.cfg.MinParticipants+1)
	shuffled := make([]device.EdgeDevice, len(online))
	copy(shuffled, online)
	o.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count]
}

// clientUpdatesLocked fabricates per-client training metrics: loss decays with
// round number and accuracy climbs, with per-client jitter. Caller holds mu.
func (o *Orchestrator) clientUpdatesLocked(roundNumber int, participants []device.EdgeDevice) []domain.ClientMetric {
	metrics := make([]domain.ClientMetric, 0, len(participants))
	for _, d := range participants {
		jitter := 0.9 + o.rng.Float64()*0.2
		loss := (2.0 / (1.0 + 0.15*float64(roundNumber))) * jitter
		accuracy := (1.0 - math.Exp(-0.12*float64(roundNumber))) * (0.85 + o.rng.Float64()*0.1)
		metrics = append(metrics, domain.ClientMetric{
			DeviceID:   d.ID.String(),
			SampleSize: 200 + o.rng.Intn(800),
			LocalLoss:  round4(loss),
			Accuracy:   round4(clampUnit(accuracy)),
			DurationMs: 1000 + o.rng.Intn(4000),
		})
	}
	return metrics
}

// aggregate computes the sample-size weighted average of the client updates.
func aggregate(metrics []domain.ClientMetric) (loss, accuracy float64) {
	var totalSamples int
	for _, m := range metrics {
		totalSamples += m.SampleSize
		loss += m.LocalLoss * float64(m.SampleSize)
		accuracy += m.Accuracy * float64(m.SampleSize)
	}
	if totalSamples == 0 {
		return 0, 0
	}
	return round4(loss / float64(totalSamples)), round4(accuracy / float64(totalSamples))
}

func (o *Orchestrator) bumpParticipation(ctx context.Context, participants []device.EdgeDevice) {
	for i := range participants {
		d := participants[i]
		d.RoundsParticipated++
		if err := o.devices.Update(ctx, &d); err != nil {
			o.logger.WithError(err).WithField("device", d.Name).Error("failed to record participation")
		}
	}
}

func (o *Orchestrator) cacheGlobalModel(ctx context.Context, round *flround.TrainingRound) {
	if o.cache == nil {
		return
	}
	snapshot := GlobalModel{
		RoundNumber:      round.RoundNumber,
		Version:          fmt.Sprintf("v1.%d", round.RoundNumber),
		GlobalLoss:       round.GlobalLoss,
		GlobalAccuracy:   round.GlobalAccuracy,
		EpsilonRemaining: round.EpsilonRemaining,
		ParticipantCount: round.ParticipantCount,
		UpdatedAt:        time.Now(),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		o.logger.WithError(err).Error("failed to encode global model snapshot")
		return
	}
	if err := o.cache.Set(ctx, cache.GlobalModelKey, string(data), 0); err != nil {
		o.logger.WithError(err).Error("failed to cache global model snapshot")
	}
}

func (o *Orchestrator) publishRound(ctx context.Context, round *flround.TrainingRound) {
	if o.publisher == nil {
		return
	}
	ev := broadcast.RoundCompletedEvent{
		RoundID:          round.ID.String(),
		RoundNumber:      round.RoundNumber,
		ParticipantCount: round.ParticipantCount,
		GlobalLoss:       round.GlobalLoss,
		GlobalAccuracy:   round.GlobalAccuracy,
		EpsilonSpent:     round.EpsilonSpent,
		EpsilonRemaining: round.EpsilonRemaining,
		ClientMetrics:    round.ClientMetrics,
		CompletedAt:      round.CompletedAt,
	}
	if err := o.publisher.Publish(ctx, ev); err != nil {
		o.logger.WithError(err).Error("failed to publish round event")
	}
}

func maxClientDuration(metrics []domain.ClientMetric) int {
	max := 0
	for _, m := range metrics {
		if m.DurationMs > max {
			max = m.DurationMs
		}
	}
	return max
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
