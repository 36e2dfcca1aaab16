package federation

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/VigilNet/FedWatch/pkg/cache"
	"github.com/VigilNet/FedWatch/pkg/config"
	"github.com/VigilNet/FedWatch/pkg/domain/device"
	"github.com/VigilNet/FedWatch/pkg/infra/broadcast"
	"github.com/VigilNet/FedWatch/pkg/infra/mqttuplink"
	"github.com/VigilNet/FedWatch/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

var simulatedZones = []string{
	"north-gate", "parking-lot", "lobby", "loading-dock",
	"perimeter-east", "perimeter-west", "warehouse", "rooftop",
}

// DeviceSimulator keeps a fleet of pretend edge cameras alive: heartbeats,
// battery drain and occasional status flips, all from a seeded RNG so demos
// replay identically.
type DeviceSimulator struct {
	logger    *logrus.Logger
	repo      device.Repository
	publisher broadcast.EventPublisher
	uplink    mqttuplink.Uplink
	telemetry *cache.Cache
	cfg       config.FederationConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDeviceSimulator wires the simulator. uplink and telemetry may be nil
// when no MQTT broker or Redis snapshot cache is configured.
func NewDeviceSimulator(
	logger *logrus.Logger,
	repo device.Repository,
	publisher broadcast.EventPublisher,
	uplink mqttuplink.Uplink,
	telemetry *cache.Cache,
	cfg config.FederationConfig,
) *DeviceSimulator {
	return &DeviceSimulator{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
		uplink:    uplink,
		telemetry: telemetry,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}
}

// EnsureFleet registers the configured number of simulated devices, skipping
// any that already exist from a previous run.
func (s *DeviceSimulator) EnsureFleet(ctx context.Context) error {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		known[d.Name] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < s.cfg.DeviceCount; i++ {
		name := fmt.Sprintf("edge-cam-%02d", i+1)
		if _, ok := known[name]; ok {
			continue
		}
		d := &device.EdgeDevice{
			Name:         name,
			Zone:         simulatedZones[i%len(simulatedZones)],
			Status:       device.StatusOnline,
			BatteryLevel: 0.6 + s.rng.Float64()*0.4,
		}
		if err := s.repo.Create(ctx, d); err != nil {
			return fmt.Errorf("failed to register device %s: %w", name, err)
		}
	}
	return nil
}

// Run emits heartbeats until ctx is cancelled.
func (s *DeviceSimulator) Run(ctx context.Context) error {
	interval, err := time.ParseDuration(s.cfg.HeartbeatInterval)
	if err != nil {
		return fmt.Errorf("invalid heartbeat_interval: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("device simulator shutting down")
			return nil
		case <-ticker.C:
			if err := s.heartbeat(ctx); err != nil {
				s.logger.WithError(err).Error("device heartbeat failed")
			}
		}
	}
}

func (s *DeviceSimulator) heartbeat(ctx context.Context) error {
	devices, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	statusCounts := map[string]int{
		device.StatusOnline:   0,
		device.StatusOffline:  0,
		device.StatusDegraded: 0,
	}

	for i := range devices {
		d := &devices[i]
		prevStatus := d.Status
		s.tick(d)
		statusCounts[d.Status]++

		if err := s.repo.Update(ctx, d); err != nil {
			s.logger.WithError(err).WithField("device", d.Name).Error("failed to update device")
			continue
		}
		if d.Status != prevStatus {
			s.publishStatusChange(ctx, d)
		}
		s.publishTelemetry(d)
		s.cacheTelemetry(ctx, d)
	}

	for status, count := range statusCounts {
		prometheus.DevicesByStatus.WithLabelValues(status).Set(float64(count))
	}
	return nil
}

// tick advances one device by one heartbeat: battery drains while online,
// recharges while offline, and status flips with small seeded probabilities.
func (s *DeviceSimulator) tick(d *device.EdgeDevice) {
	s.mu.Lock()
	roll := s.rng.Float64()
	drain := 0.005 + s.rng.Float64()*0.01
	s.mu.Unlock()

	switch d.Status {
	case device.StatusOffline:
		d.BatteryLevel += drain * 4
		if d.BatteryLevel > 0.3 && roll < 0.40 {
			d.Status = device.StatusOnline
		}
	case device.StatusDegraded:
		d.BatteryLevel -= drain / 2
		if roll < 0.30 {
			d.Status = device.StatusOnline
		} else if roll > 0.95 {
			d.Status = device.StatusOffline
		}
	default:
		d.BatteryLevel -= drain
		if d.BatteryLevel < 0.05 || roll > 0.97 {
			d.Status = device.StatusOffline
		} else if roll > 0.92 {
			d.Status = device.StatusDegraded
		}
	}

	if d.BatteryLevel > 1.0 {
		d.BatteryLevel = 1.0
	}
	if d.BatteryLevel < 0 {
		d.BatteryLevel = 0
	}
	if d.Status != device.StatusOffline {
		d.LastSeen = time.Now()
	}
}

func (s *DeviceSimulator) publishStatusChange(ctx context.Context, d *device.EdgeDevice) {
	if s.publisher == nil {
		return
	}
	ev := broadcast.DeviceStatusChangedEvent{
		DeviceID:     d.ID.String(),
		Name:         d.Name,
		Zone:         d.Zone,
		Status:       d.Status,
		BatteryLevel: d.BatteryLevel,
		LastSeen:     d.LastSeen,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.WithError(err).Error("failed to publish device status event")
	}
}

func (s *DeviceSimulator) publishTelemetry(d *device.EdgeDevice) {
	if s.uplink == nil {
		return
	}
	if err := s.uplink.PublishTelemetry(d.Name, d); err != nil {
		s.logger.WithError(err).WithField("device", d.Name).Warn("mqtt telemetry publish failed")
	}
}

// cacheTelemetry keeps the latest per-device snapshot in Redis so dashboards
// can read device state without a database round trip.
func (s *DeviceSimulator) cacheTelemetry(ctx context.Context, d *device.EdgeDevice) {
	if s.telemetry == nil {
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		return
	}
	key := fmt.Sprintf(cache.DeviceTelemetryKey, d.Name)
	if err := s.telemetry.Set(ctx, key, string(data), s.telemetry.TTL()); err != nil {
		s.logger.WithError(err).WithField("device", d.Name).Warn("failed to cache device telemetry")
	}
}

// OnlineDevices filters the fleet down to round-eligible participants.
func (s *DeviceSimulator) OnlineDevices(ctx context.Context) ([]device.EdgeDevice, error) {
	devices, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	online := make([]device.EdgeDevice, 0, len(devices))
	for _, d := range devices {
		if d.Status == device.StatusOnline {
			online = append(online, d)
		}
	}
	return online, nil
}
