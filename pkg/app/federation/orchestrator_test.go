package federation

import (
	"context"
	"testing"

	"github.com/VigilNet/FedWatch/pkg/config"
	"github.com/VigilNet/FedWatch/pkg/domain"
	"github.com/VigilNet/FedWatch/pkg/domain/device"
	deviceMocks "github.com/VigilNet/FedWatch/pkg/domain/device/mocks"
	"github.com/VigilNet/FedWatch/pkg/domain/flround"
	flroundMocks "github.com/VigilNet/FedWatch/pkg/domain/flround/mocks"
	broadcastMocks "github.com/VigilNet/FedWatch/pkg/infra/broadcast/mocks"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func federationConfig() config.FederationConfig {
	return config.FederationConfig{
		Enabled:           true,
		RoundInterval:     "10ms",
		DeviceCount:       4,
		MinParticipants:   3,
		Seed:              42,
		PrivacyBudget:     0.3,
		EpsilonPerRound:   0.1,
		HeartbeatInterval: "10ms",
	}
}

func onlineFleet(n int) []device.EdgeDevice {
	fleet := make([]device.EdgeDevice, 0, n)
	for i := 0; i < n; i++ {
		fleet = append(fleet, device.EdgeDevice{
			ID:     uuid.New(),
			Name:   "edge-cam-0" + string(rune('1'+i)),
			Status: device.StatusOnline,
		})
	}
	return fleet
}

func newTestOrchestrator(
	devices *deviceMocks.Repository,
	rounds *flroundMocks.Repository,
	publisher *broadcastMocks.EventPublisher,
	cfg config.FederationConfig,
) *Orchestrator {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	sim := NewDeviceSimulator(logger, devices, publisher, nil, nil, cfg)
	return NewOrchestrator(logger, rounds, devices, sim, nil, publisher, cfg)
}

func TestOrchestrator_RunRound(t *testing.T) {
	devices := new(deviceMocks.Repository)
	rounds := new(flroundMocks.Repository)
	publisher := new(broadcastMocks.EventPublisher)
	cfg := federationConfig()

	devices.On("List", mock.Anything).Return(onlineFleet(4), nil)
	devices.On("Update", mock.Anything, mock.AnythingOfType("*device.EdgeDevice")).Return(nil)

	var persisted *flround.TrainingRound
	rounds.On("Create", mock.Anything, mock.AnythingOfType("*flround.TrainingRound")).
		Return(nil).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*flround.TrainingRound)
		})
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("broadcast.RoundCompletedEvent")).Return(nil)

	o := newTestOrchestrator(devices, rounds, publisher, cfg)

	require.NoError(t, o.RunRound(context.Background()))
	require.NotNil(t, persisted)
	assert.Equal(t, 1, persisted.RoundNumber)
	assert.GreaterOrEqual(t, persisted.ParticipantCount, cfg.MinParticipants)
	assert.LessOrEqual(t, persisted.ParticipantCount, 4)
	assert.Len(t, persisted.ClientMetrics, persisted.ParticipantCount)
	assert.InDelta(t, 0.1, persisted.EpsilonSpent, 1e-9)
	assert.InDelta(t, 0.2, persisted.EpsilonRemaining, 1e-9)
	assert.Greater(t, persisted.GlobalLoss, 0.0)
	assert.Greater(t, persisted.GlobalAccuracy, 0.0)
	assert.LessOrEqual(t, persisted.GlobalAccuracy, 1.0)
	publisher.AssertExpectations(t)
}

func TestOrchestrator_BudgetExhaustion(t *testing.T) {
	devices := new(deviceMocks.Repository)
	rounds := new(flroundMocks.Repository)
	publisher := new(broadcastMocks.EventPublisher)
	cfg := federationConfig() // budget 0.3, eps 0.1 -> 3 rounds

	devices.On("List", mock.Anything).Return(onlineFleet(4), nil)
	devices.On("Update", mock.Anything, mock.Anything).Return(nil)
	rounds.On("Create", mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	o := newTestOrchestrator(devices, rounds, publisher, cfg)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, o.RunRound(ctx))
	}
	err := o.RunRound(ctx)
	require.ErrorIs(t, err, ErrBudgetExhausted)
	rounds.AssertNumberOfCalls(t, "Create", 3)
}

func TestOrchestrator_NotEnoughDevices(t *testing.T) {
	devices := new(deviceMocks.Repository)
	rounds := new(flroundMocks.Repository)
	publisher := new(broadcastMocks.EventPublisher)

	fleet := onlineFleet(4)
	for i := range fleet {
		fleet[i].Status = device.StatusOffline
	}
	devices.On("List", mock.Anything).Return(fleet, nil)

	o := newTestOrchestrator(devices, rounds, publisher, federationConfig())

	err := o.RunRound(context.Background())
	require.ErrorIs(t, err, ErrNotEnoughDevices)
	rounds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrchestrator_SeededRunsAreReproducible(t *testing.T) {
	run := func() *flround.TrainingRound {
		devices := new(deviceMocks.Repository)
		rounds := new(flroundMocks.Repository)
		publisher := new(broadcastMocks.EventPublisher)

		fleet := onlineFleet(4)
		devices.On("List", mock.Anything).Return(fleet, nil)
		devices.On("Update", mock.Anything, mock.Anything).Return(nil)

		var persisted *flround.TrainingRound
		rounds.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*flround.TrainingRound)
		})
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		o := newTestOrchestrator(devices, rounds, publisher, federationConfig())
		require.NoError(t, o.RunRound(context.Background()))
		return persisted
	}

	first := run()
	second := run()
	assert.Equal(t, first.ParticipantCount, second.ParticipantCount)
	assert.Equal(t, first.GlobalLoss, second.GlobalLoss)
	assert.Equal(t, first.GlobalAccuracy, second.GlobalAccuracy)
}

func TestAggregate_WeightedAverage(t *testing.T) {
	loss, accuracy := aggregate([]domain.ClientMetric{
		{SampleSize: 100, LocalLoss: 1.0, Accuracy: 0.5},
		{SampleSize: 300, LocalLoss: 2.0, Accuracy: 0.9},
	})
	assert.InDelta(t, 1.75, loss, 1e-9)
	assert.InDelta(t, 0.8, accuracy, 1e-9)

	loss, accuracy = aggregate(nil)
	assert.Zero(t, loss)
	assert.Zero(t, accuracy)
}
