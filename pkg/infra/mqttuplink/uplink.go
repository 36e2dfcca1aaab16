package mqttuplink

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/VigilNet/FedWatch/pkg/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// Uplink mirrors device telemetry onto an MQTT broker so external collectors
// can consume it alongside real camera fleets.
//
//go:generate mockery --name=Uplink --dir=. --output=mocks/ --filename=uplink_mock.go --case=underscore --with-expecter
type Uplink interface {
	PublishTelemetry(deviceName string, payload interface{}) error
	Close()
}

type uplink struct {
	client mqtt.Client
	logger *logrus.Logger
	topic  string
}

func NewUplink(logger *logrus.Logger, cfg config.MQTTConfig) (Uplink, error) {
	broker := fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(5 * time.Second)
	opts.SetKeepAlive(30 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	cli := mqtt.NewClient(opts)
	token := cli.Connect()
	if ok := token.WaitTimeout(10 * time.Second); !ok {
		return nil, fmt.Errorf("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}

	logger.WithField("broker", broker).Info("mqtt uplink connected")

	return &uplink{
		client: cli,
		logger: logger,
		topic:  cfg.Topic,
	}, nil
}

func (u *uplink) PublishTelemetry(deviceName string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode telemetry: %w", err)
	}
	topic := fmt.Sprintf("%s/%s", u.topic, deviceName)
	token := u.client.Publish(topic, 0, false, data)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish telemetry: %w", err)
	}
	return nil
}

func (u *uplink) Close() {
	if u.client != nil && u.client.IsConnected() {
		u.client.Disconnect(250)
	}
}
