package mocks

import "github.com/stretchr/testify/mock"

type Uplink struct {
	mock.Mock
}

func (m *Uplink) PublishTelemetry(deviceName string, payload interface{}) error {
	args := m.Called(deviceName, payload)
	return args.Error(0)
}

func (m *Uplink) Close() {
	m.Called()
}
