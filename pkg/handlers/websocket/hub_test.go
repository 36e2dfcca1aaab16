package websocket

import (
	"encoding/json"
	"testing"

	"github.com/VigilNet/FedWatch/pkg/infra/broadcast"
	infraWebsocket "github.com/VigilNet/FedWatch/pkg/infra/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_FanOut(t *testing.T) {
	hub := NewHub(logrus.New())

	first := hub.Register()
	second := hub.Register()
	require.Equal(t, 2, hub.ClientCount())

	hub.HandleEnvelope(broadcast.Envelope{
		Type:  broadcast.TypeDetectionCreated,
		Event: json.RawMessage(`{"filename":"yard.mp4"}`),
	})

	for _, ch := range []chan []byte{first, second} {
		var frame infraWebsocket.Frame
		require.NoError(t, json.Unmarshal(<-ch, &frame))
		assert.Equal(t, broadcast.TypeDetectionCreated, frame.Type)
		assert.JSONEq(t, `{"filename":"yard.mp4"}`, string(frame.Event))
	}
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub(logrus.New())
	ch := hub.Register()

	// Fill the client buffer, then overflow it.
	for i := 0; i < 40; i++ {
		hub.HandleEnvelope(broadcast.Envelope{Type: broadcast.TypeRoundCompleted})
	}
	assert.Equal(t, 32, len(ch))
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub(logrus.New())
	ch := hub.Register()
	hub.Unregister(ch)
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-ch
	assert.False(t, open)

	// Double unregister is a no-op.
	hub.Unregister(ch)
}
