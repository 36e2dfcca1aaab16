package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/VigilNet/FedWatch/pkg/cache"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisEventListener_StopsOnContextCancel(t *testing.T) {
	// An unreachable address keeps the subscription in its reconnect path;
	// cancellation must still unwind Listen promptly.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	listener := NewRedisEventListener(logger, cache.NewCacheWithClient(client))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		listener.Listen(ctx, func(Envelope) {})
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("listener did not stop after context cancellation")
	}
}

func TestHandleMessage_DecodesEnvelope(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	listener := &redisEventListener{logger: logger}

	var received []Envelope
	payload := `{"type":"detection.created","event":{"detection_id":"abc"}}`
	listener.handleMessage(payload, func(envelope Envelope) {
		received = append(received, envelope)
	})

	require.Len(t, received, 1)
	assert.Equal(t, "detection.created", received[0].Type)
	assert.JSONEq(t, `{"detection_id":"abc"}`, string(received[0].Event))

	// Garbage payloads are logged and skipped, never dispatched.
	listener.handleMessage("not-json", func(Envelope) {
		t.Fatal("handler must not run for undecodable payloads")
	})
}
