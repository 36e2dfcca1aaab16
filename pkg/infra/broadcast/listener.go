package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/VigilNet/FedWatch/pkg/cache"
	"github.com/sirupsen/logrus"
)

// Handler receives every decoded envelope from the events channel.
type Handler func(envelope Envelope)

type EventListener interface {
	Listen(ctx context.Context, handler Handler)
}

type redisEventListener struct {
	logger *logrus.Logger
	cache  *cache.Cache
}

func NewRedisEventListener(logger *logrus.Logger, cache *cache.Cache) EventListener {
	return &redisEventListener{
		logger: logger,
		cache:  cache,
	}
}

// Listen blocks until ctx is cancelled, reconnecting to the pub/sub channel
// whenever the subscription drops.
func (r *redisEventListener) Listen(ctx context.Context, handler Handler) {
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("redis pubsub listener shutting down")
			return
		default:
		}

		r.listenWithReconnect(ctx, handler)

		if ctx.Err() != nil {
			return
		}

		r.logger.Warn("redis pubsub disconnected, reconnecting in 1s...")
		time.Sleep(time.Second)
	}
}

func (r *redisEventListener) listenWithReconnect(ctx context.Context, handler Handler) {
	pubSub := r.cache.Client().Subscribe(ctx, EventsChannel)
	defer func() { _ = pubSub.Close() }()

	r.logger.WithField("channel", EventsChannel).Debug("redis pubsub connected")

	// Selecting on ctx directly avoids a watcher goroutine per reconnect
	// attempt; the deferred Close tears the subscription down on return.
	ch := pubSub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.handleMessage(msg.Payload, handler)
		}
	}
}

func (r *redisEventListener) handleMessage(payload string, handler Handler) {
	var envelope Envelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		r.logger.WithError(err).Error("error decoding redis message")
		return
	}
	handler(envelope)
}
