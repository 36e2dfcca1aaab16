package broadcast

import (
	"context"
	"encoding/json"

	"github.com/VigilNet/FedWatch/pkg/cache"
)

// Envelope is the wire form placed on the events channel. The type tag lets
// consumers decode (or simply forward) without knowing every event shape.
type Envelope struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

//go:generate mockery --name=EventPublisher --dir=. --output=mocks/ --filename=event_publisher_mock.go --case=underscore --with-expecter
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

type redisEventPublisher struct {
	cache *cache.Cache
}

func NewRedisEventPublisher(cache *cache.Cache) EventPublisher {
	return &redisEventPublisher{
		cache: cache,
	}
}

func (p *redisEventPublisher) Publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	envelope := Envelope{
		Type:  ev.Type(),
		Event: b,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return p.cache.Client().Publish(ctx, EventsChannel, data).Err()
}
