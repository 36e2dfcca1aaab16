package websocket

import (
	"encoding/json"
	"sync"

	"github.com/VigilNet/FedWatch/pkg/infra/broadcast"
	infraWebsocket "github.com/VigilNet/FedWatch/pkg/infra/websocket"
	"github.com/sirupsen/logrus"
)

// Hub fans incoming broadcast envelopes out to every connected dashboard.
// Slow clients get dropped frames, never a blocked hub.
type Hub struct {
	logger *logrus.Logger

	mu      sync.RWMutex
	clients map[chan []byte]struct{}
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[chan []byte]struct{}),
	}
}

// Register adds a client and returns its outbound frame channel.
func (h *Hub) Register() chan []byte {
	ch := make(chan []byte, 32)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unregister(ch chan []byte) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// HandleEnvelope is wired as the broadcast listener callback.
func (h *Hub) HandleEnvelope(envelope broadcast.Envelope) {
	frame := infraWebsocket.Frame{
		Type:  envelope.Type,
		Event: envelope.Event,
	}
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.WithError(err).Error("failed to encode websocket frame")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			h.logger.Debug("dropping frame for slow websocket client")
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
