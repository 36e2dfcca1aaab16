package websocket

import (
	"time"

	"github.com/VigilNet/FedWatch/pkg/config"
	infraWebsocket "github.com/VigilNet/FedWatch/pkg/infra/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

const (
	defaultPingPeriod = 30 * time.Second
	defaultPongWait   = 60 * time.Second
)

type eventsHandler struct {
	logger     *logrus.Logger
	hub        *Hub
	semaphore  *infraWebsocket.Semaphore
	pingPeriod time.Duration
	pongWait   time.Duration
}

func NewEventsHandler(
	logger *logrus.Logger,
	hub *Hub,
	semaphore *infraWebsocket.Semaphore,
	cfg config.WebSocketConfig,
) Handler {
	pingPeriod := defaultPingPeriod
	if d, err := time.ParseDuration(cfg.PingPeriod); err == nil && d > 0 {
		pingPeriod = d
	}
	pongWait := defaultPongWait
	if d, err := time.ParseDuration(cfg.PongWait); err == nil && d > 0 {
		pongWait = d
	}
	return &eventsHandler{
		logger:     logger,
		hub:        hub,
		semaphore:  semaphore,
		pingPeriod: pingPeriod,
		pongWait:   pongWait,
	}
}

// Handle owns one dashboard connection for its lifetime: frames from the hub
// go out, pings keep the connection alive, and anything the client sends is
// discarded.
func (h *eventsHandler) Handle(c *websocket.Conn) {
	if !h.semaphore.Acquire() {
		h.logger.Warn("websocket connection limit reached, rejecting client")
		_ = c.WriteMessage(websocket.CloseMessage, []byte{})
		_ = c.Close()
		return
	}
	defer h.semaphore.Release()

	frames := h.hub.Register()
	defer h.hub.Unregister(frames)

	done := make(chan struct{})
	go h.readLoop(c, done)

	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case data, ok := <-frames:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.WithError(err).Debug("websocket write failed")
				return
			}
		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				h.logger.WithError(err).Debug("websocket ping failed")
				return
			}
		}
	}
}

// readLoop drains client messages so close frames and pongs are processed.
func (h *eventsHandler) readLoop(c *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	_ = c.SetReadDeadline(time.Now().Add(h.pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(h.pongWait))
	})
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
