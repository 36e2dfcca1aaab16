package websocket

import "github.com/VigilNet/FedWatch/pkg/infra/prometheus"

// Semaphore caps concurrent dashboard connections without blocking the
// upgrade path. The connections gauge tracks every acquire and release so
// the limit is observable next to the rest of the platform metrics.
type Semaphore struct {
	connections chan struct{}
}

func NewSemaphore(maxConnections int) *Semaphore {
	return &Semaphore{
		connections: make(chan struct{}, maxConnections),
	}
}

func (s *Semaphore) Acquire() bool {
	select {
	case s.connections <- struct{}{}:
		prometheus.WebSocketConnections.Inc()
		return true
	default:
		return false
	}
}

func (s *Semaphore) Release() {
	select {
	case <-s.connections:
		prometheus.WebSocketConnections.Dec()
	default:
	}
}

func (s *Semaphore) CurrentConnections() int {
	return len(s.connections)
}
