package websocket

import "encoding/json"

// Frame is the outbound message shape pushed to dashboard clients. It carries
// the event type alongside the raw payload so clients can route without a
// second decode.
type Frame struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}
