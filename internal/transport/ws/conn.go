package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Envelope is the wire shape for every frame in both directions: a named
// event carrying a JSON-shaped payload (spec §6).
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	writeWait  = 10 * time.Second
	closeGrace = 2 * time.Second

	// MaxMessageBytes is the transport buffer ceiling fixed by SPEC_FULL.md §8
	// (the spec's two candidate values were 500KB and 1MB; 1MB was chosen).
	MaxMessageBytes = 1 << 20

	// CompressionThresholdBytes is the payload size above which writePump
	// compresses a frame, on connections that negotiated per-message
	// deflate; smaller frames are written uncompressed.
	CompressionThresholdBytes = 1024
)

// conn wraps a raw websocket connection with a single writer goroutine so
// that emits to one destination are serialized in issue order (spec §5).
type conn struct {
	id   string
	ws   *websocket.Conn
	send chan Envelope

	closed    chan struct{}
	closeOnce sync.Once
}

func newConn(id string, ws *websocket.Conn) *conn {
	return &conn{
		id:     id,
		ws:     ws,
		send:   make(chan Envelope, 64),
		closed: make(chan struct{}),
	}
}

// enqueue is non-blocking: a slow reader drops new frames rather than
// stalling the router. Every destination still receives emits in the order
// the router issued them, since enqueue never reorders the channel.
func (c *conn) enqueue(env Envelope) {
	select {
	case <-c.closed:
	case c.send <- env:
	default:
		// buffer full: drop rather than block the event router.
	}
}

func (c *conn) writePump() {
	for {
		select {
		case env, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.EnableWriteCompression(len(env.Payload) > CompressionThresholdBytes)
			if err := c.ws.WriteJSON(env); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

// close is reachable concurrently from ForceClose, CloseAll, and the read
// loop's own teardown on the same connection; sync.Once makes the teardown
// itself idempotent rather than racing two goroutines on a plain channel
// close (spec §5, concurrency safety of the Transport Adapter's primitives).
func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGrace))
		_ = c.ws.Close()
	})
}
