package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Router is the Event Router contract the transport layer drives. The hub
// package implements this.
type Router interface {
	OnConnect(connID string)
	OnEvent(connID, event string, raw json.RawMessage)
	OnDisconnect(connID string)
	OnTransportError(connID string, err error)
}

// Server accepts duplex connections over the primary (websocket) transport
// and wires them into the Adapter and Router.
type Server struct {
	adapter    *Adapter
	router     Router
	upgrader   websocket.Upgrader
	allowedOrigins []string
}

// NewServer builds the WS endpoint. allowedOrigins is the CORS allow-list
// from config (spec §6); an empty list allows any origin, matching the
// teacher's permissive development default.
func NewServer(adapter *Adapter, router Router, allowedOrigins []string) *Server {
	s := &Server{
		adapter:        adapter,
		router:         router,
		allowedOrigins: allowedOrigins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		EnableCompression: true,
		CheckOrigin:       s.checkOrigin,
	}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range s.allowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// HandleWS upgrades the request and drives the connection's lifecycle.
// Cookies are never inspected here and never forwarded downstream — only
// the Origin header gates the upgrade.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	raw, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}

	connID := uuid.NewString()
	c := newConn(connID, raw)
	s.adapter.register(c)

	go c.writePump()
	s.router.OnConnect(connID)
	s.readLoop(c)

	s.adapter.unregister(connID)
	s.router.OnDisconnect(connID)
	c.close()
}

func (s *Server) readLoop(c *conn) {
	c.ws.SetReadLimit(MaxMessageBytes)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				s.router.OnTransportError(c.id, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			slog.Debug("ws malformed frame", "conn", c.id, "err", err)
			continue
		}

		s.router.OnEvent(c.id, env.Type, env.Payload)
	}
}
