package hub

import (
	"encoding/json"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

type peerSignalInbound struct {
	TargetID string          `json:"targetId"`
	Payload  json.RawMessage `json:"payload"`
}

// peerSignalHandler builds the relay handler for offer/answer/ice-candidate
// (spec §4.7, "Peer signaling"). senderId is stamped by the router from the
// authenticated connection id; a client-supplied sender field is never
// trusted.
func peerSignalHandler(event string) handler {
	return func(h *Hub, connID string, raw json.RawMessage) {
		h.handlePeerSignal(connID, event, raw)
	}
}

func (h *Hub) handlePeerSignal(connID, event string, raw json.RawMessage) {
	var p peerSignalInbound
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}

	h.mu.Lock()
	sender, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	target, ok := h.conns.Get(p.TargetID)
	if !ok || target.RoomID != sender.RoomID {
		// unknown or out-of-room target: dropped, no error to sender (spec §7).
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	h.tx.EmitToPeer(p.TargetID, event, domain.PeerSignalPayload{
		Payload:  p.Payload,
		SenderID: connID,
	})
}
