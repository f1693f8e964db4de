package hub

import (
	"encoding/json"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

type breakoutRoom struct {
	RoomID         string   `json:"roomId"`
	ParticipantIDs []string `json:"participantIds"`
}

type startBreakoutPayload struct {
	Rooms    []breakoutRoom `json:"rooms"`
	Duration int64          `json:"duration"`
}

// handleStartBreakoutRooms: host-only (spec §4.7, "Breakout rooms").
func (h *Hub) handleStartBreakoutRooms(connID string, raw json.RawMessage) {
	var p startBreakoutPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	caller, ok := h.conns.Get(connID)
	if !ok || !caller.Host {
		return
	}

	h.tx.EmitToRoom(caller.RoomID, domain.EvBreakoutRoomsCreated, p.Rooms)
	h.tx.EmitToRoom(caller.RoomID, domain.EvBreakoutRoomsStarted, struct {
		Duration int64 `json:"duration"`
	}{p.Duration})

	for _, room := range p.Rooms {
		for _, participantID := range room.ParticipantIDs {
			if target, ok := h.conns.Get(participantID); ok && target.RoomID == caller.RoomID {
				h.tx.Emit(participantID, domain.EvAssignedToBreakout, struct {
					RoomID string `json:"roomId"`
				}{room.RoomID})
			}
		}
	}
}

// handleEndBreakoutRooms: host-only, broadcasts to the parent room the
// caller is currently in.
func (h *Hub) handleEndBreakoutRooms(connID string, _ json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	caller, ok := h.conns.Get(connID)
	if !ok || !caller.Host {
		return
	}
	h.tx.EmitToRoom(caller.RoomID, domain.EvBreakoutRoomsEnded, struct{}{})
}
