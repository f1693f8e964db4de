package hub

import (
	"encoding/json"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

// promoteNext implements spec §4.6's disconnect transition: "the
// deterministic first remaining member (iteration order of the set) is
// promoted". h.rooms.Members returns connection ids in join order, so the
// first entry after removal is exactly that member.
func (h *Hub) promoteNext(roomID, previousHostID string) {
	members := h.rooms.Members(roomID)
	if len(members) == 0 {
		return
	}
	newHostID := members[0]
	newHost, ok := h.conns.Get(newHostID)
	if !ok {
		return
	}
	newHost.Host = true
	h.rooms.SetHost(roomID, newHostID)
	h.broadcastHostChanged(roomID, previousHostID, newHostID)
}

func (h *Hub) broadcastHostChanged(roomID, previousHostID, newHostID string) {
	newHost, _ := h.conns.Get(newHostID)
	newHostName := ""
	if newHost != nil {
		newHostName = newHost.DisplayName
	}

	members := h.rooms.Members(roomID)
	entries := make([]domain.ParticipantHostEntry, 0, len(members))
	for _, id := range members {
		entries = append(entries, domain.ParticipantHostEntry{ID: id, IsHost: id == newHostID})
	}

	h.tx.EmitToRoom(roomID, domain.EvHostChanged, domain.HostChangedPayload{
		NewHostID:      newHostID,
		NewHostName:    newHostName,
		PreviousHostID: previousHostID,
		Participants:   entries,
	})
}

type hostTransferPayload struct {
	NewHostID string `json:"newHostId"`
}

// handleHostTransfer is the explicit host-transfer transition (spec §4.6).
// Authorization failures are silent (spec §7): no emission, no state
// change.
func (h *Hub) handleHostTransfer(connID string, raw json.RawMessage) {
	var p hostTransferPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	caller, ok := h.conns.Get(connID)
	if !ok || !caller.Host || h.rooms.Host(caller.RoomID) != connID {
		return
	}
	target, ok := h.conns.Get(p.NewHostID)
	if !ok || target.RoomID != caller.RoomID {
		return
	}

	caller.Host = false
	target.Host = true
	h.rooms.SetHost(caller.RoomID, target.ConnID)
	h.broadcastHostChanged(caller.RoomID, connID, target.ConnID)
}
