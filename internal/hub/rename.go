package hub

import (
	"encoding/json"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

type renamePayload struct {
	ParticipantID string `json:"participantId"`
	NewName       string `json:"name"`
}

// handleRenameParticipant: the caller must be host or the target itself,
// both in the same room (spec §4.7, "Rename").
func (h *Hub) handleRenameParticipant(connID string, raw json.RawMessage) {
	var p renamePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.NewName == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	target, ok := h.conns.Get(p.ParticipantID)
	if !ok {
		return
	}
	caller, ok := h.conns.Get(connID)
	if !ok || caller.RoomID != target.RoomID {
		return
	}
	if connID != target.ConnID && !caller.Host {
		return
	}

	oldName := target.DisplayName
	target.DisplayName = p.NewName
	h.conns.Rename(target.ConnID, oldName, p.NewName)
	h.tx.EmitToRoom(target.RoomID, domain.EvParticipantRenamed, domain.RenameParticipantPayload{
		ParticipantID: target.ConnID,
		NewName:       p.NewName,
	})
}
