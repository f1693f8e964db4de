package hub

import (
	"encoding/json"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

// togglePayload is the shared wire shape for the three self-state toggles
// (spec §4.7, "Self state toggles").
type togglePayload struct {
	ParticipantID string `json:"participantId"`
	Value         bool   `json:"value"`
}

// handleSelfToggle updates the referenced participant's state and
// broadcasts the same event to the room except the sender. Authorization:
// sender must be the participant or a host in the same room (spec §4.7);
// failures are silent (spec §7).
func (h *Hub) handleSelfToggle(connID, event string, raw json.RawMessage, apply func(muted, videoOff, raised *bool, v bool)) {
	var p togglePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	target, ok := h.conns.Get(p.ParticipantID)
	if !ok {
		return
	}
	sender, ok := h.conns.Get(connID)
	if !ok {
		return
	}
	authorized := connID == target.ConnID || (sender.Host && sender.RoomID == target.RoomID)
	if !authorized {
		return
	}

	apply(&target.Muted, &target.VideoOff, &target.RaisedHand, p.Value)

	h.tx.EmitToRoomExceptSender(target.RoomID, connID, event, p)
}

func (h *Hub) handleUserMuted(connID string, raw json.RawMessage) {
	h.handleSelfToggle(connID, domain.EvUserMuted, raw, func(muted, _, _ *bool, v bool) { *muted = v })
}

func (h *Hub) handleUserVideoToggled(connID string, raw json.RawMessage) {
	h.handleSelfToggle(connID, domain.EvUserVideoToggled, raw, func(_, videoOff, _ *bool, v bool) { *videoOff = v })
}

func (h *Hub) handleRaiseHandToggled(connID string, raw json.RawMessage) {
	h.handleSelfToggle(connID, domain.EvRaiseHandToggled, raw, func(_, _, raised *bool, v bool) { *raised = v })
}
