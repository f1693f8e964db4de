package hub

import (
	"encoding/json"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

// hostScoped resolves the caller and a same-room target, returning ok=false
// if the caller is not host or the target is not in the caller's room. All
// host-action handlers are built on this; failures are silent (spec §7).
func (h *Hub) hostScoped(callerConnID, targetConnID string) (caller, target *domain.Participant, ok bool) {
	caller, ok = h.conns.Get(callerConnID)
	if !ok || !caller.Host {
		return nil, nil, false
	}
	target, found := h.conns.Get(targetConnID)
	if !found || target.RoomID != caller.RoomID {
		return nil, nil, false
	}
	return caller, target, true
}

type targetPayload struct {
	ParticipantID string `json:"participantId"`
}

func (h *Hub) handleHostMuteParticipant(connID string, raw json.RawMessage) {
	var p targetPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	_, target, ok := h.hostScoped(connID, p.ParticipantID)
	if !ok {
		return
	}
	target.Muted = true
	h.tx.EmitToRoom(target.RoomID, domain.EvParticipantForceMuted, targetPayload{ParticipantID: target.ConnID})
}

func (h *Hub) handleHostToggleVideo(connID string, raw json.RawMessage) {
	var p targetPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	_, target, ok := h.hostScoped(connID, p.ParticipantID)
	if !ok {
		return
	}
	target.VideoOff = !target.VideoOff
	h.tx.EmitToRoom(target.RoomID, domain.EvParticipantForceVideo, targetPayload{ParticipantID: target.ConnID})
}

func (h *Hub) handleHostRemoveParticipant(connID string, raw json.RawMessage) {
	var p targetPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	_, target, ok := h.hostScoped(connID, p.ParticipantID)
	if !ok {
		return
	}

	h.tx.Emit(target.ConnID, domain.EvForceDisconnect, domain.ForceDisconnectPayload{
		Reason:  domain.ReasonHostRemoved,
		Message: "you have been removed by the host",
	})
	targetConnID := target.ConnID
	h.leaveRoom(targetConnID, domain.ReasonHostRemoved)
	h.tx.ForceClose(targetConnID)
}

func (h *Hub) handleHostSpotlight(connID string, raw json.RawMessage) {
	var p targetPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	caller, target, ok := h.hostScoped(connID, p.ParticipantID)
	if !ok {
		return
	}
	h.tx.EmitToRoom(caller.RoomID, domain.EvParticipantSpotlighted, targetPayload{ParticipantID: target.ConnID})
}

func (h *Hub) handleHostRemoveSpotlight(connID string, raw json.RawMessage) {
	var p targetPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	caller, target, ok := h.hostScoped(connID, p.ParticipantID)
	if !ok {
		return
	}
	h.tx.EmitToRoom(caller.RoomID, domain.EvSpotlightRemoved, targetPayload{ParticipantID: target.ConnID})
}

type roomBoolPayload struct {
	Value bool `json:"value"`
}

// toggleRoomFlag is the shared body for the four meeting-wide moderation
// toggles, all host-only (spec §4.7, "host actions").
func (h *Hub) toggleRoomFlag(connID string, raw json.RawMessage, event string, set func(f *roomFlags, v bool)) {
	var p roomBoolPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	caller, ok := h.conns.Get(connID)
	if !ok || !caller.Host {
		return
	}
	set(h.getFlags(caller.RoomID), p.Value)
	h.tx.EmitToRoom(caller.RoomID, event, p)
}

func (h *Hub) handleToggleMeetingLock(connID string, raw json.RawMessage) {
	h.toggleRoomFlag(connID, raw, domain.EvMeetingLocked, func(f *roomFlags, v bool) { f.locked = v })
}

func (h *Hub) handleToggleWaitingRoom(connID string, raw json.RawMessage) {
	h.toggleRoomFlag(connID, raw, domain.EvWaitingRoomToggled, func(f *roomFlags, v bool) { f.waitingRoom = v })
}

func (h *Hub) handleToggleScreenShareRestriction(connID string, raw json.RawMessage) {
	h.toggleRoomFlag(connID, raw, domain.EvScreenShareRestricted, func(f *roomFlags, v bool) { f.screenShareRestricted = v })
}

func (h *Hub) handleToggleChatRestriction(connID string, raw json.RawMessage) {
	h.toggleRoomFlag(connID, raw, domain.EvChatRestricted, func(f *roomFlags, v bool) { f.chatRestricted = v })
}
