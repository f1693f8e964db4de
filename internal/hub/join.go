package hub

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

type joinRoomPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
	UserID   string `json:"userId"`
}

func (h *Hub) joinError(connID, message string) {
	h.tx.Emit(connID, domain.EvJoinError, domain.JoinErrorPayload{Message: message})
}

// looksLikeRoomID is the lossy heuristic spec §4.5 step 2 calls for,
// carried over unresolved per SPEC_FULL.md §10 (Open Question 1).
func looksLikeRoomID(name string) bool {
	return strings.Contains(name, "-") && len(name) > 10
}

// handleJoinRoom is the Session Collision Resolver (§4.5) followed by the
// Host-Election State Machine (§4.6) and the join fan-out (§4.7).
func (h *Hub) handleJoinRoom(connID string, raw json.RawMessage) {
	var p joinRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.joinError(connID, domain.ErrInvalidJoin.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns.Count() >= h.capTotal() {
		h.joinError(connID, domain.ErrServerAtCapacity.Error())
		return
	}
	if p.RoomID == "" || p.UserName == "" || looksLikeRoomID(p.UserName) {
		h.joinError(connID, domain.ErrInvalidJoin.Error())
		return
	}

	// Step 3: preempt every other live connection holding this display name.
	for _, dupConnID := range h.conns.ConnIDsForName(p.UserName, connID) {
		h.leaveRoom(dupConnID, domain.ReasonDuplicateSession)
		h.tx.ForceClose(dupConnID)
	}

	// Step 4: purge zombies already sitting in the target room — dead
	// transports or stale entries bearing the name about to join.
	for _, memberID := range h.rooms.Members(p.RoomID) {
		member, ok := h.conns.Get(memberID)
		zombie := !ok || !h.tx.IsConnected(memberID) || member.DisplayName == p.UserName
		if !zombie {
			continue
		}
		h.leaveRoom(memberID, domain.ReasonStaleConnection)
	}

	// Step 5: capacity check on the cleaned-up room.
	if h.rooms.Size(p.RoomID) >= h.capPerRoom() {
		h.joinError(connID, domain.ErrRoomFull.Error())
		return
	}

	sizeBefore := h.rooms.Size(p.RoomID)
	if sizeBefore == 0 {
		h.rooms.SetCreator(p.RoomID, p.UserID)
	}
	hostWasLive := h.hostIsLive(p.RoomID)

	becomeHost := sizeBefore == 0 || !hostWasLive
	var demotedHostID string
	if !becomeHost && p.UserID != "" && h.rooms.Creator(p.RoomID) == p.UserID {
		if existing := h.rooms.Host(p.RoomID); existing != connID {
			becomeHost = true
			demotedHostID = existing
		}
	}

	now := time.Now()
	participant := &domain.Participant{
		ConnID:      connID,
		DisplayName: p.UserName,
		UserID:      p.UserID,
		RoomID:      p.RoomID,
		JoinedAt:    now,
		LastSeen:    now,
		Online:      true,
		Host:        becomeHost,
	}
	h.conns.Put(participant)
	h.rooms.AddMember(p.RoomID, connID)

	if becomeHost {
		if demotedHostID != "" {
			if d, ok := h.conns.Get(demotedHostID); ok {
				d.Host = false
			}
		}
		h.rooms.SetHost(p.RoomID, connID)
	}

	h.tx.EmitToRoomExceptSender(p.RoomID, connID, domain.EvUserJoined, participant.ToSnapshot())

	if becomeHost {
		h.tx.EmitToRoom(p.RoomID, domain.EvHostStatusUpdate, domain.HostStatusUpdatePayload{
			HostID:   connID,
			HostName: p.UserName,
		})
	}

	h.tx.Emit(connID, domain.EvCurrentParticipants, h.snapshotOthers(p.RoomID, connID))
	h.tx.EmitToRoom(p.RoomID, domain.EvParticipantCount, domain.ParticipantCountPayload{
		Count: h.rooms.Size(p.RoomID),
	})
}

// hostIsLive reports whether roomID's host-map entry resolves to a
// participant still present in that room (spec §4.6, "whose host entry
// points to no live participant").
func (h *Hub) hostIsLive(roomID string) bool {
	hostID := h.rooms.Host(roomID)
	if hostID == "" {
		return false
	}
	p, ok := h.conns.Get(hostID)
	return ok && p.RoomID == roomID && h.rooms.IsMember(roomID, hostID)
}

func (h *Hub) snapshotOthers(roomID, exceptConnID string) []domain.Snapshot {
	members := h.rooms.Members(roomID)
	out := make([]domain.Snapshot, 0, len(members))
	for _, id := range members {
		if id == exceptConnID {
			continue
		}
		if p, ok := h.conns.Get(id); ok {
			out = append(out, p.ToSnapshot())
		}
	}
	return out
}

func (h *Hub) capTotal() int {
	if h.cfg != nil && h.cfg.Capacity.MaxTotalParticipants > 0 {
		return h.cfg.Capacity.MaxTotalParticipants
	}
	return domain.MaxTotalParticipants
}

func (h *Hub) capPerRoom() int {
	if h.cfg != nil && h.cfg.Capacity.MaxParticipantsPerRoom > 0 {
		return h.cfg.Capacity.MaxParticipantsPerRoom
	}
	return domain.MaxParticipantsPerRoom
}

// leaveRoom is the shared teardown for disconnect, duplicate-session
// preemption and stale-connection purge (spec §8 invariant 4: exactly one
// user-left per removal). Host auto-transfer only fires for a genuine
// disconnect (spec §4.6); the other two reasons leave a dangling host-map
// entry for the next join-room to resolve via hostIsLive.
func (h *Hub) leaveRoom(connID, reason string) {
	p, ok := h.conns.Get(connID)
	if !ok {
		return
	}
	roomID := p.RoomID
	wasHost := h.rooms.Host(roomID) == connID

	h.rooms.RemoveMember(roomID, connID)
	h.conns.Remove(connID)

	if h.rooms.Exists(roomID) {
		h.tx.EmitToRoom(roomID, domain.EvUserLeft, domain.UserLeftPayload{
			ParticipantID: connID,
			UserName:      p.DisplayName,
			Timestamp:     nowMillis(),
			Reason:        reason,
		})
		if wasHost && reason == domain.ReasonDisconnected {
			h.promoteNext(roomID, connID)
		}
		h.tx.EmitToRoom(roomID, domain.EvParticipantCount, domain.ParticipantCountPayload{
			Count: h.rooms.Size(roomID),
		})
	} else {
		h.dropRoomIfEmpty(roomID)
	}
}
