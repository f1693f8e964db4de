package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

// roomFanOut resolves the caller's room and relays raw to the whole room,
// used by the pure fan-out handlers that carry no host scope.
func (h *Hub) roomFanOut(connID string, raw json.RawMessage, event string) {
	h.mu.Lock()
	caller, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	roomID := caller.RoomID
	h.mu.Unlock()

	h.tx.EmitToRoom(roomID, event, json.RawMessage(raw))
}

func (h *Hub) handleWhiteboardDraw(connID string, raw json.RawMessage) {
	h.roomFanOut(connID, raw, domain.EvWhiteboardDraw)
}

func (h *Hub) handleWhiteboardClear(connID string, raw json.RawMessage) {
	h.roomFanOut(connID, raw, domain.EvWhiteboardClear)
}

func (h *Hub) handleShareFile(connID string, raw json.RawMessage) {
	h.mu.Lock()
	caller, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	roomID := caller.RoomID
	h.mu.Unlock()

	h.tx.EmitToRoom(roomID, domain.EvFileShared, json.RawMessage(raw))

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		h.arc.SaveFileRecord(ctx, roomID, record)
		cancel()
	}
}

func (h *Hub) handleDeleteFile(connID string, raw json.RawMessage) {
	h.roomFanOut(connID, raw, domain.EvFileDeleted)
}

func (h *Hub) handleAskQuestion(connID string, raw json.RawMessage) {
	h.mu.Lock()
	caller, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	roomID := caller.RoomID
	h.mu.Unlock()

	h.tx.EmitToRoom(roomID, domain.EvQuestionAsked, json.RawMessage(raw))

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		h.arc.SaveQuestionRecord(ctx, roomID, record)
		cancel()
	}
}

func (h *Hub) handleUpvoteQuestion(connID string, raw json.RawMessage) {
	h.roomFanOut(connID, raw, domain.EvQuestionUpvoted)
}

// handleAnswerQuestion: host-only (spec §4.7 lists "Q&A answer" among host
// actions; asking and upvoting are open to any room member).
func (h *Hub) handleAnswerQuestion(connID string, raw json.RawMessage) {
	h.mu.Lock()
	caller, ok := h.conns.Get(connID)
	if !ok || !caller.Host {
		h.mu.Unlock()
		return
	}
	roomID := caller.RoomID
	h.mu.Unlock()

	h.tx.EmitToRoom(roomID, domain.EvQuestionAnswered, json.RawMessage(raw))
}

func (h *Hub) handleScreenShareStarted(connID string, raw json.RawMessage) {
	h.mu.Lock()
	caller, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	roomID := caller.RoomID
	h.mu.Unlock()

	h.tx.EmitToRoom(roomID, domain.EvScreenShareStarted, json.RawMessage(raw))
	h.tx.EmitToRoom(roomID, domain.EvParticipantSpotlighted, targetPayload{ParticipantID: connID})
}

func (h *Hub) handleScreenShareStopped(connID string, raw json.RawMessage) {
	h.mu.Lock()
	caller, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	roomID := caller.RoomID
	h.mu.Unlock()

	h.tx.EmitToRoom(roomID, domain.EvScreenShareStopped, json.RawMessage(raw))
	h.tx.EmitToRoom(roomID, domain.EvSpotlightRemoved, targetPayload{ParticipantID: connID})
}

// handleClientPing is the client-initiated ping handler (spec §4.4, last
// sentence): it echoes a pong with the latest health snapshot without
// perturbing the server-driven adaptive loop's own timers.
func (h *Hub) handleClientPing(connID string, _ json.RawMessage) {
	h.mu.Lock()
	rec, ok := h.health.Get(connID)
	h.mu.Unlock()
	if !ok {
		return
	}
	h.tx.Emit(connID, domain.EvPong, domain.PongPayload{
		Timestamp:      nowMillis(),
		Healthy:        rec.Healthy,
		LatencyMs:      rec.LatencyMs,
		ReconnectCount: rec.ReconnectCount,
	})
}

// handleReconnectRequest emits reconnect-response to the caller only (spec
// §4.7). The returned userData is keyed to the *current* connection id;
// whether a client can recover its prior participant identity from this is
// left unresolved (SPEC_FULL.md §10, Open Question 3).
func (h *Hub) handleReconnectRequest(connID string, _ json.RawMessage) {
	h.mu.Lock()
	p, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	snap := p.ToSnapshot()
	rec, healthOK := h.health.Get(connID)
	h.mu.Unlock()

	resp := domain.ReconnectResponsePayload{Success: true, UserData: snap}
	if healthOK {
		resp.ConnectionHealth = rec
	}
	h.tx.Emit(connID, domain.EvReconnectResponse, resp)
}

// handleClientError surfaces a client-reported transport error the same
// way an adapter-observed one would (spec §7).
func (h *Hub) handleClientError(connID string, _ json.RawMessage) {
	h.tx.Emit(connID, domain.EvConnectionRecovery, domain.ConnectionRecoveryPayload{
		Message:   "connection interrupted, attempting recovery",
		Timestamp: nowMillis(),
	})
}
