package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

// handleCreatePoll: host-only fan-out, opaque payload (spec §4.7, "Polls").
func (h *Hub) handleCreatePoll(connID string, raw json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	caller, ok := h.conns.Get(connID)
	if !ok || !caller.Host {
		return
	}
	h.tx.EmitToRoom(caller.RoomID, domain.EvPollCreated, json.RawMessage(raw))
}

// handleVotePoll: open to any room member, no host scope.
func (h *Hub) handleVotePoll(connID string, raw json.RawMessage) {
	h.mu.Lock()
	caller, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	roomID := caller.RoomID
	h.mu.Unlock()

	h.tx.EmitToRoom(roomID, domain.EvPollVote, json.RawMessage(raw))
}

// handleEndPoll: host-only; archives the final tally best-effort.
func (h *Hub) handleEndPoll(connID string, raw json.RawMessage) {
	h.mu.Lock()
	caller, ok := h.conns.Get(connID)
	if !ok || !caller.Host {
		h.mu.Unlock()
		return
	}
	roomID := caller.RoomID
	h.mu.Unlock()

	h.tx.EmitToRoom(roomID, domain.EvPollEnded, json.RawMessage(raw))

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		h.arc.SavePollRecord(ctx, roomID, record)
		cancel()
	}
}
