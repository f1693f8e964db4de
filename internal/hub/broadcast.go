package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

// enrichWithUserName decodes an opaque inbound payload, stamps userName
// from the participant record, and re-encodes it (spec §4.7, "enriched
// with userName from the participant record").
func enrichWithUserName(raw json.RawMessage, userName string) json.RawMessage {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		fields = make(map[string]any)
	}
	fields["userName"] = userName
	b, err := json.Marshal(fields)
	if err != nil {
		return raw
	}
	return b
}

func (h *Hub) handleReaction(connID string, raw json.RawMessage) {
	h.mu.Lock()
	p, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	roomID, userName := p.RoomID, p.DisplayName
	h.mu.Unlock()

	h.tx.EmitToRoom(roomID, domain.EvReactionReceived, enrichWithUserName(raw, userName))
}

type chatMessageInbound struct {
	Text string `json:"text"`
}

func (h *Hub) handleChatMessage(connID string, raw json.RawMessage) {
	h.mu.Lock()
	p, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	roomID, userName, userID := p.RoomID, p.DisplayName, p.UserID
	h.mu.Unlock()

	h.tx.EmitToRoom(roomID, domain.EvChatMessage, enrichWithUserName(raw, userName))

	var msg chatMessageInbound
	if err := json.Unmarshal(raw, &msg); err == nil && msg.Text != "" {
		archiveUserID := userID
		if archiveUserID == "" {
			archiveUserID = connID
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		h.arc.SaveChatMessage(ctx, domain.ChatMessage{
			ID:        uuid.NewString(),
			RoomID:    roomID,
			UserID:    archiveUserID,
			Text:      msg.Text,
			CreatedAt: time.Now(),
		})
		cancel()
	}
}

type typingPayload struct {
	IsTyping bool `json:"isTyping"`
}

func (h *Hub) handleTyping(connID string, raw json.RawMessage) {
	var p typingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}

	h.mu.Lock()
	participant, ok := h.conns.Get(connID)
	if !ok {
		h.mu.Unlock()
		return
	}
	roomID := participant.RoomID
	h.mu.Unlock()

	h.tx.EmitToRoomExceptSender(roomID, connID, domain.EvUserTyping, p)
}
