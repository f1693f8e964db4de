// Package hub is the Event Router (spec §4.7): it owns the single
// process-wide mutex serializing every mutation to the Connection Registry,
// Room Registry and Health Registry, dispatches inbound events to typed
// handlers, and drives the Session Collision Resolver, the Host-Election
// State Machine, the Lifecycle Supervisor and the Signal Hook.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/cwrk-planet/signal-hub/config"
	"github.com/cwrk-planet/signal-hub/internal/archive"
	"github.com/cwrk-planet/signal-hub/internal/domain"
	"github.com/cwrk-planet/signal-hub/internal/registry"
)

// emitter is the subset of the Transport Adapter the router drives. It is
// satisfied by *ws.Adapter; kept as a local interface so this package never
// imports the transport package (the dependency runs the other way).
type emitter interface {
	Emit(connID, event string, payload any)
	EmitToPeer(toConnID, event string, payload any)
	EmitToRoom(roomID, event string, payload any)
	EmitToRoomExceptSender(roomID, senderConnID, event string, payload any)
	Broadcast(event string, payload any)
	ForceClose(connID string)
	CloseAll()
	IsConnected(connID string) bool
	ConnectionCount() int
}

// roomFlags holds the meeting-wide moderation toggles.
// These never appear in the spec's core data model; they are ephemeral,
// in-memory, and live exactly as long as the room does.
type roomFlags struct {
	locked                bool
	waitingRoom           bool
	screenShareRestricted bool
	chatRestricted        bool
}

// Hub is the single process-wide instance (spec §9, "Global process
// state"). Every field it touches is guarded by mu; handlers never release
// mu mid-mutation.
type Hub struct {
	mu sync.Mutex

	conns  *registry.ConnectionRegistry
	rooms  *registry.RoomRegistry
	health *registry.HealthRegistry
	flags  map[string]*roomFlags

	tx  emitter
	arc archive.Store
	cfg *config.Config
	log *slog.Logger

	pingCancel  map[string]context.CancelFunc
	pendingPing map[string]time.Time

	shutdownOnce sync.Once
	closing      bool
}

// New wires a freshly-constructed Hub. tx must read room membership only
// through the RoomMembership view the caller gave it; the Hub is the only
// writer.
func New(tx emitter, arc archive.Store, cfg *config.Config, log *slog.Logger) *Hub {
	if arc == nil {
		arc = archive.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		conns:      registry.NewConnectionRegistry(),
		rooms:      registry.NewRoomRegistry(),
		health:     registry.NewHealthRegistry(),
		flags:      make(map[string]*roomFlags),
		tx:         tx,
		arc:        arc,
		cfg:         cfg,
		log:         log,
		pingCancel:  make(map[string]context.CancelFunc),
		pendingPing: make(map[string]time.Time),
	}
}

// Members implements ws.RoomMembership. It is called by the Adapter only
// while the Hub already holds mu (every EmitToRoom* call on the Adapter
// originates from inside a locked handler), so it reads the registry
// directly rather than re-acquiring the lock.
func (h *Hub) Members(roomID string) []string {
	return h.rooms.Members(roomID)
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// Stats reports the counters the admin HTTP surface exposes (SPEC_FULL.md
// §6.2). Connection count is the transport's concern, not the hub's.
func (h *Hub) Stats() (participants, rooms int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conns.Count(), len(h.rooms.RoomIDs())
}

func (h *Hub) getFlags(roomID string) *roomFlags {
	f, ok := h.flags[roomID]
	if !ok {
		f = &roomFlags{}
		h.flags[roomID] = f
	}
	return f
}

// dropRoomIfEmpty tidies up per-room side tables the core registries don't
// own (moderation flags). Call after any removal that might have emptied
// a room.
func (h *Hub) dropRoomIfEmpty(roomID string) {
	if !h.rooms.Exists(roomID) {
		delete(h.flags, roomID)
	}
}

// OnConnect implements ws.Router. The connection is registered by the
// transport before this is called; the Hub only needs to greet it and
// start its health record.
func (h *Hub) OnConnect(connID string) {
	h.mu.Lock()
	now := time.Now()
	h.health.Put(&domain.ConnectionHealth{
		ConnID:      connID,
		ConnectedAt: now,
		LastPing:    now,
		Healthy:     true,
		Interval:    domain.DefaultPingInterval,
	})
	h.mu.Unlock()

	h.tx.Emit(connID, domain.EvConnectionConfirmed, domain.ConnectionConfirmedPayload{
		SocketID:      connID,
		Timestamp:     nowMillis(),
		ServerTime:    nowMillis(),
		ServerVersion: "2.0.0",
		Features:      []string{"breakout-rooms", "polls", "whiteboard", "qa", "screen-share"},
	})

	h.startHealthLoop(connID)
}

// OnDisconnect implements ws.Router: the transport's connection loop has
// ended (any reason other than preemption or sweep, both of which already
// removed the participant themselves).
func (h *Hub) OnDisconnect(connID string) {
	h.stopHealthLoop(connID)

	h.mu.Lock()
	h.leaveRoom(connID, domain.ReasonDisconnected)
	h.health.Remove(connID)
	h.mu.Unlock()
}

// OnTransportError implements ws.Router (spec §7, "transport errors").
func (h *Hub) OnTransportError(connID string, err error) {
	h.log.Warn("transport error", "conn", connID, "err", err)
	h.tx.Emit(connID, domain.EvConnectionRecovery, domain.ConnectionRecoveryPayload{
		Message:   "connection interrupted, attempting recovery",
		Timestamp: nowMillis(),
	})
}

// handler is a typed, dispatch-table entry (spec §9, "encode as a static
// table keyed by event name").
type handler func(h *Hub, connID string, raw json.RawMessage)

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		domain.EvJoinRoom:       (*Hub).handleJoinRoom,
		domain.EvOffer:          peerSignalHandler(domain.EvOffer),
		domain.EvAnswer:         peerSignalHandler(domain.EvAnswer),
		domain.EvICECandidate:   peerSignalHandler(domain.EvICECandidate),

		domain.EvUserMuted:         (*Hub).handleUserMuted,
		domain.EvUserVideoToggled:  (*Hub).handleUserVideoToggled,
		domain.EvRaiseHandToggled:  (*Hub).handleRaiseHandToggled,

		domain.EvReaction:     (*Hub).handleReaction,
		domain.EvChatMessage:  (*Hub).handleChatMessage,
		domain.EvTyping:       (*Hub).handleTyping,

		domain.EvHostMuteParticipant:   (*Hub).handleHostMuteParticipant,
		domain.EvHostToggleVideo:       (*Hub).handleHostToggleVideo,
		domain.EvHostRemoveParticipant: (*Hub).handleHostRemoveParticipant,
		domain.EvHostTransfer:          (*Hub).handleHostTransfer,
		domain.EvHostSpotlightParticipant: (*Hub).handleHostSpotlight,
		domain.EvHostRemoveSpotlight:      (*Hub).handleHostRemoveSpotlight,

		domain.EvRenameParticipant: (*Hub).handleRenameParticipant,

		domain.EvPing:             (*Hub).handleClientPing,
		domain.EvPong:             (*Hub).handlePong,
		domain.EvReconnectRequest: (*Hub).handleReconnectRequest,

		domain.EvStartBreakoutRooms: (*Hub).handleStartBreakoutRooms,
		domain.EvEndBreakoutRooms:   (*Hub).handleEndBreakoutRooms,

		domain.EvCreatePoll: (*Hub).handleCreatePoll,
		domain.EvVotePoll:   (*Hub).handleVotePoll,
		domain.EvEndPoll:    (*Hub).handleEndPoll,

		domain.EvWhiteboardDraw:  (*Hub).handleWhiteboardDraw,
		domain.EvWhiteboardClear: (*Hub).handleWhiteboardClear,

		domain.EvShareFile:  (*Hub).handleShareFile,
		domain.EvDeleteFile: (*Hub).handleDeleteFile,

		domain.EvAskQuestion:      (*Hub).handleAskQuestion,
		domain.EvUpvoteQuestion:   (*Hub).handleUpvoteQuestion,
		domain.EvAnswerQuestion:   (*Hub).handleAnswerQuestion,

		domain.EvToggleMeetingLock:            (*Hub).handleToggleMeetingLock,
		domain.EvToggleWaitingRoom:            (*Hub).handleToggleWaitingRoom,
		domain.EvToggleScreenShareRestriction: (*Hub).handleToggleScreenShareRestriction,
		domain.EvToggleChatRestriction:        (*Hub).handleToggleChatRestriction,

		domain.EvScreenShareStarted: (*Hub).handleScreenShareStarted,
		domain.EvScreenShareStopped: (*Hub).handleScreenShareStopped,

		domain.EvError: (*Hub).handleClientError,
	}
}

// OnEvent implements ws.Router: the static dispatch table (spec §9), with
// per-handler panic recovery (spec §4.7, "a faulty handler never
// terminates the connection or the process") and unknown events dropped.
func (h *Hub) OnEvent(connID, event string, raw json.RawMessage) {
	fn, ok := handlers[event]
	if !ok {
		h.log.Debug("unknown event dropped", "conn", connID, "event", event)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("handler panic recovered", "conn", connID, "event", event, "panic", r)
		}
	}()
	fn(h, connID, raw)
}
