package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

func joinPayload(t *testing.T, roomID, userName, userID string) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(joinRoomPayload{RoomID: roomID, UserName: userName, UserID: userID})
	require.NoError(t, err)
	return b
}

func lastEvent(t *testing.T, tx *fakeEmitter, connID, event string) emitted {
	t.Helper()
	events := tx.eventsFor(connID)
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].event == event {
			return events[i]
		}
	}
	t.Fatalf("no %s event recorded for %s", event, connID)
	return emitted{}
}

// S1 - Two-peer join.
func TestJoinRoom_TwoPeers(t *testing.T) {
	h, tx := newTestHub()
	tx.connect("alpha")
	tx.connect("beta")

	h.handleJoinRoom("alpha", joinPayload(t, "R1", "Alice", ""))
	h.handleJoinRoom("beta", joinPayload(t, "R1", "Bob", ""))

	alphaP, ok := h.conns.Get("alpha")
	require.True(t, ok)
	assert.True(t, alphaP.Host, "first joiner becomes host")

	betaP, ok := h.conns.Get("beta")
	require.True(t, ok)
	assert.False(t, betaP.Host)

	joined := lastEvent(t, tx, "alpha", domain.EvUserJoined)
	snap := joined.payload.(domain.Snapshot)
	assert.Equal(t, "Bob", snap.Name)
	assert.False(t, snap.IsHost)

	count := lastEvent(t, tx, "alpha", domain.EvParticipantCount)
	assert.Equal(t, domain.ParticipantCountPayload{Count: 2}, count.payload)
}

// S2 - Duplicate session preemption.
func TestJoinRoom_DuplicateSessionPreemption(t *testing.T) {
	h, tx := newTestHub()
	tx.connect("a1")
	h.handleJoinRoom("a1", joinPayload(t, "R1", "Alice", ""))

	a1, ok := h.conns.Get("a1")
	require.True(t, ok)
	assert.True(t, a1.Host)

	tx.connect("a2")
	h.handleJoinRoom("a2", joinPayload(t, "R1", "Alice", ""))

	_, stillThere := h.conns.Get("a1")
	assert.False(t, stillThere, "a1 must be removed")
	assert.False(t, tx.IsConnected("a1"), "a1 must be force-closed")

	a2, ok := h.conns.Get("a2")
	require.True(t, ok)
	assert.True(t, a2.Host, "a2 becomes host since a1 (prior host) was removed first")
	assert.Equal(t, 1, h.rooms.Size("R1"))
}

// S4 - Host auto-transfer on disconnect.
func TestDisconnect_HostAutoTransfer(t *testing.T) {
	h, tx := newTestHub()
	tx.connect("alpha")
	tx.connect("beta")
	tx.connect("gamma")
	h.handleJoinRoom("alpha", joinPayload(t, "R1", "Alice", ""))
	h.handleJoinRoom("beta", joinPayload(t, "R1", "Bob", ""))
	h.handleJoinRoom("gamma", joinPayload(t, "R1", "Gina", ""))

	h.OnDisconnect("alpha")

	assert.Equal(t, "beta", h.rooms.Host("R1"), "first remaining member (join order) becomes host")
	betaP, ok := h.conns.Get("beta")
	require.True(t, ok)
	assert.True(t, betaP.Host)

	changed := lastEvent(t, tx, "beta", domain.EvHostChanged)
	payload := changed.payload.(domain.HostChangedPayload)
	assert.Equal(t, "beta", payload.NewHostID)
	assert.Equal(t, "alpha", payload.PreviousHostID)
}

// S5 - Capacity rejection.
func TestJoinRoom_RoomFull(t *testing.T) {
	h, tx := newTestHub()
	for i := 0; i < domain.MaxParticipantsPerRoom; i++ {
		id := string(rune('a' + i%26))
		connID := id + string(rune('0'+i/26))
		tx.connect(connID)
		h.handleJoinRoom(connID, joinPayload(t, "R1", "user-"+connID, ""))
	}
	require.Equal(t, domain.MaxParticipantsPerRoom, h.rooms.Size("R1"))

	tx.connect("overflow")
	h.handleJoinRoom("overflow", joinPayload(t, "R1", "Overflow", ""))

	_, joined := h.conns.Get("overflow")
	assert.False(t, joined)
	errEvt := lastEvent(t, tx, "overflow", domain.EvJoinError)
	assert.Equal(t, domain.JoinErrorPayload{Message: domain.ErrRoomFull.Error()}, errEvt.payload)
}

// S6 - Unauthorized host action.
func TestHostRemoveParticipant_NonHostIgnored(t *testing.T) {
	h, tx := newTestHub()
	tx.connect("alpha")
	tx.connect("beta")
	h.handleJoinRoom("alpha", joinPayload(t, "R1", "Alice", ""))
	h.handleJoinRoom("beta", joinPayload(t, "R1", "Bob", ""))

	payload, err := json.Marshal(targetPayload{ParticipantID: "alpha"})
	require.NoError(t, err)
	h.handleHostRemoveParticipant("beta", payload) // beta is not host

	_, stillThere := h.conns.Get("alpha")
	assert.True(t, stillThere, "non-host action must not mutate state")
}
