package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Invariant 6: raise-hand-toggled(true) then (false) restores the initial
// flag and yields a pair of broadcasts.
func TestRaiseHandToggle_RoundTrip(t *testing.T) {
	h, tx := newTestHub()
	tx.connect("alpha")
	tx.connect("beta")
	h.handleJoinRoom("alpha", joinPayload(t, "R1", "Alice", ""))
	h.handleJoinRoom("beta", joinPayload(t, "R1", "Bob", ""))

	raise, err := json.Marshal(togglePayload{ParticipantID: "beta", Value: true})
	require.NoError(t, err)
	h.handleRaiseHandToggled("beta", raise)

	bp, ok := h.conns.Get("beta")
	require.True(t, ok)
	assert.True(t, bp.RaisedHand)

	lower, err := json.Marshal(togglePayload{ParticipantID: "beta", Value: false})
	require.NoError(t, err)
	h.handleRaiseHandToggled("beta", lower)

	bp, ok = h.conns.Get("beta")
	require.True(t, ok)
	assert.False(t, bp.RaisedHand, "flag returns to its initial state")

	var broadcasts int
	for _, e := range tx.eventsFor("alpha") {
		if e.event == "raise-hand-toggled" {
			broadcasts++
		}
	}
	assert.Equal(t, 2, broadcasts)
}

// Invariant 7: host-transfer A->B then B->A restores the original host.
func TestHostTransfer_RoundTrip(t *testing.T) {
	h, tx := newTestHub()
	tx.connect("alpha")
	tx.connect("beta")
	h.handleJoinRoom("alpha", joinPayload(t, "R1", "Alice", ""))
	h.handleJoinRoom("beta", joinPayload(t, "R1", "Bob", ""))
	require.Equal(t, "alpha", h.rooms.Host("R1"))

	toBeta, err := json.Marshal(hostTransferPayload{NewHostID: "beta"})
	require.NoError(t, err)
	h.handleHostTransfer("alpha", toBeta)
	require.Equal(t, "beta", h.rooms.Host("R1"))

	toAlpha, err := json.Marshal(hostTransferPayload{NewHostID: "alpha"})
	require.NoError(t, err)
	h.handleHostTransfer("beta", toAlpha)
	require.Equal(t, "alpha", h.rooms.Host("R1"))
}
