package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

// S3 - Peer relay isolation.
func TestPeerSignal_DeliveredToTargetOnly(t *testing.T) {
	h, tx := newTestHub()
	tx.connect("alpha")
	tx.connect("beta")
	tx.connect("gamma")
	h.handleJoinRoom("alpha", joinPayload(t, "R1", "Alice", ""))
	h.handleJoinRoom("beta", joinPayload(t, "R1", "Bob", ""))
	h.handleJoinRoom("gamma", joinPayload(t, "R1", "Gina", ""))

	raw, err := json.Marshal(peerSignalInbound{TargetID: "beta", Payload: json.RawMessage(`"X"`)})
	require.NoError(t, err)
	h.handlePeerSignal("alpha", domain.EvOffer, raw)

	betaEvents := tx.eventsFor("beta")
	var offers int
	for _, e := range betaEvents {
		if e.event == domain.EvOffer {
			offers++
			sig := e.payload.(domain.PeerSignalPayload)
			assert.Equal(t, "alpha", sig.SenderID)
		}
	}
	assert.Equal(t, 1, offers)

	for _, e := range tx.eventsFor("gamma") {
		assert.NotEqual(t, domain.EvOffer, e.event, "bystander must never receive the relayed offer")
	}
}
