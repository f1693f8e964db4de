package hub

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

const (
	shutdownSoftDeadline = 5 * time.Second
	shutdownPollInterval = 100 * time.Millisecond
)

// WaitForSignal is the Signal Hook (spec §4.9): it blocks until SIGTERM,
// SIGINT, SIGUSR2 or SIGHUP arrives, then returns so the caller can drive
// Shutdown and the hard deadline.
func WaitForSignal() os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR2, syscall.SIGHUP)
	defer signal.Stop(ch)
	return <-ch
}

// Shutdown runs the graceful-shutdown sequence: snapshot, broadcast,
// soft 5s deadline, forced close (spec §4.9 steps 1-3). It returns once
// every connection is closed or the soft deadline expires — whichever
// first — so the caller can then stop the transport listener (step 4).
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		h.mu.Lock()
		h.closing = true
		recovery := map[string]any{
			"rooms":        h.rooms.RoomIDs(),
			"participants": h.conns.Count(),
		}
		h.mu.Unlock()

		h.tx.Broadcast(domain.EvServerShutdown, domain.ServerShutdownPayload{
			Message:          "server is shutting down for maintenance",
			Timestamp:        nowMillis(),
			RecoveryData:     recovery,
			ExpectedDowntime: 30000,
		})

		deadline := time.After(shutdownSoftDeadline)
		ticker := time.NewTicker(shutdownPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-deadline:
				h.tx.CloseAll()
				return
			case <-ticker.C:
				if h.tx.ConnectionCount() == 0 {
					return
				}
			}
		}
	})
}
