package hub

import (
	"context"
	"time"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

const (
	sweepInterval     = 60 * time.Second
	healthLogInterval = 30 * time.Second
	memoryThresholdMB = 500
)

// RunSupervisor is the Lifecycle Supervisor (spec §4.8): a periodic stale
// sweep and a periodic health line, both running on timers orthogonal to
// event handling. It blocks until ctx is cancelled.
func (h *Hub) RunSupervisor(ctx context.Context) {
	sweepTicker := time.NewTicker(sweepInterval)
	logTicker := time.NewTicker(healthLogInterval)
	defer sweepTicker.Stop()
	defer logTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweepTicker.C:
			h.sweep()
		case <-logTicker.C:
			h.logHealthLine()
			if memoryUsageMB() > memoryThresholdMB {
				h.sweep()
			}
		}
	}
}

// sweep removes every connection whose health record has gone silent
// longer than domain.StaleAfter. Per spec §4.8 step 1 this is assumed dead
// and nothing is emitted.
func (h *Hub) sweep() {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := time.Now().Add(-domain.StaleAfter)
	var stale []string
	for _, p := range h.conns.All() {
		if rec, ok := h.health.Get(p.ConnID); ok && rec.LastPing.Before(cutoff) {
			stale = append(stale, p.ConnID)
		}
	}

	for _, connID := range stale {
		if p, ok := h.conns.Get(connID); ok {
			h.rooms.RemoveMember(p.RoomID, connID)
			h.dropRoomIfEmpty(p.RoomID)
			h.conns.Remove(connID)
		}
		h.health.Remove(connID)
		delete(h.pendingPing, connID)
		if cancel, ok := h.pingCancel[connID]; ok {
			cancel()
			delete(h.pingCancel, connID)
		}
	}

	if len(stale) > 0 {
		h.log.Info("stale sweep removed connections", "count", len(stale))
	}
}

func (h *Hub) logHealthLine() {
	h.mu.Lock()
	participants := h.conns.Count()
	rooms := len(h.rooms.RoomIDs())
	h.mu.Unlock()

	h.log.Info("health", "participants", participants, "rooms", rooms, "memoryMB", memoryUsageMB())
}
