package hub

import (
	"context"
	"encoding/json"
	"runtime"
	"time"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

func clampDuration(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

// startHealthLoop spawns the per-connection adaptive ping loop (spec §4.4).
// The loop is cancelled deterministically on disconnect (spec §9, "cancel
// deterministically on disconnect to avoid leaks").
func (h *Hub) startHealthLoop(connID string) {
	ctx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	h.pingCancel[connID] = cancel
	h.mu.Unlock()
	go h.healthLoop(ctx, connID)
}

func (h *Hub) stopHealthLoop(connID string) {
	h.mu.Lock()
	cancel, ok := h.pingCancel[connID]
	delete(h.pingCancel, connID)
	delete(h.pendingPing, connID)
	h.mu.Unlock()
	if ok {
		cancel()
	}
}

func (h *Hub) healthLoop(ctx context.Context, connID string) {
	for {
		h.mu.Lock()
		rec, ok := h.health.Get(connID)
		if !ok {
			h.mu.Unlock()
			return
		}
		interval := rec.Interval
		h.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		sentAt := time.Now()
		h.mu.Lock()
		rec, ok = h.health.Get(connID)
		if !ok {
			h.mu.Unlock()
			return
		}
		rec.PingCount++
		rec.LastPing = sentAt
		h.pendingPing[connID] = sentAt
		h.mu.Unlock()

		h.tx.Emit(connID, domain.EvPing, domain.PingPayload{
			Timestamp:   sentAt.UnixMilli(),
			ServerLoad:  serverLoad(),
			MemoryUsage: memoryUsageMB(),
		})

		select {
		case <-ctx.Done():
			return
		case <-time.After(domain.PongTimeout):
			h.handlePongTimeout(connID, sentAt)
		}
	}
}

// handlePongTimeout fires PongTimeout after a ping was sent. If a matching
// pong already cleared the pending entry, this is a no-op.
func (h *Hub) handlePongTimeout(connID string, sentAt time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pending, ok := h.pendingPing[connID]
	if !ok || !pending.Equal(sentAt) {
		return
	}
	delete(h.pendingPing, connID)

	rec, ok := h.health.Get(connID)
	if !ok {
		return
	}
	rec.Healthy = false
	rec.ReconnectCount++
	rec.Interval = clampDuration(rec.Interval-5*time.Second, domain.MinPingInterval, domain.MaxPingInterval)
}

// handlePong is the server-loop side of the ping/pong exchange: the client
// echoes back the hub's own ping (spec §4.4). Latency drives both the
// healthy flag and the adaptive interval.
func (h *Hub) handlePong(connID string, _ json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sentAt, pending := h.pendingPing[connID]
	if !pending {
		return
	}
	delete(h.pendingPing, connID)

	rec, ok := h.health.Get(connID)
	if !ok {
		return
	}
	latency := time.Since(sentAt)
	ms := latency.Milliseconds()
	rec.LatencyMs = &ms
	rec.Healthy = true

	switch {
	case latency < domain.FastLatency:
		rec.Interval = clampDuration(rec.Interval+5*time.Second, domain.MinPingInterval, domain.MaxPingInterval)
	case latency > domain.SlowLatency:
		rec.Interval = clampDuration(rec.Interval-2*time.Second, domain.MinPingInterval, domain.MaxPingInterval)
	}
}

func serverLoad() float64 {
	return float64(runtime.NumGoroutine())
}

func memoryUsageMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / (1024 * 1024)
}
