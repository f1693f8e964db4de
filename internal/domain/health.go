package domain

import "time"

// ConnectionHealth mirrors the lifetime of a single connection. It is
// written only by the Health Monitor for its own connection.
type ConnectionHealth struct {
	ConnID         string
	ConnectedAt    time.Time
	LastPing       time.Time
	PingCount      int
	ReconnectCount int
	Healthy        bool
	LatencyMs      *int64 // nil until the first pong is observed

	// Interval is the current adaptive ping interval, clamped to
	// [MinPingInterval, MaxPingInterval].
	Interval time.Duration
}

const (
	DefaultPingInterval = 30 * time.Second
	MinPingInterval     = 15 * time.Second
	MaxPingInterval     = 60 * time.Second
	PongTimeout         = 15 * time.Second

	FastLatency = 100 * time.Millisecond
	SlowLatency = 1000 * time.Millisecond

	StaleAfter = 5 * time.Minute
)
