package domain

import "time"

// ChatMessage is the archival shape written to the best-effort store;
// it is never read back onto the signaling hot path.
type ChatMessage struct {
	ID        string
	RoomID    string
	UserID    string
	Text      string
	CreatedAt time.Time
}
