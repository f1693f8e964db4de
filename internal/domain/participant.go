package domain

import "time"

// Participant is the room-level identity backed by a connection. It is
// created on a successful join-room and destroyed on disconnect, on
// preemption by a same-name session, or by the stale sweep.
type Participant struct {
	ConnID      string
	DisplayName string
	UserID      string // optional authenticated user id, empty if anonymous
	RoomID      string
	JoinedAt    time.Time
	LastSeen    time.Time

	Online     bool
	Muted      bool
	VideoOff   bool
	Host       bool
	RaisedHand bool
}

// Snapshot is the wire-shaped view of a Participant used in user-joined,
// current-participants and similar fan-outs.
type Snapshot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsMuted     bool   `json:"isMuted"`
	IsVideoOff  bool   `json:"isVideoOff"`
	IsHost      bool   `json:"isHost"`
	IsRaiseHand bool   `json:"isRaiseHand"`
}

func (p *Participant) ToSnapshot() Snapshot {
	return Snapshot{
		ID:          p.ConnID,
		Name:        p.DisplayName,
		IsMuted:     p.Muted,
		IsVideoOff:  p.VideoOff,
		IsHost:      p.Host,
		IsRaiseHand: p.RaisedHand,
	}
}
