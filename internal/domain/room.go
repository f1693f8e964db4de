package domain

// Room is the aggregate identity of a room id: who's in it, who hosts it,
// and who created it. The registries own the three parts separately (see
// Ownership, spec §3); Room itself is never stored as a struct — it is only
// a read-model type, and no code in this repository builds one.
type Room struct {
	ID        string
	HostID    string // connection id, empty if no-host
	CreatorID string // authenticated user id, empty if none supplied
	Members   []string
}

const (
	MaxTotalParticipants = 1000
	MaxParticipantsPerRoom = 50
)
