package registry

import "github.com/samber/lo"

// memberSet preserves join order so "the deterministic first remaining
// member" (spec §4.6, host auto-transfer on disconnect) has an unambiguous
// meaning — insertion order, same as the reference implementation's Set.
type memberSet struct {
	order []string
	index map[string]int
}

func newMemberSet() *memberSet {
	return &memberSet{index: make(map[string]int)}
}

func (s *memberSet) add(connID string) {
	if _, ok := s.index[connID]; ok {
		return
	}
	s.index[connID] = len(s.order)
	s.order = append(s.order, connID)
}

func (s *memberSet) remove(connID string) {
	i, ok := s.index[connID]
	if !ok {
		return
	}
	s.order = append(s.order[:i], s.order[i+1:]...)
	delete(s.index, connID)
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j]] = j
	}
}

func (s *memberSet) has(connID string) bool {
	_, ok := s.index[connID]
	return ok
}

func (s *memberSet) len() int { return len(s.order) }

// RoomRegistry owns room membership, the host map and the creator map
// (spec §3, §4.3). A room exists iff its member set is non-empty.
type RoomRegistry struct {
	members map[string]*memberSet // roomID -> ordered set of connIds
	host    map[string]string     // roomID -> host connId
	creator map[string]string     // roomID -> creator userId
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		members: make(map[string]*memberSet),
		host:    make(map[string]string),
		creator: make(map[string]string),
	}
}

func (r *RoomRegistry) Exists(roomID string) bool {
	_, ok := r.members[roomID]
	return ok
}

// Members returns the room's connection ids in join order. The first entry
// is the "deterministic first remaining member" spec §4.6 refers to.
func (r *RoomRegistry) Members(roomID string) []string {
	set, ok := r.members[roomID]
	if !ok {
		return nil
	}
	out := make([]string, len(set.order))
	copy(out, set.order)
	return out
}

func (r *RoomRegistry) Size(roomID string) int {
	set, ok := r.members[roomID]
	if !ok {
		return 0
	}
	return set.len()
}

func (r *RoomRegistry) IsMember(roomID, connID string) bool {
	set, ok := r.members[roomID]
	return ok && set.has(connID)
}

// AddMember creates the room lazily if this is its first member.
func (r *RoomRegistry) AddMember(roomID, connID string) {
	set, ok := r.members[roomID]
	if !ok {
		set = newMemberSet()
		r.members[roomID] = set
	}
	set.add(connID)
}

// RemoveMember removes connID from roomID; if the room becomes empty it is
// deleted along with its host and creator entries.
func (r *RoomRegistry) RemoveMember(roomID, connID string) {
	set, ok := r.members[roomID]
	if !ok {
		return
	}
	set.remove(connID)
	if set.len() == 0 {
		delete(r.members, roomID)
		delete(r.host, roomID)
		delete(r.creator, roomID)
	}
}

func (r *RoomRegistry) Host(roomID string) string {
	return r.host[roomID]
}

func (r *RoomRegistry) SetHost(roomID, connID string) {
	r.host[roomID] = connID
}

func (r *RoomRegistry) ClearHost(roomID string) {
	delete(r.host, roomID)
}

func (r *RoomRegistry) Creator(roomID string) string {
	return r.creator[roomID]
}

func (r *RoomRegistry) SetCreator(roomID, userID string) {
	if userID == "" {
		return
	}
	if _, ok := r.creator[roomID]; ok {
		return // first writer wins; a room's creator never changes
	}
	r.creator[roomID] = userID
}

// RoomIDs returns every currently non-empty room, for stats, the health
// line and the shutdown snapshot.
func (r *RoomRegistry) RoomIDs() []string {
	return lo.Keys(r.members)
}
