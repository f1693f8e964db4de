// Package registry holds the process-wide state the hub mutates:
// participant records, the display-name session index, room membership,
// the host map, the creator map and per-connection health. None of these
// types lock internally — the hub (internal/hub) serializes all access
// through a single mutex, per the concurrency model in SPEC_FULL.md §7.
package registry

import (
	"github.com/samber/lo"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

// ConnectionRegistry owns participant records keyed by connection id, and
// the session index keyed by display name (spec §3, §4.2).
type ConnectionRegistry struct {
	participants map[string]*domain.Participant
	sessionIndex map[string]map[string]struct{} // displayName -> set of connIds
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		participants: make(map[string]*domain.Participant),
		sessionIndex: make(map[string]map[string]struct{}),
	}
}

func (r *ConnectionRegistry) Get(connID string) (*domain.Participant, bool) {
	p, ok := r.participants[connID]
	return p, ok
}

func (r *ConnectionRegistry) Count() int {
	return len(r.participants)
}

// Put registers a freshly-joined participant and indexes it by name.
func (r *ConnectionRegistry) Put(p *domain.Participant) {
	r.participants[p.ConnID] = p
	r.indexName(p.DisplayName, p.ConnID)
}

// Remove deletes a participant record and its session-index entry. It does
// not touch room membership; callers (the hub) own that separately.
func (r *ConnectionRegistry) Remove(connID string) {
	p, ok := r.participants[connID]
	if !ok {
		return
	}
	delete(r.participants, connID)
	r.unindexName(p.DisplayName, connID)
}

// Rename moves a participant's session-index entry to its new display
// name. Callers must have already written the new name onto the
// participant record.
func (r *ConnectionRegistry) Rename(connID, oldName, newName string) {
	if oldName == newName {
		return
	}
	r.unindexName(oldName, connID)
	r.indexName(newName, connID)
}

// ConnIDsForName returns the live connection ids currently holding name,
// excluding except if non-empty.
func (r *ConnectionRegistry) ConnIDsForName(name, except string) []string {
	set, ok := r.sessionIndex[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		if id != except {
			out = append(out, id)
		}
	}
	return out
}

func (r *ConnectionRegistry) indexName(name, connID string) {
	set, ok := r.sessionIndex[name]
	if !ok {
		set = make(map[string]struct{})
		r.sessionIndex[name] = set
	}
	set[connID] = struct{}{}
}

func (r *ConnectionRegistry) unindexName(name, connID string) {
	set, ok := r.sessionIndex[name]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.sessionIndex, name)
	}
}

// All returns every live participant; used by the stale sweep.
func (r *ConnectionRegistry) All() []*domain.Participant {
	return lo.Values(r.participants)
}
