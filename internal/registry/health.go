package registry

import "github.com/cwrk-planet/signal-hub/internal/domain"

// HealthRegistry owns the per-connection health record. Only the Health
// Monitor writes an entry for its own connection (spec §5, "Shared-resource
// policy"); other components may read.
type HealthRegistry struct {
	records map[string]*domain.ConnectionHealth
}

func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{records: make(map[string]*domain.ConnectionHealth)}
}

func (h *HealthRegistry) Get(connID string) (*domain.ConnectionHealth, bool) {
	r, ok := h.records[connID]
	return r, ok
}

func (h *HealthRegistry) Put(r *domain.ConnectionHealth) {
	h.records[r.ConnID] = r
}

func (h *HealthRegistry) Remove(connID string) {
	delete(h.records, connID)
}
