package hub

import (
	"sync"

	"github.com/cwrk-planet/signal-hub/config"
)

// emitted records one event delivered to one connection id, in delivery
// order, for assertions.
type emitted struct {
	connID  string
	event   string
	payload any
}

// fakeEmitter is an in-memory stand-in for *ws.Adapter. members is wired to
// the Hub's own Members method after construction, mirroring the way
// Hub.Members serves reads without taking the Hub's lock (see cmd/signal-hub
// and internal/transport/ws.Adapter).
type fakeEmitter struct {
	mu        sync.Mutex
	log       []emitted
	connected map[string]bool
	members   func(roomID string) []string
}

func newFakeEmitter() *fakeEmitter {
	return &fakeEmitter{connected: make(map[string]bool)}
}

func (f *fakeEmitter) connect(connID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected[connID] = true
}

func (f *fakeEmitter) Emit(connID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected[connID] {
		return
	}
	f.log = append(f.log, emitted{connID, event, payload})
}

func (f *fakeEmitter) EmitToPeer(toConnID, event string, payload any) {
	f.Emit(toConnID, event, payload)
}

func (f *fakeEmitter) EmitToRoom(roomID, event string, payload any) {
	for _, id := range f.members(roomID) {
		f.Emit(id, event, payload)
	}
}

func (f *fakeEmitter) EmitToRoomExceptSender(roomID, senderConnID, event string, payload any) {
	for _, id := range f.members(roomID) {
		if id == senderConnID {
			continue
		}
		f.Emit(id, event, payload)
	}
}

func (f *fakeEmitter) Broadcast(event string, payload any) {
	f.mu.Lock()
	ids := make([]string, 0, len(f.connected))
	for id, ok := range f.connected {
		if ok {
			ids = append(ids, id)
		}
	}
	f.mu.Unlock()
	for _, id := range ids {
		f.Emit(id, event, payload)
	}
}

func (f *fakeEmitter) ForceClose(connID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.connected, connID)
}

func (f *fakeEmitter) CloseAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = make(map[string]bool)
}

func (f *fakeEmitter) IsConnected(connID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected[connID]
}

func (f *fakeEmitter) ConnectionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ok := range f.connected {
		if ok {
			n++
		}
	}
	return n
}

func (f *fakeEmitter) eventsFor(connID string) []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []emitted
	for _, e := range f.log {
		if e.connID == connID {
			out = append(out, e)
		}
	}
	return out
}

// newTestHub builds a Hub wired to a fakeEmitter and returns both. No
// connection is registered; tests call tx.connect (or testConnect) first.
func newTestHub() (*Hub, *fakeEmitter) {
	tx := newFakeEmitter()
	h := New(tx, nil, &config.Config{}, nil)
	tx.members = h.Members
	return h, tx
}

func (h *Hub) testConnect(tx *fakeEmitter, connID string) {
	tx.connect(connID)
	h.OnConnect(connID)
}
