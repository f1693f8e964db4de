package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

func TestConnectionRegistry_PutGetRemove(t *testing.T) {
	r := NewConnectionRegistry()
	p := &domain.Participant{ConnID: "c1", DisplayName: "Alice", RoomID: "R1", JoinedAt: time.Now()}
	r.Put(p)

	got, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.DisplayName)
	assert.Equal(t, 1, r.Count())

	r.Remove("c1")
	_, ok = r.Get("c1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())
}

func TestConnectionRegistry_SessionIndexDetectsDuplicates(t *testing.T) {
	r := NewConnectionRegistry()
	r.Put(&domain.Participant{ConnID: "c1", DisplayName: "Alice", RoomID: "R1"})
	r.Put(&domain.Participant{ConnID: "c2", DisplayName: "Alice", RoomID: "R1"})

	dups := r.ConnIDsForName("Alice", "c2")
	assert.Equal(t, []string{"c1"}, dups)

	r.Remove("c1")
	assert.Empty(t, r.ConnIDsForName("Alice", "c2"))
}

func TestConnectionRegistry_Rename(t *testing.T) {
	r := NewConnectionRegistry()
	r.Put(&domain.Participant{ConnID: "c1", DisplayName: "Alice", RoomID: "R1"})
	r.Rename("c1", "Alice", "Alicia")

	assert.Empty(t, r.ConnIDsForName("Alice", ""))
	assert.Equal(t, []string{"c1"}, r.ConnIDsForName("Alicia", ""))
}
