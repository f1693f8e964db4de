package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomRegistry_LazyCreateAndDeleteOnEmpty(t *testing.T) {
	r := NewRoomRegistry()
	assert.False(t, r.Exists("R1"))

	r.AddMember("R1", "c1")
	assert.True(t, r.Exists("R1"))
	assert.Equal(t, 1, r.Size("R1"))

	r.SetHost("R1", "c1")
	r.RemoveMember("R1", "c1")

	assert.False(t, r.Exists("R1"), "room is deleted once empty")
	assert.Empty(t, r.Host("R1"), "host map is cleared with the room")
}

func TestRoomRegistry_MembersPreservesJoinOrder(t *testing.T) {
	r := NewRoomRegistry()
	r.AddMember("R1", "c1")
	r.AddMember("R1", "c2")
	r.AddMember("R1", "c3")
	require.Equal(t, []string{"c1", "c2", "c3"}, r.Members("R1"))

	r.RemoveMember("R1", "c1")
	assert.Equal(t, []string{"c2", "c3"}, r.Members("R1"), "first remaining member is deterministic")
}

func TestRoomRegistry_CreatorFirstWriterWins(t *testing.T) {
	r := NewRoomRegistry()
	r.SetCreator("R1", "user-1")
	r.SetCreator("R1", "user-2")
	assert.Equal(t, "user-1", r.Creator("R1"))

	r.SetCreator("R2", "") // empty userID never sets a creator
	assert.Empty(t, r.Creator("R2"))
}

func TestRoomRegistry_IsMember(t *testing.T) {
	r := NewRoomRegistry()
	r.AddMember("R1", "c1")
	assert.True(t, r.IsMember("R1", "c1"))
	assert.False(t, r.IsMember("R1", "c2"))
	assert.False(t, r.IsMember("R2", "c1"))
}
