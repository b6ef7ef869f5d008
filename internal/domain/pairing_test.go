package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairing_PartnerAndRole(t *testing.T) {
	p := Pairing{Caller: "a", Receiver: "b"}

	got, ok := p.Partner("a")
	assert.True(t, ok)
	assert.Equal(t, ParticipantID("b"), got)

	got, ok = p.Partner("b")
	assert.True(t, ok)
	assert.Equal(t, ParticipantID("a"), got)

	_, ok = p.Partner("c")
	assert.False(t, ok)

	assert.Equal(t, RoleCaller, p.RoleOf("a"))
	assert.Equal(t, RoleReceiver, p.RoleOf("b"))
	assert.Equal(t, "none", p.RoleOf("c").String())
}

func TestNewParticipantID_Unique(t *testing.T) {
	a, b := NewParticipantID(), NewParticipantID()
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, len(a), MaxParticipantIDLen)
}
