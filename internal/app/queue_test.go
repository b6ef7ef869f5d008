package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkeye/Roulette/internal/domain"
)

func TestWaitingQueue(t *testing.T) {
	q := NewWaitingQueue()
	assert.True(t, q.Push("a"))
	assert.True(t, q.Push("b"))
	assert.False(t, q.Push("a"))
	assert.True(t, q.Push("c"))
	assert.Equal(t, []domain.ParticipantID{"a", "b", "c"}, q.IDs())

	assert.True(t, q.Remove("b"))
	assert.False(t, q.Remove("b"))
	assert.Equal(t, 2, q.Len())

	id, ok := q.PopFront()
	assert.True(t, ok)
	assert.Equal(t, domain.ParticipantID("a"), id)
	assert.False(t, q.Contains("a"))

	id, _ = q.PopFront()
	assert.Equal(t, domain.ParticipantID("c"), id)
	_, ok = q.PopFront()
	assert.False(t, ok)
}

func TestPairingMap_Symmetric(t *testing.T) {
	pm := NewPairingMap()
	pm.Form("a", "b")
	assert.NoError(t, pm.check())
	assert.Equal(t, 1, pm.Len())

	p, ok := pm.PartnerOf("b")
	assert.True(t, ok)
	assert.Equal(t, domain.ParticipantID("a"), p)

	got, ok := pm.Dissolve("b")
	assert.True(t, ok)
	assert.Equal(t, domain.Pairing{Caller: "a", Receiver: "b"}, got)
	_, ok = pm.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, pm.Len())

	_, ok = pm.Dissolve("a")
	assert.False(t, ok)
}
