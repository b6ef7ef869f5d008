package core

import (
	"encoding/json"

	"github.com/dkeye/Roulette/internal/domain"
)

// Notifier delivers an event to one participant.
// Delivery is fire-and-forget: a participant that is already gone
// simply does not receive it.
type Notifier interface {
	Notify(id domain.ParticipantID, ev domain.Event)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(id domain.ParticipantID, ev domain.Event)

func (f NotifierFunc) Notify(id domain.ParticipantID, ev domain.Event) { f(id, ev) }

// Stats is a read-only view of matchmaker state.
type Stats struct {
	Online  int `json:"online"`
	Waiting int `json:"waiting"`
	Pairs   int `json:"pairs"`
}

// Matchmaker is the pairing state machine.
// Implementations are not safe for concurrent use; callers serialize.
type Matchmaker interface {
	Connect(id domain.ParticipantID)
	Disconnect(id domain.ParticipantID)
	RelaySignal(from, to domain.ParticipantID, payload json.RawMessage)
	RequestCount(id domain.ParticipantID)
	Skip(id domain.ParticipantID)
	Requeue(id domain.ParticipantID)
	Snapshot() Stats
}
