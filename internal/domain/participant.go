// Package domain contains entity without logic, just meta-data
package domain

import (
	"github.com/google/uuid"
)

const MaxParticipantIDLen = 36

type ParticipantID string

// NewParticipantID is a tiny helper to avoid ad-hoc id generation in adapters.
func NewParticipantID() ParticipantID {
	return ParticipantID(uuid.NewString())
}

// Status is where a connected participant currently is.
// Unseen and gone participants have no status at all.
type Status uint8

const (
	StatusWaiting Status = iota + 1
	StatusPaired
	StatusIdle
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusPaired:
		return "paired"
	case StatusIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Participant is the matchmaker's record of one connected session.
type Participant struct {
	ID     ParticipantID
	Status Status
}
