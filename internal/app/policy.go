package app

import "github.com/dkeye/Roulette/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropEvent
	KickMember
)

func (a BackpressureAction) String() string {
	switch a {
	case DropEvent:
		return "drop"
	case KickMember:
		return "kick"
	default:
		return "none"
	}
}

// Policy decides what happens to a participant whose outbound queue is full.
type Policy interface {
	OnBackPressure(id domain.ParticipantID, ev domain.Event) BackpressureAction
}

// SimplePolicy drops presence counts, the next broadcast carries a fresh
// one. Any other event is kicked.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(_ domain.ParticipantID, ev domain.Event) BackpressureAction {
	if _, ok := ev.(domain.OnlineUsersCount); ok {
		return DropEvent
	}
	return KickMember
}
