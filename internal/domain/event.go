package domain

import "encoding/json"

// Event is anything the matchmaker wants delivered to a participant.
// Name is the wire event type.
type Event interface {
	Name() string
}

const (
	EventPartner             = "partner"
	EventPartnerDisconnected = "partner_disconnected"
	EventSignal              = "signal"
	EventOnlineUsersCount    = "online_users_count"
)

type Partner struct {
	PartnerID ParticipantID `json:"partnerId"`
	IsCaller  bool          `json:"isCaller"`
}

func (Partner) Name() string { return EventPartner }

type PartnerDisconnected struct {
	DisconnectedPartnerID ParticipantID `json:"disconnectedPartnerId"`
}

func (PartnerDisconnected) Name() string { return EventPartnerDisconnected }

// Signal carries an offer, answer, ICE candidate or presence state.
// The payload is never inspected.
type Signal struct {
	From   ParticipantID   `json:"from"`
	Signal json.RawMessage `json:"signal"`
}

func (Signal) Name() string { return EventSignal }

type OnlineUsersCount struct {
	Count int `json:"count"`
}

func (OnlineUsersCount) Name() string { return EventOnlineUsersCount }
