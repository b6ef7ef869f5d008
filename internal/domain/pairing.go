package domain

type Role uint8

const (
	RoleCaller Role = iota + 1
	RoleReceiver
)

func (r Role) String() string {
	switch r {
	case RoleCaller:
		return "caller"
	case RoleReceiver:
		return "receiver"
	default:
		return "none"
	}
}

// Pairing is two participants in one video session.
// Roles are fixed when the pairing forms; the caller sends the offer.
type Pairing struct {
	Caller   ParticipantID
	Receiver ParticipantID
}

// Partner returns the other side of the pairing.
func (p Pairing) Partner(id ParticipantID) (ParticipantID, bool) {
	switch id {
	case p.Caller:
		return p.Receiver, true
	case p.Receiver:
		return p.Caller, true
	}
	return "", false
}

func (p Pairing) RoleOf(id ParticipantID) Role {
	switch id {
	case p.Caller:
		return RoleCaller
	case p.Receiver:
		return RoleReceiver
	}
	return 0
}
