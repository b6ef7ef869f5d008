package app

import (
	"fmt"

	"github.com/dkeye/Roulette/internal/domain"
)

// PairingMap indexes every active pairing by both of its members.
type PairingMap struct {
	byID map[domain.ParticipantID]domain.Pairing
}

func NewPairingMap() *PairingMap {
	return &PairingMap{byID: make(map[domain.ParticipantID]domain.Pairing)}
}

// Form records a pairing in both directions.
// Callers must make sure neither side is already paired.
func (pm *PairingMap) Form(caller, receiver domain.ParticipantID) domain.Pairing {
	p := domain.Pairing{Caller: caller, Receiver: receiver}
	pm.byID[caller] = p
	pm.byID[receiver] = p
	return p
}

func (pm *PairingMap) Get(id domain.ParticipantID) (domain.Pairing, bool) {
	p, ok := pm.byID[id]
	return p, ok
}

func (pm *PairingMap) PartnerOf(id domain.ParticipantID) (domain.ParticipantID, bool) {
	p, ok := pm.byID[id]
	if !ok {
		return "", false
	}
	return p.Partner(id)
}

// Dissolve removes the pairing id belongs to, both directions at once.
func (pm *PairingMap) Dissolve(id domain.ParticipantID) (domain.Pairing, bool) {
	p, ok := pm.byID[id]
	if !ok {
		return domain.Pairing{}, false
	}
	delete(pm.byID, p.Caller)
	delete(pm.byID, p.Receiver)
	return p, true
}

// Len is the number of pairings, not of paired participants.
func (pm *PairingMap) Len() int { return len(pm.byID) / 2 }

func (pm *PairingMap) check() error {
	for id, p := range pm.byID {
		partner, ok := p.Partner(id)
		if !ok {
			return fmt.Errorf("pairing of %s does not contain it", id)
		}
		if partner == id {
			return fmt.Errorf("%s is paired with itself", id)
		}
		back, ok := pm.byID[partner]
		if !ok || back != p {
			return fmt.Errorf("pairing %s<->%s is not symmetric", id, partner)
		}
	}
	return nil
}
