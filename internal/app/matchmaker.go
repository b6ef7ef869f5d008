package app

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
)

// Matchmaker pairs waiting participants two at a time and relays
// signaling between them.
//
// It performs no I/O of its own and is not safe for concurrent use:
// the orchestrator runs every call on a single goroutine. Unknown ids
// are ignored everywhere.
type Matchmaker struct {
	notify core.Notifier

	participants map[domain.ParticipantID]*domain.Participant
	queue        *WaitingQueue
	pairs        *PairingMap
	online       int
}

var _ core.Matchmaker = (*Matchmaker)(nil)

func NewMatchmaker(n core.Notifier) *Matchmaker {
	if n == nil {
		n = core.NotifierFunc(func(domain.ParticipantID, domain.Event) {})
	}
	return &Matchmaker{
		notify:       n,
		participants: make(map[domain.ParticipantID]*domain.Participant),
		queue:        NewWaitingQueue(),
		pairs:        NewPairingMap(),
	}
}

// Connect registers a new participant and queues it for a partner.
func (m *Matchmaker) Connect(id domain.ParticipantID) {
	if id == "" {
		return
	}
	if _, ok := m.participants[id]; ok {
		return
	}
	m.participants[id] = &domain.Participant{ID: id, Status: domain.StatusWaiting}
	m.queue.Push(id)
	m.online++
	m.broadcastCount()
	m.formPairs()
}

// Disconnect forgets id. A partner left behind is told, re-queued and
// matched again right away if anyone else is waiting.
func (m *Matchmaker) Disconnect(id domain.ParticipantID) {
	if _, ok := m.participants[id]; !ok {
		return
	}
	delete(m.participants, id)
	m.online = max(0, m.online-1)
	m.broadcastCount()

	m.queue.Remove(id)
	if partner, ok := m.dissolve(id); ok {
		m.enqueue(partner)
		m.formPairs()
	}
}

// Skip ends the pairing id is in. The partner is treated exactly as if id
// had disconnected; id itself stays connected but idle until Requeue.
func (m *Matchmaker) Skip(id domain.ParticipantID) {
	p, ok := m.participants[id]
	if !ok || p.Status != domain.StatusPaired {
		return
	}
	partner, ok := m.dissolve(id)
	if !ok {
		return
	}
	p.Status = domain.StatusIdle
	m.enqueue(partner)
	m.formPairs()
}

// Requeue puts an idle participant back at the tail of the queue.
func (m *Matchmaker) Requeue(id domain.ParticipantID) {
	p, ok := m.participants[id]
	if !ok || p.Status != domain.StatusIdle {
		return
	}
	m.enqueue(id)
	m.formPairs()
}

// RelaySignal forwards payload to `to` untouched.
func (m *Matchmaker) RelaySignal(from, to domain.ParticipantID, payload json.RawMessage) {
	if _, ok := m.participants[from]; !ok {
		return
	}
	if _, ok := m.participants[to]; !ok {
		return
	}
	m.notify.Notify(to, domain.Signal{From: from, Signal: payload})
}

func (m *Matchmaker) RequestCount(id domain.ParticipantID) {
	if _, ok := m.participants[id]; !ok {
		return
	}
	m.notify.Notify(id, domain.OnlineUsersCount{Count: m.online})
}

func (m *Matchmaker) Snapshot() core.Stats {
	return core.Stats{
		Online:  m.online,
		Waiting: m.queue.Len(),
		Pairs:   m.pairs.Len(),
	}
}

func (m *Matchmaker) StatusOf(id domain.ParticipantID) (domain.Status, bool) {
	p, ok := m.participants[id]
	if !ok {
		return 0, false
	}
	return p.Status, true
}

func (m *Matchmaker) PartnerOf(id domain.ParticipantID) (domain.ParticipantID, bool) {
	return m.pairs.PartnerOf(id)
}

func (m *Matchmaker) Waiting() []domain.ParticipantID { return m.queue.IDs() }

// Validate reports the first broken invariant, if any.
func (m *Matchmaker) Validate() error {
	if m.online < 0 {
		return fmt.Errorf("online counter is negative: %d", m.online)
	}
	if m.online != len(m.participants) {
		return fmt.Errorf("online counter %d != %d connected", m.online, len(m.participants))
	}
	if err := m.pairs.check(); err != nil {
		return err
	}
	seen := make(map[domain.ParticipantID]bool, m.queue.Len())
	for _, id := range m.queue.IDs() {
		if seen[id] {
			return fmt.Errorf("%s queued twice", id)
		}
		seen[id] = true
	}
	for id, p := range m.participants {
		queued := m.queue.Contains(id)
		_, paired := m.pairs.Get(id)
		switch p.Status {
		case domain.StatusWaiting:
			if !queued || paired {
				return fmt.Errorf("%s is waiting but queued=%t paired=%t", id, queued, paired)
			}
		case domain.StatusPaired:
			if queued || !paired {
				return fmt.Errorf("%s is paired but queued=%t paired=%t", id, queued, paired)
			}
		case domain.StatusIdle:
			if queued || paired {
				return fmt.Errorf("%s is idle but queued=%t paired=%t", id, queued, paired)
			}
		default:
			return fmt.Errorf("%s has status %s", id, p.Status)
		}
	}
	for id := range seen {
		if _, ok := m.participants[id]; !ok {
			return fmt.Errorf("%s queued but not connected", id)
		}
	}
	return nil
}

// formPairs pops the two oldest waiters until fewer than two remain.
// The first popped is the caller.
func (m *Matchmaker) formPairs() {
	for m.queue.Len() >= 2 {
		caller, _ := m.queue.PopFront()
		receiver, _ := m.queue.PopFront()
		m.pairs.Form(caller, receiver)
		m.participants[caller].Status = domain.StatusPaired
		m.participants[receiver].Status = domain.StatusPaired

		m.notify.Notify(caller, domain.Partner{PartnerID: receiver, IsCaller: true})
		m.notify.Notify(receiver, domain.Partner{PartnerID: caller, IsCaller: false})
	}
}

// dissolve breaks up id's pairing and tells the partner, if the partner
// is still connected.
func (m *Matchmaker) dissolve(id domain.ParticipantID) (domain.ParticipantID, bool) {
	p, ok := m.pairs.Dissolve(id)
	if !ok {
		return "", false
	}
	partner, _ := p.Partner(id)
	if _, ok := m.participants[partner]; !ok {
		return "", false
	}
	m.notify.Notify(partner, domain.PartnerDisconnected{DisconnectedPartnerID: id})
	return partner, true
}

func (m *Matchmaker) enqueue(id domain.ParticipantID) {
	p, ok := m.participants[id]
	if !ok {
		return
	}
	p.Status = domain.StatusWaiting
	m.queue.Push(id)
}

func (m *Matchmaker) broadcastCount() {
	ev := domain.OnlineUsersCount{Count: m.online}
	for id := range m.participants {
		m.notify.Notify(id, ev)
	}
}
