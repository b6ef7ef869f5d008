package app

import (
	"container/list"

	"github.com/dkeye/Roulette/internal/domain"
)

// WaitingQueue is a FIFO of participants awaiting a partner.
// An id is present at most once; removal from the middle is O(1).
type WaitingQueue struct {
	order *list.List
	index map[domain.ParticipantID]*list.Element
}

func NewWaitingQueue() *WaitingQueue {
	return &WaitingQueue{
		order: list.New(),
		index: make(map[domain.ParticipantID]*list.Element),
	}
}

func (q *WaitingQueue) Len() int { return q.order.Len() }

func (q *WaitingQueue) Contains(id domain.ParticipantID) bool {
	_, ok := q.index[id]
	return ok
}

// Push appends id to the tail. It reports false if id was already queued.
func (q *WaitingQueue) Push(id domain.ParticipantID) bool {
	if q.Contains(id) {
		return false
	}
	q.index[id] = q.order.PushBack(id)
	return true
}

func (q *WaitingQueue) Remove(id domain.ParticipantID) bool {
	el, ok := q.index[id]
	if !ok {
		return false
	}
	q.order.Remove(el)
	delete(q.index, id)
	return true
}

// PopFront removes and returns the oldest waiter.
func (q *WaitingQueue) PopFront() (domain.ParticipantID, bool) {
	el := q.order.Front()
	if el == nil {
		return "", false
	}
	id := el.Value.(domain.ParticipantID)
	q.order.Remove(el)
	delete(q.index, id)
	return id, true
}

// IDs returns the queue oldest first.
func (q *WaitingQueue) IDs() []domain.ParticipantID {
	out := make([]domain.ParticipantID, 0, q.order.Len())
	for el := q.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(domain.ParticipantID))
	}
	return out
}
