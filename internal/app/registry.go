package app

import (
	"context"
	"errors"
	"sync"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Conn   core.SignalConnection
	Cancel context.CancelFunc
}

// Registry maps participant ids to their live transport endpoint and
// delivers matchmaker events to them.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ParticipantID]*sessionEntry
	policy   Policy
}

var _ core.Notifier = (*Registry)(nil)

func NewRegistry(policy Policy) *Registry {
	if policy == nil {
		policy = SimplePolicy{}
	}
	return &Registry{
		sessions: make(map[domain.ParticipantID]*sessionEntry),
		policy:   policy,
	}
}

func (r *Registry) Bind(id domain.ParticipantID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &sessionEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("bound session")
}

func (r *Registry) Unbind(id domain.ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return
	}
	delete(r.sessions, id)
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("unbind session")
}

func (r *Registry) Get(id domain.ParticipantID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cancel tears the session down; the transport reports the disconnect later.
func (r *Registry) Cancel(id domain.ParticipantID) bool {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("canceled session")
	return true
}

// Notify never blocks: a full outbound queue is handed to the policy.
func (r *Registry) Notify(id domain.ParticipantID, ev domain.Event) {
	conn, ok := r.Get(id)
	if !ok {
		return
	}
	frame, err := core.EncodeEvent(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.registry").Str("event", ev.Name()).Msg("encode event")
		return
	}
	err = conn.TrySend(frame)
	if err == nil {
		return
	}
	if errors.Is(err, core.ErrConnectionClosed) {
		return
	}

	action := r.policy.OnBackPressure(id, ev)
	log.Warn().Err(err).Str("module", "app.registry").Str("sid", string(id)).
		Str("event", ev.Name()).Stringer("action", action).Msg("notify failed")
	if action == KickMember {
		r.Cancel(id)
	}
}
