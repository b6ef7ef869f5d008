package orch

import (
	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/dkeye/Roulette/internal/metrics"
	"github.com/rs/zerolog/log"
)

// observedNotifier logs and counts what the matchmaker emits, keeping
// both out of the state machine.
type observedNotifier struct {
	next    core.Notifier
	metrics *metrics.Metrics
}

func (n observedNotifier) Notify(id domain.ParticipantID, ev domain.Event) {
	n.metrics.Inc(metrics.EventOut(ev.Name()))
	log.Debug().Str("module", "orch").Str("sid", string(id)).Str("event", ev.Name()).Msg("notify")
	n.next.Notify(id, ev)
}
