package orch

import (
	"context"
	"encoding/json"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/dkeye/Roulette/internal/metrics"
	"github.com/rs/zerolog/log"
)

// OnConnect binds the transport endpoint first so the participant can
// receive its own pairing notification.
func (o *Orchestrator) OnConnect(id domain.ParticipantID, conn core.SignalConnection, cancel context.CancelFunc) error {
	o.Registry.Bind(id, conn, cancel)
	if err := o.submit(context.Background(), func() { o.Matchmaker.Connect(id) }); err != nil {
		o.Registry.Unbind(id)
		return err
	}
	o.Metrics.Inc(metrics.Connects)
	log.Info().Str("module", "orch").Str("sid", string(id)).Msg("participant connected")
	return nil
}

func (o *Orchestrator) OnDisconnect(id domain.ParticipantID) {
	o.Metrics.Inc(metrics.Disconnects)
	err := o.submit(context.Background(), func() {
		o.Matchmaker.Disconnect(id)
		o.Registry.Unbind(id)
	})
	if err != nil {
		o.Registry.Unbind(id)
	}
	log.Info().Str("module", "orch").Str("sid", string(id)).Msg("participant disconnected")
}

func (o *Orchestrator) OnSignal(ctx context.Context, from, to domain.ParticipantID, payload json.RawMessage) error {
	return o.submit(ctx, func() { o.Matchmaker.RelaySignal(from, to, payload) })
}

func (o *Orchestrator) OnRequestCount(ctx context.Context, id domain.ParticipantID) error {
	return o.submit(ctx, func() { o.Matchmaker.RequestCount(id) })
}

func (o *Orchestrator) OnSkip(ctx context.Context, id domain.ParticipantID) error {
	log.Info().Str("module", "orch").Str("sid", string(id)).Msg("skip")
	return o.submit(ctx, func() { o.Matchmaker.Skip(id) })
}

func (o *Orchestrator) OnRequeue(ctx context.Context, id domain.ParticipantID) error {
	return o.submit(ctx, func() { o.Matchmaker.Requeue(id) })
}
