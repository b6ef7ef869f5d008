package signal

import (
	"context"

	"github.com/dkeye/Roulette/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleSkip leaves the current pairing. The partner is re-queued by the
// matchmaker; the caller stays idle until it sends find_partner.
func (ctl *SignalWSController) handleSkip(ctx context.Context, id domain.ParticipantID) error {
	log.Info().Str("module", "signal").Str("sid", string(id)).Msg("skip")
	return ctl.Orch.OnSkip(ctx, id)
}

func (ctl *SignalWSController) handleFindPartner(ctx context.Context, id domain.ParticipantID) error {
	log.Info().Str("module", "signal").Str("sid", string(id)).Msg("find partner")
	return ctl.Orch.OnRequeue(ctx, id)
}
