package signal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkeye/Roulette/internal/domain"
	"github.com/dkeye/Roulette/internal/metrics"
)

type relayPayload struct {
	To     domain.ParticipantID `json:"to"`
	Signal json.RawMessage      `json:"signal"`
}

// handleRelay forwards the signal untouched; offers, answers and ICE
// candidates all travel this way.
func (ctl *SignalWSController) handleRelay(ctx context.Context, from domain.ParticipantID, conn *WsSignalConn, payload json.RawMessage) error {
	var p relayPayload
	if len(payload) == 0 {
		ctl.Metrics.Inc(metrics.BadFrames)
		ctl.sendError(conn, "bad_payload", "signal needs a payload")
		return fmt.Errorf("signal from %s: empty payload", from)
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		ctl.Metrics.Inc(metrics.BadFrames)
		ctl.sendError(conn, "bad_payload", "signal payload is malformed")
		return fmt.Errorf("decode signal payload: %w", err)
	}
	if p.To == "" || len(p.To) > domain.MaxParticipantIDLen {
		ctl.Metrics.Inc(metrics.BadFrames)
		ctl.sendError(conn, "bad_payload", "signal needs a target id")
		return fmt.Errorf("signal from %s: bad target", from)
	}
	return ctl.Orch.OnSignal(ctx, from, p.To, p.Signal)
}
