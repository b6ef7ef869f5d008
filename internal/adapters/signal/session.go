package signal

import (
	"context"

	"github.com/dkeye/Roulette/internal/domain"
)

func (ctl *SignalWSController) handleWhoAmI(id domain.ParticipantID, conn *WsSignalConn) {
	resp := struct {
		ID domain.ParticipantID `json:"id"`
	}{
		ID: id,
	}
	ctl.sendJSON(conn, "whoami", resp)
}

// handleRequestCount is answered by the matchmaker with a unicast
// online_users_count event.
func (ctl *SignalWSController) handleRequestCount(ctx context.Context, id domain.ParticipantID) error {
	return ctl.Orch.OnRequestCount(ctx, id)
}
