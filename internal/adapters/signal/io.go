package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Roulette/internal/app/orch"
	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/dkeye/Roulette/internal/metrics"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var ErrUnknownEvent = errors.New("unknown event")

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Cfg.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.Cfg.WriteWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		}
	}
}

// readPump owns the participant's lifetime: when it returns the participant
// is disconnected from the matchmaker.
func (ctl *SignalWSController) readPump(ctx context.Context, id domain.ParticipantID, c *WsSignalConn, stop func()) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(id)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(id)
		stop()
	}()

	pongWait := ctl.Cfg.PongWait
	c.conn.SetReadLimit(ctl.Cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var limiter *rate.Limiter
	if ctl.Cfg.SignalRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(ctl.Cfg.SignalRate), ctl.Cfg.SignalBurst)
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(id)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if limiter != nil && !limiter.Allow() {
			ctl.Metrics.Inc(metrics.RateLimited)
			ctl.sendError(c, "rate_limited", "too many messages")
			continue
		}

		if err := ctl.handleSignal(ctx, id, c, data); err != nil {
			if errors.Is(err, orch.ErrStopped) || errors.Is(err, context.Canceled) {
				return
			}
			log.Warn().Err(err).Str("module", "signal").Str("sid", string(id)).Msg("frame rejected")
		}
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, id domain.ParticipantID, c *WsSignalConn, data []byte) error {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		ctl.Metrics.Inc(metrics.BadFrames)
		ctl.sendError(c, "bad_json", "frame is not a JSON envelope")
		return fmt.Errorf("decode envelope: %w", err)
	}

	var err error
	switch env.Type {
	case "signal":
		err = ctl.handleRelay(ctx, id, c, env.Payload)
	case "request_count", "request_online_count":
		err = ctl.handleRequestCount(ctx, id)
	case "skip":
		err = ctl.handleSkip(ctx, id)
	case "find_partner":
		err = ctl.handleFindPartner(ctx, id)
	case "whoami":
		ctl.handleWhoAmI(id, c)
	case "ping":
		ctl.handlePing(c)
	default:
		ctl.Metrics.Inc(metrics.BadFrames)
		ctl.sendError(c, "unknown_type", "unknown message type")
		return fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
	ctl.Metrics.Inc(metrics.EventIn(env.Type))
	return err
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, typ string, v any) {
	frame, err := core.Encode(typ, v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("type", typ).Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("type", typ).Msg("sendJSON dropped")
		return
	}
	ctl.Metrics.Inc(metrics.EventOut(typ))
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, code, message string) {
	ctl.sendJSON(c, "error", errorPayload{Code: code, Message: message})
}
