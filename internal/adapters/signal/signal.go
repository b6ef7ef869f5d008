package signal

import (
	"context"
	"net/http"
	"sync"

	"github.com/dkeye/Roulette/internal/app/orch"
	"github.com/dkeye/Roulette/internal/config"
	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
	"github.com/dkeye/Roulette/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type SignalWSController struct {
	Orch     *orch.Orchestrator
	Cfg      *config.Config
	Metrics  *metrics.Metrics
	Connects *ConnectRateLimiter

	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config, m *metrics.Metrics) *SignalWSController {
	ctl := &SignalWSController{
		Orch:     o,
		Cfg:      cfg,
		Metrics:  m,
		Connects: NewConnectRateLimiter(cfg.ConnectLimit, cfg.ConnectInterval),
	}
	ctl.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return cfg.OriginAllowed(r.Header.Get("Origin"))
		},
	}
	return ctl
}

// WsSignalConn is the core.SignalConnection of one WebSocket. Frames are
// queued on send and written by writePump.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnectionClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

type sessionPayload struct {
	ID         domain.ParticipantID `json:"id"`
	ICEServers any                  `json:"iceServers"`
}

// HandleSignal upgrades the request and registers a fresh participant.
// ctx bounds the lifetime of the connection's pumps.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")
	if !ctl.Connects.Allow(token) {
		ctl.Metrics.Inc(metrics.ConnectsRejected)
		log.Warn().Str("module", "signal").Str("client", token).Msg("connect rate exceeded")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many connections"})
		return
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		ctl.Metrics.Inc(metrics.ConnectsRejected)
		log.Error().Err(err).Str("module", "signal").Str("origin", c.GetHeader("Origin")).Msg("ws upgrade")
		return
	}

	id := domain.NewParticipantID()
	log.Info().Str("module", "signal").Str("sid", string(id)).Str("client", token).Msg("new WS connection")

	conn := newWsSignalConn(ws, ctl.Cfg.SendBuffer)
	ctx, cancel := context.WithCancel(ctx)
	stop := func() {
		cancel()
		conn.Close()
	}

	go ctl.writePump(ctx, conn)

	ctl.sendJSON(conn, "session", sessionPayload{ID: id, ICEServers: ctl.Cfg.WebRTCICEServers()})
	if err := ctl.Orch.OnConnect(id, conn, stop); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(id)).Msg("connect rejected")
		stop()
		return
	}

	go ctl.readPump(ctx, id, conn, stop)
}
