package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Roulette/internal/app"
	"github.com/dkeye/Roulette/internal/app/orch"
	"github.com/dkeye/Roulette/internal/config"
	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*gin.Engine, *orch.Orchestrator) {
	t.Helper()

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>roulette</h1>"), 0o600))

	cfg := &config.Config{
		Mode:           "test",
		Secret:         "test-secret",
		StaticPath:     static,
		ReadLimit:      1 << 16,
		PingPeriod:     time.Second,
		PongWait:       5 * time.Second,
		WriteWait:      time.Second,
		SendBuffer:     16,
		MailboxSize:    16,
		AllowedOrigins: []string{"*"},
		ICEServers: []config.ICEServer{
			{URLs: []string{"turn:turn.example.com:3478"}, Username: "u", Credential: "p"},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := metrics.New()
	o := orch.New(app.NewRegistry(nil), m, cfg.MailboxSize)
	go o.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-o.Done()
	})

	return SetupRouter(ctx, cfg, o, m), o
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Healthz(t *testing.T) {
	r, _ := setup(t)

	w := get(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_SetsClientTokenCookie(t *testing.T) {
	r, _ := setup(t)

	w := get(r, "/healthz")
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "RouletteSessions", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestRouter_Stats(t *testing.T) {
	r, _ := setup(t)

	w := get(r, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats core.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, core.Stats{}, stats)
}

func TestRouter_ICEServers(t *testing.T) {
	r, _ := setup(t)

	w := get(r, "/api/ice-servers")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		ICEServers []struct {
			URLs       []string `json:"urls"`
			Username   string   `json:"username"`
			Credential string   `json:"credential"`
		} `json:"iceServers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.ICEServers, 1)
	assert.Equal(t, []string{"turn:turn.example.com:3478"}, body.ICEServers[0].URLs)
	assert.Equal(t, "u", body.ICEServers[0].Username)
	assert.Equal(t, "p", body.ICEServers[0].Credential)
}

func TestRouter_Metrics(t *testing.T) {
	r, _ := setup(t)

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `roulette_participants{state="online"} 0`)
}

func TestRouter_Index(t *testing.T) {
	r, _ := setup(t)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "roulette")
}

func TestRouter_WebSocketThroughStack(t *testing.T) {
	r, o := setup(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)

	var env core.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, "session", env.Type)

	assert.Eventually(t, func() bool {
		s, err := o.Stats(context.Background())
		return err == nil && s.Online == 1
	}, 3*time.Second, 20*time.Millisecond)
}
