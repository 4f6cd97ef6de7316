package signal

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/PhoneCall/internal/app"
	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/middleware"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	orch   *app.Orchestrator
	srv    *httptest.Server
	sid    core.SessionID
	cookie string
}

func newHarness(t *testing.T, limiter *middleware.KeyedLimiter) *harness {
	t.Helper()
	orch := app.NewOrchestrator(app.NewRegistry(), core.NewGroupRegistry())
	ctl := NewSignalWSController(orch, limiter, 4096, time.Minute)

	r := gin.New()
	r.Use(sessions.Sessions(middleware.SessionCookie, middleware.NewCookieStore("test-secret", 3600)))
	r.Use(middleware.SessionID())
	r.GET("/sid", func(c *gin.Context) { c.String(http.StatusOK, string(middleware.SID(c))) })
	r.GET("/ws", func(c *gin.Context) { ctl.HandleSignal(t.Context(), c) })

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/sid")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c.Name + "=" + c.Value
		}
	}
	require.NotEmpty(t, cookie)

	return &harness{orch: orch, srv: srv, sid: core.SessionID(body), cookie: cookie}
}

// inGroup signs the session in and opens a call for it.
func (h *harness) inGroup(t *testing.T) {
	t.Helper()
	require.NoError(t, h.orch.Authenticate(h.sid, app.ProfileForm{Name: "Alice", Phone: "+1 555"}))
	_, err := h.orch.CreateGroup(h.sid)
	require.NoError(t, err)
	h.orch.State(h.sid, true)
}

func (h *harness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Cookie": {h.cookie}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame map[string]any
	require.NoError(t, ws.ReadJSON(&frame))
	return frame
}

func state(t *testing.T, frame map[string]any) map[string]any {
	t.Helper()
	require.Equal(t, "state", frame["type"])
	st, ok := frame["state"].(map[string]any)
	require.True(t, ok)
	return st
}

func TestSignal_PingWhoAmI(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.dial(t)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", readFrame(t, ws)["type"])

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "whoami"}))
	who := readFrame(t, ws)
	assert.Equal(t, "whoami", who["type"])
	assert.Equal(t, string(h.sid), who["sid"])
	assert.Equal(t, "auth", who["page"])
}

func TestSignal_ToggleMic(t *testing.T) {
	h := newHarness(t, nil)
	h.inGroup(t)
	ws := h.dial(t)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "toggle_mic", "permission": "denied"}))
	errFrame := readFrame(t, ws)
	assert.Equal(t, "error", errFrame["type"])
	assert.Equal(t, "permission-denied", errFrame["error"])
	assert.Equal(t, false, state(t, readFrame(t, ws))["mic_on"])

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "toggle_mic", "permission": "granted"}))
	st := state(t, readFrame(t, ws))
	assert.Equal(t, true, st["mic_on"])
	group := st["group"].(map[string]any)
	member := group["members"].([]any)[0].(map[string]any)
	assert.Equal(t, true, member["mic_on"])
}

func TestSignal_Chat(t *testing.T) {
	h := newHarness(t, nil)
	h.inGroup(t)
	ws := h.dial(t)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "chat", "text": "   "}))
	require.NoError(t, ws.WriteJSON(map[string]string{"type": "chat", "text": " hello "}))

	st := state(t, readFrame(t, ws))
	chat := st["chat"].([]any)
	require.Len(t, chat, 1)
	msg := chat[0].(map[string]any)
	assert.Equal(t, "hello", msg["text"])
	assert.Equal(t, "Alice", msg["author"])
}

func TestSignal_LeaveAndInvalidState(t *testing.T) {
	h := newHarness(t, nil)
	h.inGroup(t)
	ws := h.dial(t)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "leave"}))
	st := state(t, readFrame(t, ws))
	assert.Equal(t, "home", st["page"])

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "toggle_chat"}))
	errFrame := readFrame(t, ws)
	assert.Equal(t, "invalid-state", errFrame["error"])
}

func TestSignal_RateLimited(t *testing.T) {
	h := newHarness(t, middleware.NewKeyedLimiter(0.001, 1))
	ws := h.dial(t)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "whoami"}))
	assert.Equal(t, "whoami", readFrame(t, ws)["type"])

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "whoami"}))
	assert.Equal(t, "rate-limited", readFrame(t, ws)["error"])

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", readFrame(t, ws)["type"])
}

func TestSignal_RebindClosesOldSocket(t *testing.T) {
	h := newHarness(t, nil)
	first := h.dial(t)
	second := h.dial(t)

	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := first.ReadMessage()
	assert.Error(t, err)

	require.NoError(t, second.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", readFrame(t, second)["type"])
}

func TestWsSignalConn_Backpressure(t *testing.T) {
	c := &WsSignalConn{send: make(chan core.Frame, 1)}
	require.NoError(t, c.TrySend(core.Frame("a")))
	assert.ErrorIs(t, c.TrySend(core.Frame("b")), ErrBackpressure)
}
