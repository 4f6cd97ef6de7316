package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/PhoneCall/internal/app"
	"github.com/dkeye/PhoneCall/internal/config"
	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/domain"
	"github.com/dkeye/PhoneCall/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Mode:          "test",
		StaticPath:    "../../../web",
		Secret:        "test-secret",
		SessionTTL:    time.Hour,
		SweepInterval: time.Minute,
		ReadLimit:     4096,
		PingPeriod:    time.Minute,
		RateLimit: config.RateLimit{
			HTTP: 1000, HTTPBurst: 1000,
			Signal: 1000, SignalBurst: 1000,
		},
	}
}

// browser replays the session cookie like a real one would.
type browser struct {
	r       *gin.Engine
	cookies []*http.Cookie
}

func newBrowser(t *testing.T, cfg *config.Config) (*browser, *app.Orchestrator) {
	t.Helper()
	orch := app.NewOrchestrator(app.NewRegistry(), core.NewGroupRegistry())
	return &browser{r: SetupRouter(t.Context(), cfg, orch)}, orch
}

func (b *browser) sibling() *browser {
	return &browser{r: b.r}
}

func (b *browser) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.r.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		b.cookies = cs
	}
	return w
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil, "")
}

func (b *browser) state(t *testing.T) app.Snapshot {
	t.Helper()
	w := b.get("/api/state")
	require.Equal(t, http.StatusOK, w.Code)
	var snap app.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func (b *browser) signIn(t *testing.T, name string) {
	t.Helper()
	w := b.post("/auth", url.Values{"name": {name}, "phone": {"+1 555"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, domain.PageHome, b.state(t).Page)
}

func TestIndex_RendersAuthAndSetsCookie(t *testing.T) {
	b, _ := newBrowser(t, testConfig())

	w := b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `action="/auth"`)
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))

	require.Len(t, b.cookies, 1)
	assert.Equal(t, middleware.SessionCookie, b.cookies[0].Name)
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		wantPage domain.Page
		wantUser bool
	}{
		{"ok", url.Values{"name": {"Alice"}, "phone": {"+1 555"}}, domain.PageHome, true},
		{"missing name", url.Values{"name": {"  "}, "phone": {"+1 555"}}, domain.PageAuth, false},
		{"missing phone", url.Values{"name": {"Alice"}}, domain.PageAuth, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newBrowser(t, testConfig())

			w := b.post("/auth", tt.form)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/", w.Header().Get("Location"))

			snap := b.state(t)
			assert.Equal(t, tt.wantPage, snap.Page)
			assert.Equal(t, tt.wantUser, snap.User != nil)
			require.Len(t, snap.Toasts, 1)
		})
	}
}

func TestToastsDrainOnRender(t *testing.T) {
	b, _ := newBrowser(t, testConfig())
	b.post("/auth", url.Values{"name": {"Alice"}, "phone": {"+1 555"}})

	first := b.get("/")
	assert.Contains(t, first.Body.String(), "You are signed in!")
	second := b.get("/")
	assert.NotContains(t, second.Body.String(), "You are signed in!")
}

func TestProfileFlow(t *testing.T) {
	b, _ := newBrowser(t, testConfig())
	b.signIn(t, "Alice")

	b.post("/nav/profile", nil)
	b.post("/profile/edit", nil)
	snap := b.state(t)
	require.True(t, snap.EditingProfile)
	assert.Equal(t, "Alice", snap.Form.Name)
	oldAvatar := snap.User.AvatarURL

	b.post("/profile", url.Values{"name": {"Alicia"}, "phone": {"+1 777"}})
	snap = b.state(t)
	assert.False(t, snap.EditingProfile)
	assert.Equal(t, "Alicia", snap.User.Name)
	assert.Equal(t, oldAvatar, snap.User.AvatarURL)

	b.post("/nav/home", nil)
	assert.Equal(t, domain.PageHome, b.state(t).Page)

	b.post("/nav/group", nil)
	assert.Equal(t, domain.PageHome, b.state(t).Page)
}

func TestGroupFlow(t *testing.T) {
	cfg := testConfig()
	alice, orch := newBrowser(t, cfg)
	bob := alice.sibling()
	alice.signIn(t, "Alice")
	bob.signIn(t, "Bob")

	alice.post("/groups", nil)
	snap := alice.state(t)
	require.Equal(t, domain.PageGroup, snap.Page)
	require.NotNil(t, snap.Group)
	code := snap.Group.Code
	require.Len(t, snap.Group.Members, 1)

	bob.post("/groups/join/open", nil)
	assert.True(t, bob.state(t).JoinDialogOpen)
	bob.post("/groups/join", url.Values{"code": {strings.ToLower(string(code))}})
	snap = bob.state(t)
	require.Equal(t, domain.PageGroup, snap.Page)
	assert.False(t, snap.JoinDialogOpen)
	assert.Len(t, snap.Group.Members, 2)

	bob.post("/groups/mic", url.Values{"permission": {"granted"}})
	bob.post("/groups/camera", url.Values{"permission": {"denied"}})
	snap = bob.state(t)
	assert.True(t, snap.MicOn)
	assert.False(t, snap.CameraOn)
	g, ok := orch.Groups.Get(code)
	require.True(t, ok)
	assert.True(t, g.Members[1].MicOn)

	bob.post("/groups/chat/toggle", nil)
	bob.post("/groups/chat", url.Values{"text": {"hello"}})
	snap = bob.state(t)
	assert.True(t, snap.ChatOpen)
	require.Len(t, snap.Chat, 1)
	assert.Equal(t, "Bob", snap.Chat[0].Author)

	bob.post("/groups/copy", url.Values{"clipboard": {"unavailable"}})
	toasts := bob.state(t).Toasts
	require.Len(t, toasts, 1)
	assert.Equal(t, domain.VariantDestructive, toasts[0].Variant)

	bob.post("/groups/leave", nil)
	snap = bob.state(t)
	assert.Equal(t, domain.PageHome, snap.Page)
	assert.Empty(t, snap.Chat)
	assert.False(t, snap.MicOn)

	g, ok = orch.Groups.Get(code)
	require.True(t, ok)
	assert.Len(t, g.Members, 2)
}

func TestAPI_Groups(t *testing.T) {
	b, _ := newBrowser(t, testConfig())

	w := b.do(http.MethodPost, "/api/groups", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	b.signIn(t, "Alice")
	w = b.do(http.MethodPost, "/api/groups", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var g domain.Group
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Len(t, g.Members, 1)

	w = b.get("/api/groups/" + strings.ToLower(string(g.Code)))
	require.Equal(t, http.StatusOK, w.Code)

	w = b.get("/api/groups/ZZZZZZ")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"group-not-found"}`, w.Body.String())

	w = b.get("/api/groups")
	assert.NotEqual(t, http.StatusOK, w.Code, "codes are never listed")
}

func TestAPI_JoinFull(t *testing.T) {
	owner, _ := newBrowser(t, testConfig())
	owner.signIn(t, "Owner")
	w := owner.do(http.MethodPost, "/api/groups", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var g domain.Group
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))

	body := `{"code":"` + string(g.Code) + `"}`
	for i := 0; i < domain.DefaultGroupCapacity-1; i++ {
		m := owner.sibling()
		m.signIn(t, "Member")
		w = m.do(http.MethodPost, "/api/groups/join", strings.NewReader(body), "application/json")
		require.Equal(t, http.StatusOK, w.Code)
	}

	late := owner.sibling()
	late.signIn(t, "Late")
	w = late.do(http.MethodPost, "/api/groups/join", strings.NewReader(body), "application/json")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"group-full"}`, w.Body.String())

	w = late.do(http.MethodPost, "/api/groups/join", strings.NewReader(`{"code":"ZZZZZZ"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.HTTP = 0.001
	cfg.RateLimit.HTTPBurst = 3
	b, _ := newBrowser(t, cfg)
	b.get("/")

	b.signIn(t, "Alice")
	b.post("/groups/join/open", nil)

	w := b.post("/groups/join/close", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	page := b.get("/").Body.String()
	assert.Contains(t, page, "<dialog", "throttled intent is not applied")
	assert.Contains(t, page, "Slow down")
	assert.Contains(t, page, `data-variant="destructive"`)
}

func TestRateLimit_APIAnswers429(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.HTTP = 0.001
	cfg.RateLimit.HTTPBurst = 1
	b, _ := newBrowser(t, cfg)
	b.get("/")

	assert.Equal(t, http.StatusOK, b.get("/api/state").Code)
	assert.Equal(t, http.StatusTooManyRequests, b.get("/api/state").Code)
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errorStatus(domain.ErrMissingField))
	assert.Equal(t, http.StatusUnauthorized, errorStatus(domain.ErrUnauthenticated))
	assert.Equal(t, http.StatusConflict, errorStatus(domain.ErrInvalidState))
	assert.Equal(t, http.StatusInternalServerError, errorStatus(io.EOF))
}
