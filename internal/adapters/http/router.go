package http

import (
	"context"
	"path/filepath"

	"github.com/dkeye/PhoneCall/internal/adapters/signal"
	"github.com/dkeye/PhoneCall/internal/app"
	"github.com/dkeye/PhoneCall/internal/config"
	"github.com/dkeye/PhoneCall/internal/middleware"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())

	store := middleware.NewCookieStore(cfg.Secret, int(cfg.SessionTTL.Seconds()))
	r.Use(sessions.Sessions(middleware.SessionCookie, store))
	r.Use(middleware.SessionID())

	httpLimiter := middleware.NewKeyedLimiter(rate.Limit(cfg.RateLimit.HTTP), cfg.RateLimit.HTTPBurst)
	signalLimiter := middleware.NewKeyedLimiter(rate.Limit(cfg.RateLimit.Signal), cfg.RateLimit.SignalBurst)
	go httpLimiter.Run(ctx, cfg.SweepInterval)
	go signalLimiter.Run(ctx, cfg.SweepInterval)
	h := &handlers{orch: orch}
	limited := middleware.RateLimit(httpLimiter)
	formLimited := middleware.RateLimitFunc(httpLimiter, h.throttled)

	r.Static("/static", filepath.Join(cfg.StaticPath, "static"))
	r.GET("/", h.index)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	forms := r.Group("/", formLimited)
	forms.POST("/auth", h.intent(h.authenticate))
	forms.POST("/nav/:page", h.intent(h.navigate))
	forms.POST("/profile/edit", h.intent(h.startEdit))
	forms.POST("/profile/cancel", h.intent(h.cancelEdit))
	forms.POST("/profile", h.intent(h.updateProfile))
	forms.POST("/groups", h.intent(h.createGroup))
	forms.POST("/groups/join/open", h.intent(h.openJoin))
	forms.POST("/groups/join/close", h.intent(h.closeJoin))
	forms.POST("/groups/join", h.intent(h.joinGroup))
	forms.POST("/groups/leave", h.intent(h.leaveGroup))
	forms.POST("/groups/copy", h.intent(h.copyCode))
	forms.POST("/groups/mic", h.intent(h.toggleMic))
	forms.POST("/groups/camera", h.intent(h.toggleCamera))
	forms.POST("/groups/chat/toggle", h.intent(h.toggleChat))
	forms.POST("/groups/chat", h.intent(h.sendChat))

	api := r.Group("/api", limited)
	api.GET("/state", h.apiState)
	api.GET("/groups/:code", h.apiGetGroup)
	api.POST("/groups", h.apiCreateGroup)
	api.POST("/groups/join", h.apiJoinGroup)

	ctrl := signal.NewSignalWSController(orch, signalLimiter, cfg.ReadLimit, cfg.PingPeriod)
	r.GET("/api/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("sid", string(middleware.SID(c))).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	return r
}
