package middleware

import (
	"net/http"

	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	SessionCookie = "PhoneCallSession"

	sidKey    = "sid"
	ctxSIDKey = "session_id"
)

// NewCookieStore builds the signed cookie store holding the session id.
func NewCookieStore(secret string, maxAge int) sessions.Store {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

func genSessionID() string {
	return uuid.NewString()
}

// SessionID makes sure the browser carries a session id and exposes it on the context.
// Must run after sessions.Sessions.
func SessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		sid, _ := sess.Get(sidKey).(string)
		if sid == "" {
			sid = genSessionID()
			sess.Set(sidKey, sid)
			if err := sess.Save(); err != nil {
				log.Error().Err(err).Str("module", "middleware.session").Msg("save session cookie")
			}
		}
		c.Set(ctxSIDKey, sid)
		c.Next()
	}
}

// SID returns the session id set by SessionID.
func SID(c *gin.Context) core.SessionID {
	return core.SessionID(c.GetString(ctxSIDKey))
}
