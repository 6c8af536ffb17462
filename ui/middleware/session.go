package middleware

import (
	"context"
	"net/http"

	"cutoffrank/app"
	"cutoffrank/internal"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the browser's session ID
const SessionCookie = "cutoff_session"

const sessionKey = "session"

// SessionProvider resolves a cookie value to a live session
type SessionProvider interface {
	EnsureSession(ctx context.Context, rawID string) (app.SessionView, error)
}

// EnsureSession is middleware that binds every request to a session, creating
// one and setting the cookie when the browser has none or an expired one
func EnsureSession(provider SessionProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(SessionCookie)

		view, err := provider.EnsureSession(c.Request.Context(), raw)
		if err != nil {
			internal.DefaultLogger.Error("[EnsureSession] Failed to create session: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		if view.ID.String() != raw {
			internal.DefaultLogger.Debug("[EnsureSession] Issued session %s", view.ID)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, view.ID.String(), 0, "/", "", false, true)
		}

		c.Set(sessionKey, view)
		c.Next()
	}
}

// Session returns the session bound by EnsureSession
func Session(c *gin.Context) (app.SessionView, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return app.SessionView{}, false
	}
	view, ok := v.(app.SessionView)
	return view, ok
}
