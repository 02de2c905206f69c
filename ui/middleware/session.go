package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agroprod/domain/core"
)

const (
	// SessionCookie carries the browser session ID.
	SessionCookie = "agroprod_session"

	sessionKey = "session_id"
)

// EnsureSession makes sure every request belongs to a session, issuing a new
// session cookie when the client has none or sends a malformed one.
func EnsureSession(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		var id core.SessionID
		if raw, err := c.Cookie(SessionCookie); err == nil {
			id, err = core.ParseSessionID(raw)
			if err != nil {
				logger.Debug("discarding session cookie", zap.Error(err))
			}
		}

		if id == "" {
			id = core.NewSessionID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id.String(), 0, "/", "", false, true)
			logger.Debug("session created", zap.String("session_id", id.String()))
		}

		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the session of the current request. It is empty when
// EnsureSession did not run.
func SessionID(c *gin.Context) core.SessionID {
	v, ok := c.Get(sessionKey)
	if !ok {
		return ""
	}
	id, _ := v.(core.SessionID)
	return id
}
