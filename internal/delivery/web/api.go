package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/session"
)

const (
	sessionCookie = "duas_session"
	sessionKey    = "session"
	sessionMaxAge = 365 * 24 * 60 * 60
	ownerPrefix   = "web:"
)

// Error is an API error rendered as {"error": message}.
type Error struct {
	Code    int
	Message string
}

// HandlerFunc is a JSON endpoint.
type HandlerFunc func(c *gin.Context) (any, *Error)

// SessionHandlerFunc is a JSON endpoint bound to the caller's session.
type SessionHandlerFunc func(c *gin.Context, sess *session.Session) (any, *Error)

func resolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, apiErr := h(c)
		if apiErr != nil {
			c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func resolveSessionEndpoint(h SessionHandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		result, apiErr := h(c, sess)
		if apiErr != nil {
			c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// sessionMiddleware attaches the session named by the duas_session cookie,
// issuing a new id when the cookie is absent or malformed.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
		}

		c.Set(sessionKey, s.sessions.Get(c.Request.Context(), ownerPrefix+id))
		c.Next()
	}
}

func currentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}

// requestLogger logs every request with zap.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
