package api

import (
	"net/http"
	"strings"
	"time"

	"olif/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// requireSession resolves the bearer token to a live session. Browsers
// cannot set headers on websocket upgrades, so ?token= is accepted too.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" || token == c.GetHeader("Authorization") {
			token = c.Query("token")
		}
		if token == "" {
			fail(c, http.StatusUnauthorized, "missing or invalid token")
			return
		}

		id, err := s.opts.Sessions.ParseToken(token)
		if err != nil {
			fail(c, http.StatusUnauthorized, "invalid token")
			return
		}
		sess, found := s.opts.Sessions.Get(id)
		if !found {
			fail(c, http.StatusUnauthorized, "session expired")
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// requestLogger logs each request through zap
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugw("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
