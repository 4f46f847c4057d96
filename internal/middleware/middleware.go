package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/tutorkeys/internal/dto"
	"github.com/rs/zerolog/log"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	// AdminSessionKey marks an authenticated admin in the cookie session.
	AdminSessionKey = "admin_logged_in"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger writes one zerolog line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", c.GetString(requestIDKey)).
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("user_agent", c.Request.UserAgent()).
			Str("error_message", c.Errors.ByType(gin.ErrorTypePrivate).String()).
			Msg("gin_request")
	}
}

// IsAdmin reports whether the request carries an authenticated admin session.
func IsAdmin(c *gin.Context) bool {
	loggedIn, _ := sessions.Default(c).Get(AdminSessionKey).(bool)
	return loggedIn
}

// RequireAdmin lets authenticated admins through. API calls get a 401,
// page requests are redirected to the login form.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) {
			c.Next()
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Admin login required"})
			return
		}
		c.Redirect(http.StatusFound, "/admin/login")
		c.Abort()
	}
}
