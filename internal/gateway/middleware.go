package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"floragate/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionAuthMiddleware decodes the session cookie and injects the session
// into the request context. Requests without a decodable session are
// rejected with 401 before any backend call is made.
func SessionAuthMiddleware(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(session.CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "unauthorized",
			})
			return
		}

		sess, err := codec.Decode(value)
		if err != nil {
			slog.Warn("Invalid session",
				"error", err.Error(),
				"request_id", c.GetString("request_id"),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "unauthorized",
			})
			return
		}

		// Make the identity available to handlers and the access log.
		c.Set(session.ContextKey, sess)
		c.Set("subject_id", sess.SubjectID)
		c.Set("role", sess.Role)

		c.Next()
	}
}

// RequestIDMiddleware generates a unique request ID for log correlation
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()

		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

// LoggingMiddleware logs all requests passing through the gateway with
// structured attributes, levelled by response status class.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", float64(latency.Milliseconds()),
			"client_ip", c.ClientIP(),
			"response_size", c.Writer.Size(),
		}

		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, "query", query)
		}
		if subjectID, exists := c.Get("subject_id"); exists {
			attrs = append(attrs, "subject_id", subjectID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.Error("Request failed - server error", attrs...)
		case status >= 400:
			slog.Warn("Request failed - client error", attrs...)
		default:
			slog.Info("Request completed", attrs...)
		}
	}
}
