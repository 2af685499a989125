package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zillusion/capsule/logger"
)

var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// SlowRequest marks requests slower than this in the log.
const SlowRequest = 500 * time.Millisecond

// RequestLogger logs every request at a level derived from its status.
// Health and metrics probes are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.FullPath(),
			"client", c.ClientIP(),
			logger.FieldStatus, status,
			logger.FieldDuration, latency.Milliseconds(),
		)
		if latency > SlowRequest {
			fields["slow"] = true
		}
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}

		l := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("request completed", fields)
		case status >= 400:
			l.Warn("request completed", fields)
		default:
			l.Debug("request completed", fields)
		}
	}
}
