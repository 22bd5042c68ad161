// Package middleware provides the gin middleware of the UI server.
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roguepikachu/pasteshare/pkg/logger"
)

// RequestLogger logs one line per request. Requests to quietPaths (probes,
// metrics scrapes) are logged at debug level unless they fail.
func RequestLogger(quietPaths ...string) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := map[string]any{
			"method":     c.Request.Method,
			"path":       path,
			"route":      c.FullPath(),
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"bytes":      max(c.Writer.Size(), 0),
			"ip":         c.ClientIP(),
			"ua":         c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = strings.Join(c.Errors.Errors(), "; ")
		}

		entry := logger.With(c.Request.Context(), fields)
		_, isQuiet := quiet[path]
		entry.Log(level(status, isQuiet), "request completed")
	}
}

func level(status int, quiet bool) logrus.Level {
	switch {
	case status >= 500:
		return logrus.ErrorLevel
	case status >= 400 && status != 401 && status != 404:
		return logrus.WarnLevel
	case quiet:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}
