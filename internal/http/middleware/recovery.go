package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/pasteshare/pkg/logger"
)

const panicBody = "Something went wrong. Please try again."

// Recovery recovers from panics, logs them with the stack, and answers 500
// without leaking the panic value.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.With(c.Request.Context(), map[string]any{"panic": r, "stack": string(debug.Stack())}).Error("panic recovered")
				c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(panicBody))
				c.Abort()
			}
		}()
		c.Next()
	}
}
