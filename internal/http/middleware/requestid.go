package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roguepikachu/pasteshare/pkg/ctxutil"
)

const (
	headerRequestID = "X-Request-ID"
	headerClientID  = "X-Client-ID"

	maxIDLength = 128
)

// RequestIDMiddleware tags each request with a request and client id, taken
// from the incoming headers when usable and generated otherwise.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := incomingID(c.GetHeader(headerRequestID))
		clientID := incomingID(c.GetHeader(headerClientID))

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithClientID(ctx, clientID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerRequestID, requestID)
		c.Header(headerClientID, clientID)
		c.Next()
	}
}

// incomingID keeps a caller supplied id unless it is blank or oversized.
func incomingID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > maxIDLength {
		return uuid.NewString()
	}
	return v
}
