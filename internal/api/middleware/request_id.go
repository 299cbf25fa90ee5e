package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = response.RequestIDKey
	requestIDMaxLen = 64
)

// RequestID tags each request with an id for logs and the response envelope.
// A client-supplied X-Request-ID is kept when it is a short token of
// letters, digits, '-', '_' or '.'; anything else is replaced by a uuid.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)

		c.Next()
	}
}

func validRequestID(s string) bool {
	if s == "" || len(s) > requestIDMaxLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
