package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// Context keys set by middleware.JWTAuth.
const (
	ctxUserID   = "user_id"
	ctxRole     = "role"
	ctxTokenJTI = "token_jti"
	ctxTokenExp = "token_exp"
)

// MustGetUserID extracts user_id from the gin context. When the JWT
// middleware did not run it writes a 401 and returns false; the caller
// should return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxUserID)
}

// MustGetRole extracts the caller's role.
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxRole)
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, codeUnauthenticated, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, codeUnauthenticated, "not authenticated")
		return "", false
	}
	return s, true
}

// tokenInfo returns the jti and expiry of the presented access token.
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString(ctxTokenJTI)
	exp, _ := c.Get(ctxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}
