package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/jwt"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

const (
	codeUnauthenticated = 10002
	codeForbidden       = 10003
	codeRateLimited     = 10004
	codeBodyTooLarge    = 10005
)

// BlacklistChecker reports revoked token ids. Satisfied by *redis.Client.
type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth validates the Bearer access token and injects the caller into the context.
// A nil blacklist disables revocation checks; a blacklist lookup error lets the request through.
func JWTAuth(jwtMgr *jwt.Manager, blacklist BlacklistChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, codeUnauthenticated, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, codeUnauthenticated, "malformed authorization header")
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, codeUnauthenticated, "token invalid or expired")
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Abort(c, http.StatusUnauthorized, codeUnauthenticated, "token has been revoked")
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("token_jti", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_exp", claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleAuth allows only the listed roles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Abort(c, http.StatusUnauthorized, codeUnauthenticated, "not authenticated")
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Abort(c, http.StatusForbidden, codeForbidden, "access denied")
	}
}
