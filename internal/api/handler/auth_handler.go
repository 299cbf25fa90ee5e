package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// AuthHandler authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
	userSvc service.UserService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService, userSvc service.UserService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, userSvc: userSvc}
}

// Login exchanges credentials for an access token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "invalid username or password")
		case errors.Is(err, service.ErrUserDisabled):
			response.Forbidden(c, 11002, "account is disabled")
		default:
			handleCommonError(c, err)
		}
		return
	}

	response.OK(c, result)
}

// Logout revokes the presented access token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), dto.LogoutInput{JTI: jti, ExpiresAt: exp}); err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, nil)
}

// Me returns the caller's profile.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Me(c.Request.Context(), userID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, user)
}
