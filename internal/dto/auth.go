package dto

import "time"

// ── Auth ──

// LoginRequest login body.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse issued access token.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	User        UserResponse `json:"user"`
}

// LogoutInput is what the transport knows about the presented token.
type LogoutInput struct {
	JTI       string
	ExpiresAt time.Time
}
