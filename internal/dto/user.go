package dto

import "time"

// ── Users ──

// UserListRequest user listing query.
type UserListRequest struct {
	PaginationRequest
	Role string `form:"role" binding:"omitempty,oneof=admin employee"`
}

// CreateUserRequest admin creates an account.
type CreateUserRequest struct {
	Username string `json:"username"  binding:"required,min=3,max=50"`
	FullName string `json:"full_name" binding:"required,max=100"`
	Email    string `json:"email"     binding:"omitempty,email"`
	Phone    string `json:"phone"     binding:"omitempty,max=20"`
	Password string `json:"password"  binding:"required,min=8,max=72"`
	Role     string `json:"role"      binding:"required,oneof=admin employee"`
}

// SetActiveRequest enables or disables an account.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// UserResponse user without secrets.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
