package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// UserHandler account administration.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// ListWorkers returns the active employees tickets can be assigned to.
// GET /api/v1/users/workers
func (h *UserHandler) ListWorkers(c *gin.Context) {
	workers, err := h.userSvc.ListWorkers(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": workers})
}

// CreateUser POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Created(c, user)
}

// SetActive enables or disables an account.
// PUT /api/v1/users/:id/active
func (h *UserHandler) SetActive(c *gin.Context) {
	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.SetActive(c.Request.Context(), c.Param("id"), *req.Active, callerID); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		response.Conflict(c, 20002, "username already exists", "")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 20003, "you cannot change your own account status")
	default:
		handleCommonError(c, err)
	}
}
