package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	pkgerrors "github.com/isira-aw/Metropolitan-NEW-EMS/pkg/errors"
)

// UserService account management.
type UserService interface {
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	ListWorkers(ctx context.Context) ([]dto.UserResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	SetActive(ctx context.Context, id string, active bool, callerID string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.Role, repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()})
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, total, nil
}

func (s *userService) ListWorkers(ctx context.Context) ([]dto.UserResponse, error) {
	users, _, err := s.repo.User.List(ctx, model.RoleEmployee, repository.Page{})
	if err != nil {
		s.logger.Error("list workers failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		if users[i].IsActive {
			out = append(out, toUserResponse(&users[i]))
		}
	}
	return out, nil
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if _, err := s.repo.User.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     username,
		FullName:     strings.TrimSpace(req.FullName),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
		BaseModel:    model.BaseModel{CreatedBy: model.StringPtr(callerID)},
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", user.UserID), zap.String("role", user.Role))
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) SetActive(ctx context.Context, id string, active bool, callerID string) error {
	if id == callerID && !active {
		return ErrForbidden
	}
	if err := s.repo.User.SetActive(ctx, id, active, callerID); err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}
	return nil
}
