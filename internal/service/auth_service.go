package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/jwt"
)

// TokenBlacklist revokes access tokens before they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService authentication.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, in dto.LogoutInput) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil, in which case
// logout is a no-op on the server side.
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, blacklist TokenBlacklist, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, blacklist: blacklist, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("load user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	token, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("issue access token failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.UserID), zap.String("role", user.Role))
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        toUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, in dto.LogoutInput) error {
	if s.blacklist == nil || in.JTI == "" {
		return nil
	}
	ttl := time.Until(in.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, in.JTI, ttl); err != nil {
		s.logger.Error("blacklist token failed", zap.Error(err))
		return err
	}
	return nil
}
