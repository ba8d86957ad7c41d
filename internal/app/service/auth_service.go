package service

import (
	"car_rental/internal/common"
	"car_rental/internal/common/security"
	"car_rental/internal/domain/model"
	"car_rental/internal/domain/repository"
	"car_rental/internal/platform/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SessionStore tracks session tokens that were logged out before expiry.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	userRepo repository.UserRepository
	sessions SessionStore
}

func NewAuthService(userRepo repository.UserRepository, sessions SessionStore) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions}
}

type RegisterRequest struct {
	Username string `form:"username" validate:"required,min=3,max=64,printascii"`
	Password string `form:"password" validate:"required,min=6,max=72"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type AuthResponse struct {
	User   *model.User
	Token  string
	Claims *security.SessionClaims
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, common.ErrUsernameTaken
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.L.Info("user registered", "user_id", user.ID, "username", user.Username)
	user.HashedPassword = ""
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := common.Validate(req); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	token, claims, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token, Claims: claims}, nil
}

// Logout revokes the session token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *security.SessionClaims) error {
	if claims == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt)
	if err := s.sessions.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	logger.L.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// CurrentUser resolves verified token claims to the stored user. Revoked
// tokens and tokens of deleted users yield ErrUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, claims *security.SessionClaims) (*model.User, error) {
	if claims == nil {
		return nil, common.ErrUnauthorized
	}
	revoked, err := s.sessions.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// EnsureAdmin creates the seed administrator unless the username already
// exists. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, fmt.Errorf("seed admin credentials must not be empty: %w", common.ErrValidation)
	}
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	if exists {
		return false, nil
	}

	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &model.User{
		Username:       username,
		HashedPassword: hashedPassword,
		Role:           model.RoleAdmin,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	logger.Infof("Seed admin %q created", username)
	return true, nil
}
