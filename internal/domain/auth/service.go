package auth

import (
	"context"
	"time"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/id"
	"pricecraft/pkg/logger"
)

// Service provides login and account operations.
type Service struct {
	repo Repository
	jwt  *JWTService
}

// NewService creates an auth service.
func NewService(repo Repository, jwt *JWTService) *Service {
	return &Service{repo: repo, jwt: jwt}
}

// LoginResult is the output of a successful login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *User
}

// Login verifies credentials and issues an access token.
// Bad email and bad password produce the same error, so the endpoint does
// not leak which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.Warn(ctx, "login failed", "email", email)
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	if !user.IsActive || !user.CheckPassword(password) {
		logger.Warn(ctx, "login failed", "email", email)
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// GetByID retrieves a user account.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, email, name, password string, role Role) (*User, error) {
	if len(password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	user, err := NewUser(email, name, password, role)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.NewDuplicate("user", "email", email)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", email)
	return user, nil
}
